// Package geom holds the geometric primitives shared by the editor core:
// integer grid points, the eight component orientations, the view transform
// between world units and screen pixels, and exact grid hit tests.
//
// World units are fixed: one grid cell is GridSize world units wide. All
// coordinates that reach the document are snapped to the grid first, so
// connectivity is decided by exact integer comparisons and never by a
// floating point tolerance.
package geom
