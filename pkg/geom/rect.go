package geom

// Rect is an inclusive box of grid points.
type Rect struct {
	Min Point
	Max Point
}

// R builds a normalized Rect from two corners.
func R(a, b Point) Rect {
	r := Rect{Min: a, Max: b}
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

// Contains reports whether p lies inside r, borders included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Union returns the smallest Rect covering r and s.
func (r Rect) Union(s Rect) Rect {
	out := r
	out.Min.X = min(out.Min.X, s.Min.X)
	out.Min.Y = min(out.Min.Y, s.Min.Y)
	out.Max.X = max(out.Max.X, s.Max.X)
	out.Max.Y = max(out.Max.Y, s.Max.Y)
	return out
}

// Transform maps a symbol-relative box through an orientation and places it
// at pos.
func (r Rect) Transform(o Orientation, pos Point) Rect {
	a := o.Apply(r.Min).Add(pos)
	b := o.Apply(r.Max).Add(pos)
	return R(a, b)
}
