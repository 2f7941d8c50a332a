package geom

import "math"

// Default zoom limits of a Transform.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 16.0
)

// Transform is the viewport onto the schematic: screen = world*Scale + Translate.
// Screen coordinates are device independent pixels with the origin at the top
// left corner of the canvas.
type Transform struct {
	// Pixels per world unit
	Scale float64

	// Screen position of the world origin
	Translate Vec

	// Zoom limits
	MinScale float64
	MaxScale float64

	// Canvas size in device independent pixels
	ScreenWidth  int
	ScreenHeight int

	// Device pixels per device independent pixel
	PixelRatio float64
}

// NewTransform creates a transform at scale 1 with the world origin in the
// top left corner.
func NewTransform(screenWidth, screenHeight int) *Transform {
	return &Transform{
		Scale:        1,
		MinScale:     DefaultMinScale,
		MaxScale:     DefaultMaxScale,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		PixelRatio:   1,
	}
}

// WorldToScreen converts world units to screen pixels.
func (t *Transform) WorldToScreen(w Vec) Vec {
	return w.Mul(t.Scale).Add(t.Translate)
}

// ScreenToWorld converts screen pixels to world units.
func (t *Transform) ScreenToWorld(s Vec) Vec {
	return s.Sub(t.Translate).Mul(1 / t.Scale)
}

// GridToScreen converts a grid point to screen pixels.
func (t *Transform) GridToScreen(p Point) Vec {
	return t.WorldToScreen(GridToWorld(p))
}

// ScreenToDevice converts screen pixels to device pixels.
func (t *Transform) ScreenToDevice(s Vec) Vec {
	return s.Mul(t.ratio())
}

// WorldToDevice converts world units to device pixels, the space the
// rendering backend draws in.
func (t *Transform) WorldToDevice(w Vec) Vec {
	return t.ScreenToDevice(t.WorldToScreen(w))
}

// Pan moves the view by a screen pixel offset.
func (t *Transform) Pan(delta Vec) {
	t.Translate = t.Translate.Add(delta)
}

// ZoomAt scales the view by factor keeping the screen point origin fixed.
// The resulting scale is clamped to [MinScale, MaxScale]; a non-positive
// factor zooms out to MinScale.
func (t *Transform) ZoomAt(origin Vec, factor float64) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	target := t.clamp(t.Scale * factor)
	if factor <= 0 {
		target = t.clamp(0)
	}
	factor = target / t.Scale

	// Keep the world point under origin stationary
	t.Translate = t.Translate.Mul(factor).Sub(origin.Mul(factor)).Add(origin)
	t.Scale = target
}

// Fit centers the grid box r on screen and zooms so it fills 90% of the
// smaller screen dimension.
func (t *Transform) Fit(r Rect) {
	lo := GridToWorld(r.Min)
	hi := GridToWorld(r.Max)
	width := hi.X - lo.X
	height := hi.Y - lo.Y
	if width <= 0 {
		width = GridSize
	}
	if height <= 0 {
		height = GridSize
	}

	zoomX := float64(t.ScreenWidth) * 0.9 / width
	zoomY := float64(t.ScreenHeight) * 0.9 / height
	t.Scale = t.clamp(math.Min(zoomX, zoomY))

	center := V((lo.X+hi.X)/2, (lo.Y+hi.Y)/2)
	screenCenter := V(float64(t.ScreenWidth)/2, float64(t.ScreenHeight)/2)
	t.Translate = screenCenter.Sub(center.Mul(t.Scale))
}

// UpdateScreenSize updates the canvas size and pixel ratio.
func (t *Transform) UpdateScreenSize(width, height int, pixelRatio float64) {
	t.ScreenWidth = width
	t.ScreenHeight = height
	if pixelRatio > 0 {
		t.PixelRatio = pixelRatio
	}
}

// VisibleBounds returns the grid cells covering the canvas, one cell of
// margin included.
func (t *Transform) VisibleBounds() Rect {
	tl := t.ScreenToWorld(V(0, 0))
	br := t.ScreenToWorld(V(float64(t.ScreenWidth), float64(t.ScreenHeight)))
	return Rect{
		Min: Point{X: int(math.Floor(tl.X/GridSize)) - 1, Y: int(math.Floor(tl.Y/GridSize)) - 1},
		Max: Point{X: int(math.Ceil(br.X/GridSize)) + 1, Y: int(math.Ceil(br.Y/GridSize)) + 1},
	}
}

func (t *Transform) clamp(s float64) float64 {
	lo, hi := t.MinScale, t.MaxScale
	if lo <= 0 {
		lo = DefaultMinScale
	}
	if hi <= 0 {
		hi = DefaultMaxScale
	}
	return math.Max(lo, math.Min(hi, s))
}

func (t *Transform) ratio() float64 {
	if t.PixelRatio <= 0 {
		return 1
	}
	return t.PixelRatio
}
