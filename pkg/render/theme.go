package render

import (
	"fmt"
	"image/color"
	"strings"
)

// Theme represents a color scheme for schematic rendering
type Theme int

const (
	// ThemeLight is a light background theme
	ThemeLight Theme = iota
	// ThemeDark is a dark background theme
	ThemeDark
)

// Colors defines the color scheme for rendering schematic elements
type Colors struct {
	// Background and grid
	Background color.NRGBA
	Grid       color.NRGBA
	GridBold   color.NRGBA

	// Wires and connections
	Wire          color.NRGBA
	WireEnergized color.NRGBA
	Junction      color.NRGBA
	Dangling      color.NRGBA

	// Symbols
	Symbol       color.NRGBA
	SymbolActive color.NRGBA
	Label        color.NRGBA

	// Selection and editing overlays
	Selection color.NRGBA
	Ghost     color.NRGBA
	Preview   color.NRGBA
	Cursor    color.NRGBA
}

// GetColors returns the color scheme for the given theme
func GetColors(theme Theme) *Colors {
	switch theme {
	case ThemeDark:
		return getDarkTheme()
	default:
		return getLightTheme()
	}
}

func getLightTheme() *Colors {
	return &Colors{
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Grid:       color.NRGBA{R: 179, G: 179, B: 179, A: 255},
		GridBold:   color.NRGBA{R: 128, G: 128, B: 128, A: 255},

		// KiCad green
		Wire:          color.NRGBA{R: 0, G: 132, B: 0, A: 255},
		WireEnergized: color.NRGBA{R: 220, G: 40, B: 0, A: 255},
		Junction:      color.NRGBA{R: 0, G: 132, B: 0, A: 255},
		Dangling:      color.NRGBA{R: 0, G: 0, B: 132, A: 255},

		Symbol:       color.NRGBA{R: 132, G: 0, B: 0, A: 255},
		SymbolActive: color.NRGBA{R: 220, G: 40, B: 0, A: 255},
		Label:        color.NRGBA{R: 0, G: 100, B: 100, A: 255},

		Selection: color.NRGBA{R: 255, G: 0, B: 0, A: 128},
		Ghost:     color.NRGBA{R: 132, G: 0, B: 0, A: 96},
		Preview:   color.NRGBA{R: 0, G: 132, B: 0, A: 128},
		Cursor:    color.NRGBA{R: 0, G: 0, B: 0, A: 255},
	}
}

func getDarkTheme() *Colors {
	return &Colors{
		Background: color.NRGBA{R: 30, G: 30, B: 30, A: 255},
		Grid:       color.NRGBA{R: 70, G: 70, B: 70, A: 255},
		GridBold:   color.NRGBA{R: 110, G: 110, B: 110, A: 255},

		Wire:          color.NRGBA{R: 0, G: 255, B: 0, A: 255},
		WireEnergized: color.NRGBA{R: 255, G: 200, B: 0, A: 255},
		Junction:      color.NRGBA{R: 0, G: 255, B: 0, A: 255},
		Dangling:      color.NRGBA{R: 0, G: 150, B: 255, A: 255},

		Symbol:       color.NRGBA{R: 255, G: 100, B: 100, A: 255},
		SymbolActive: color.NRGBA{R: 255, G: 200, B: 0, A: 255},
		Label:        color.NRGBA{R: 100, G: 255, B: 255, A: 255},

		Selection: color.NRGBA{R: 255, G: 100, B: 100, A: 128},
		Ghost:     color.NRGBA{R: 255, G: 100, B: 100, A: 96},
		Preview:   color.NRGBA{R: 0, G: 255, B: 0, A: 128},
		Cursor:    color.NRGBA{R: 220, G: 220, B: 220, A: 255},
	}
}

// String returns the theme name as a string
func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "unknown"
	}
}

// ParseTheme parses a theme name, ignoring case.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(s) {
	case "light", "":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	}
	return ThemeLight, fmt.Errorf("unknown theme %q", s)
}
