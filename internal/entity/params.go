package entity

import "math"

const (
	MaxBrightness = 200
	MaxContrast   = 200
	MaxGrayscale  = 100
	MaxBlur       = 10

	DefaultFontSize  = 30
	DefaultFontColor = "#ffffff"

	DefaultMaxWidth  = 500
	DefaultMaxHeight = 500

	// MaxFontScale bounds the rasterized caption size to this many times the
	// output height. Larger faces only draw glyphs that fall off the canvas.
	MaxFontScale = 4

	// DefaultMaxSourcePixels limits the canvas an upload may declare.
	DefaultMaxSourcePixels = 40_000_000
)

// FilterSettings values are CSS filter-function amounts: brightness and
// contrast in percent (100 is identity), grayscale in percent, blur in px.
type FilterSettings struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Grayscale  float64 `json:"grayscale"`
	Blur       float64 `json:"blur"`
}

func NeutralFilters() FilterSettings {
	return FilterSettings{Brightness: 100, Contrast: 100}
}

func (f FilterSettings) Clamp() FilterSettings {
	return FilterSettings{
		Brightness: clamp(f.Brightness, 0, MaxBrightness),
		Contrast:   clamp(f.Contrast, 0, MaxContrast),
		Grayscale:  clamp(f.Grayscale, 0, MaxGrayscale),
		Blur:       clamp(f.Blur, 0, MaxBlur),
	}
}

func (f FilterSettings) IsNeutral() bool {
	return f == NeutralFilters()
}

// FilterPatch carries the filter fields a client changed. Nil fields keep
// their current value.
type FilterPatch struct {
	Brightness *float64 `json:"brightness"`
	Contrast   *float64 `json:"contrast"`
	Grayscale  *float64 `json:"grayscale"`
	Blur       *float64 `json:"blur"`
}

func (p FilterPatch) Apply(f FilterSettings) FilterSettings {
	if p.Brightness != nil {
		f.Brightness = *p.Brightness
	}
	if p.Contrast != nil {
		f.Contrast = *p.Contrast
	}
	if p.Grayscale != nil {
		f.Grayscale = *p.Grayscale
	}
	if p.Blur != nil {
		f.Blur = *p.Blur
	}
	return f
}

type TextOverlay struct {
	TopText    string `json:"top_text"`
	BottomText string `json:"bottom_text"`
	FontSize   int    `json:"font_size"`
	FontColor  string `json:"font_color"`
}

func DefaultOverlay() TextOverlay {
	return TextOverlay{FontSize: DefaultFontSize, FontColor: DefaultFontColor}
}

// Normalize fills in defaults for a missing font size or color. Any string is
// accepted as caption text.
func (o TextOverlay) Normalize() TextOverlay {
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.FontColor == "" {
		o.FontColor = DefaultFontColor
	}
	return o
}

type OverlayPatch struct {
	TopText    *string `json:"top_text"`
	BottomText *string `json:"bottom_text"`
	FontSize   *int    `json:"font_size"`
	FontColor  *string `json:"font_color"`
}

func (p OverlayPatch) Apply(o TextOverlay) TextOverlay {
	if p.TopText != nil {
		o.TopText = *p.TopText
	}
	if p.BottomText != nil {
		o.BottomText = *p.BottomText
	}
	if p.FontSize != nil {
		o.FontSize = *p.FontSize
	}
	if p.FontColor != nil {
		o.FontColor = *p.FontColor
	}
	return o
}

func (o TextOverlay) IsEmpty() bool {
	return o.TopText == "" && o.BottomText == ""
}

// Size is a render target bound in pixels.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

func DefaultTargetSize() Size {
	return Size{W: DefaultMaxWidth, H: DefaultMaxHeight}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
