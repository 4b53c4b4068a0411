package compositor

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// 2px outline: one pixel on each side of the glyph edge.
var strokeOffsets = []image.Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

var strokeColor = color.NRGBA{A: 255}

func TopBaseline(fontSize float64) float64 {
	return math.Max(fontSize*1.2, fontSize)
}

func BottomBaseline(fontSize float64, height int) float64 {
	return float64(height) - math.Max(fontSize/2, 10)
}

func (c *Compositor) drawOverlay(dst *image.NRGBA, o entity.TextOverlay) error {
	o = o.Normalize()
	if o.IsEmpty() {
		return nil
	}

	size := float64(min(o.FontSize, entity.MaxFontScale*dst.Bounds().Dy()))
	face, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("create font face: %w", err)
	}
	defer face.Close()

	fill := ParseColor(o.FontColor)

	if o.TopText != "" {
		drawCaption(dst, face, o.TopText, TopBaseline(size), fill)
	}
	if o.BottomText != "" {
		drawCaption(dst, face, o.BottomText, BottomBaseline(size, dst.Bounds().Dy()), fill)
	}
	return nil
}

// drawCaption centers text horizontally on the given baseline, outline first.
func drawCaption(dst *image.NRGBA, face font.Face, text string, baseline float64, fill color.Color) {
	d := &font.Drawer{Dst: dst, Face: face}

	advance := d.MeasureString(text)
	x := fixed.I(dst.Bounds().Dx())/2 - advance/2
	y := fixed.Int26_6(baseline * 64)

	d.Src = image.NewUniform(strokeColor)
	for _, off := range strokeOffsets {
		d.Dot = fixed.Point26_6{X: x + fixed.I(off.X), Y: y + fixed.I(off.Y)}
		d.DrawString(text)
	}

	d.Src = image.NewUniform(fill)
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)
}

// ParseColor accepts "#rgb", "#rrggbb" (the leading # is optional) and
// "rgb(r, g, b)". Anything else yields opaque white.
func ParseColor(s string) color.NRGBA {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if strings.HasPrefix(s, "rgb(") {
		var r, g, b int
		if _, err := fmt.Sscanf(s, "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return white
		}
		return color.NRGBA{R: channel(r), G: channel(g), B: channel(b), A: 255}
	}

	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return white
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return white
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func channel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
