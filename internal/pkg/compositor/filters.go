package compositor

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
)

// applyFilters runs brightness, contrast, grayscale and blur in that order.
// Identity amounts are skipped so neutral settings leave pixels untouched.
func applyFilters(img *image.NRGBA, f entity.FilterSettings) *image.NRGBA {
	if f.Brightness != 100 {
		img = adjustBrightness(img, f.Brightness)
	}
	if f.Contrast != 100 {
		img = adjustContrast(img, f.Contrast)
	}
	if f.Grayscale > 0 {
		img = grayscale(img, f.Grayscale)
	}
	if f.Blur > 0 {
		img = imaging.Blur(img, f.Blur)
	}
	return img
}

func adjustBrightness(img image.Image, percent float64) *image.NRGBA {
	k := percent / 100
	var lut [256]uint8
	for i := range lut {
		lut[i] = toByte(float64(i) * k)
	}
	return applyLUT(img, &lut)
}

func adjustContrast(img image.Image, percent float64) *image.NRGBA {
	k := percent / 100
	var lut [256]uint8
	for i := range lut {
		lut[i] = toByte((float64(i)-127.5)*k + 127.5)
	}
	return applyLUT(img, &lut)
}

// grayscale interpolates between identity and the Rec. 709 luminance matrix.
func grayscale(img image.Image, percent float64) *image.NRGBA {
	a := 1 - percent/100
	m := [9]float64{
		0.2126 + 0.7874*a, 0.7152 - 0.7152*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 + 0.2848*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 - 0.7152*a, 0.0722 + 0.9278*a,
	}

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: toByte(m[0]*r + m[1]*g + m[2]*b),
			G: toByte(m[3]*r + m[4]*g + m[5]*b),
			B: toByte(m[6]*r + m[7]*g + m[8]*b),
			A: c.A,
		}
	})
}

func applyLUT(img image.Image, lut *[256]uint8) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.R = lut[c.R]
		c.G = lut[c.G]
		c.B = lut[c.B]
		return c
	})
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
