// Package compositor turns a source image plus filter and caption settings
// into a rendered bitmap. Every function here is deterministic.
package compositor

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

type Compositor struct {
	font       *opentype.Font
	fontDigest string
}

// New parses fontData as the caption face. Empty fontData selects Go Bold.
func New(fontData []byte) (*Compositor, error) {
	if len(fontData) == 0 {
		fontData = gobold.TTF
	}

	f, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	sum := sha256.Sum256(fontData)
	return &Compositor{font: f, fontDigest: hex.EncodeToString(sum[:])}, nil
}

// FontDigest identifies the caption face. Renders with different faces
// differ even when every other input matches.
func (c *Compositor) FontDigest() string {
	return c.fontDigest
}

// OutputSize caps each axis independently. Aspect ratio is not preserved.
func OutputSize(width, height int, target entity.Size) entity.Size {
	if target.W <= 0 {
		target.W = entity.DefaultMaxWidth
	}
	if target.H <= 0 {
		target.H = entity.DefaultMaxHeight
	}
	return entity.Size{W: min(width, target.W), H: min(height, target.H)}
}

func (c *Compositor) Render(src entity.SourceImage, filters entity.FilterSettings, overlay entity.TextOverlay, target entity.Size) (*image.NRGBA, error) {
	dst, err := c.drawSource(src, filters, target)
	if err != nil {
		return nil, err
	}

	if err := c.drawOverlay(dst, overlay); err != nil {
		return nil, err
	}

	return dst, nil
}

// ApplyPermanently folds filters into a new PNG-encoded source. Captions are
// never part of the result.
func (c *Compositor) ApplyPermanently(src entity.SourceImage, filters entity.FilterSettings, target entity.Size) (entity.SourceImage, error) {
	img, err := c.drawSource(src, filters, target)
	if err != nil {
		return entity.SourceImage{}, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return entity.SourceImage{}, fmt.Errorf("encode filtered image: %w", err)
	}

	return LoadSource(buf.Bytes())
}

func (c *Compositor) drawSource(src entity.SourceImage, filters entity.FilterSettings, target entity.Size) (*image.NRGBA, error) {
	img, _, err := Decode(src.Data)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	size := OutputSize(b.Dx(), b.Dy(), target)

	var dst *image.NRGBA
	if size.W == b.Dx() && size.H == b.Dy() {
		dst = imaging.Clone(img)
	} else {
		dst = imaging.Resize(img, size.W, size.H, imaging.Lanczos)
	}

	return applyFilters(dst, filters.Clamp()), nil
}
