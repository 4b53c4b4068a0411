package compositor

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	_ "golang.org/x/image/webp"
)

// LoadSource validates that data is a decodable raster image and wraps it as
// a session source. The bytes are copied.
func LoadSource(data []byte) (entity.SourceImage, error) {
	return LoadSourceLimit(data, entity.DefaultMaxSourcePixels)
}

// LoadSourceLimit is LoadSource with a bound on the declared canvas. Images
// over maxPixels are rejected before any pixel data is decoded. A
// non-positive maxPixels disables the bound.
func LoadSourceLimit(data []byte, maxPixels int) (entity.SourceImage, error) {
	img, format, err := decode(data, maxPixels)
	if err != nil {
		return entity.SourceImage{}, err
	}

	b := img.Bounds()
	sum := sha256.Sum256(data)

	return entity.SourceImage{
		Data:   append([]byte(nil), data...),
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		Digest: hex.EncodeToString(sum[:]),
	}, nil
}

// Decode reads PNG, JPEG, GIF (first frame) and WebP. JPEG EXIF orientation
// is applied so the pixels match what a browser would show.
func Decode(data []byte) (image.Image, string, error) {
	return decode(data, 0)
}

func decode(data []byte, maxPixels int) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", entity.ErrDecode)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", entity.ErrDecode, err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", fmt.Errorf("%w: %dx%d %s image exceeds %d pixels", entity.ErrDecode, cfg.Width, cfg.Height, format, maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", entity.ErrDecode, err)
	}

	if img.Bounds().Empty() {
		return nil, "", fmt.Errorf("%w: zero-sized %s image", entity.ErrDecode, format)
	}

	return img, format, nil
}
