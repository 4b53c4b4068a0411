package exporter

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/url"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
)

const DefaultCaption = "Check out my meme!"

var platforms = map[string]bool{
	"twitter":   true,
	"whatsapp":  true,
	"instagram": true,
}

// EncodePNG serializes the bitmap as is, with no resizing or filtering.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func DataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

// Filename returns "<name>.png", or "meme<unix millis>.png" for a blank name.
func Filename(name string, now time.Time) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Sprintf("meme%d.png", now.UnixMilli())
	}
	if strings.HasSuffix(strings.ToLower(name), ".png") {
		return name
	}
	return name + ".png"
}

// NormalizePlatform is the spelling ShareURL matches platforms by.
func NormalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// ShareURL builds the share intent link for platform carrying link and caption.
// A data URL as link usually exceeds what share endpoints accept.
func ShareURL(platform, link, caption string) (string, error) {
	platform = NormalizePlatform(platform)
	if !platforms[platform] {
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownPlatform, platform)
	}
	if caption == "" {
		caption = DefaultCaption
	}

	q := url.Values{}
	q.Set("text", caption)
	q.Set("url", link)

	return fmt.Sprintf("https://%s.com/intent/tweet?%s", platform, q.Encode()), nil
}
