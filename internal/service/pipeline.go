package service

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/database/redis"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/compositor"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/exporter"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/session"
	"github.com/sirupsen/logrus"
)

type RenderCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, png []byte) error
}

// cachedPipeline runs the compositor, consulting the render cache first when
// one is configured. Cache failures are logged and never fail a render.
type cachedPipeline struct {
	compositor *compositor.Compositor
	cache      RenderCache
}

// A nil cache disables caching.
func NewPipeline(c *compositor.Compositor, cache RenderCache) session.Pipeline {
	return &cachedPipeline{compositor: c, cache: cache}
}

func (p *cachedPipeline) Render(ctx context.Context, src entity.SourceImage, filters entity.FilterSettings, overlay entity.TextOverlay, target entity.Size) (*image.NRGBA, error) {
	if p.cache == nil {
		return p.compositor.Render(src, filters, overlay, target)
	}

	key := redis.RenderKey(p.compositor.FontDigest(), src.Digest, filters, overlay, target)
	log := logrus.WithField("key", key)

	data, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		log.WithError(err).Warn("Render cache read failed")
	}
	if ok {
		if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
			return imaging.Clone(img), nil
		}
		log.Warn("Render cache entry is not a valid PNG, re-rendering")
	}

	img, err := p.compositor.Render(src, filters, overlay, target)
	if err != nil {
		return nil, err
	}

	encoded, err := exporter.EncodePNG(img)
	if err != nil {
		log.WithError(err).Warn("Render cache encode failed")
		return img, nil
	}
	if err := p.cache.Set(ctx, key, encoded); err != nil {
		log.WithError(err).Warn("Render cache write failed")
	}
	return img, nil
}

func (p *cachedPipeline) ApplyPermanently(_ context.Context, src entity.SourceImage, filters entity.FilterSettings, target entity.Size) (entity.SourceImage, error) {
	return p.compositor.ApplyPermanently(src, filters, target)
}
