package session

import (
	"image"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
)

const (
	PrimarySurface = "primary"
	PreviewSurface = "preview"
)

// Surface is one render target. It owns its own output buffer.
type Surface struct {
	name   string
	bitmap *entity.RenderedBitmap
}

func newSurface(name string) *Surface {
	return &Surface{name: name}
}

func (s *Surface) Name() string { return s.name }

// commit keeps the bitmap only if it is not older than the current one.
func (s *Surface) commit(img *image.NRGBA, revision uint64) bool {
	if s.bitmap != nil && revision < s.bitmap.Revision {
		return false
	}
	s.bitmap = &entity.RenderedBitmap{Image: img, Revision: revision}
	return true
}

func (s *Surface) clear() {
	s.bitmap = nil
}

func (s *Surface) state() entity.SurfaceState {
	if s.bitmap == nil {
		return entity.SurfaceState{}
	}
	b := s.bitmap.Image.Bounds()
	return entity.SurfaceState{
		Rendered: true,
		Revision: s.bitmap.Revision,
		Width:    b.Dx(),
		Height:   b.Dy(),
	}
}
