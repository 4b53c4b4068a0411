// Package session holds the editing state of one user and keeps its render
// surfaces in step with it.
package session

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
)

// Pipeline is the compositor as seen by a session.
type Pipeline interface {
	Render(ctx context.Context, src entity.SourceImage, filters entity.FilterSettings, overlay entity.TextOverlay, target entity.Size) (*image.NRGBA, error)
	ApplyPermanently(ctx context.Context, src entity.SourceImage, filters entity.FilterSettings, target entity.Size) (entity.SourceImage, error)
}

type inputs struct {
	source      *entity.SourceImage
	filters     entity.FilterSettings
	overlay     entity.TextOverlay
	previewOpen bool
}

type Session struct {
	id       string
	pipeline Pipeline
	target   entity.Size

	mu         sync.Mutex
	in         inputs
	filename   string
	revision   uint64
	issued     uint64
	applied    uint64
	primary    *Surface
	preview    *Surface
	lastActive time.Time
}

func New(id string, pipeline Pipeline, target entity.Size) *Session {
	return &Session{
		id:       id,
		pipeline: pipeline,
		target:   target,
		in: inputs{
			filters: entity.NeutralFilters(),
			overlay: entity.DefaultOverlay(),
		},
		primary:    newSurface(PrimarySurface),
		preview:    newSurface(PreviewSurface),
		lastActive: time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

// BeginUpload issues a ticket for an upload whose decode is about to start.
func (s *Session) BeginUpload() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	s.lastActive = time.Now()
	return s.issued
}

// CompleteUpload installs a decoded source. A ticket older than the last
// installed upload is rejected with ErrStaleUpload and changes nothing.
func (s *Session) CompleteUpload(ctx context.Context, ticket uint64, src entity.SourceImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket <= s.applied {
		return entity.ErrStaleUpload
	}

	if err := s.update(ctx, func(in *inputs) error {
		in.source = &src
		return nil
	}); err != nil {
		return err
	}

	s.applied = ticket
	return nil
}

func (s *Session) SetFilters(ctx context.Context, f entity.FilterSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(ctx, func(in *inputs) error {
		in.filters = f.Clamp()
		return nil
	})
}

func (s *Session) SetOverlay(ctx context.Context, o entity.TextOverlay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(ctx, func(in *inputs) error {
		in.overlay = o.Normalize()
		return nil
	})
}

// PatchFilters changes only the fields set in p.
func (s *Session) PatchFilters(ctx context.Context, p entity.FilterPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(ctx, func(in *inputs) error {
		in.filters = p.Apply(in.filters).Clamp()
		return nil
	})
}

func (s *Session) PatchOverlay(ctx context.Context, p entity.OverlayPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(ctx, func(in *inputs) error {
		in.overlay = p.Apply(in.overlay).Normalize()
		return nil
	})
}

// SetPreviewOpen toggles the preview surface. Opening it renders immediately.
func (s *Session) SetPreviewOpen(ctx context.Context, open bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(ctx, func(in *inputs) error {
		in.previewOpen = open
		return nil
	})
}

// ApplyFilters folds the current filters into a new source and resets the
// filters to neutral. Without a source it does nothing.
func (s *Session) ApplyFilters(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.in.source == nil {
		return nil
	}

	return s.update(ctx, func(in *inputs) error {
		folded, err := s.pipeline.ApplyPermanently(ctx, *in.source, in.filters, s.target)
		if err != nil {
			return err
		}
		in.source = &folded
		in.filters = entity.NeutralFilters()
		return nil
	})
}

func (s *Session) SetFilename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filename = name
	s.lastActive = time.Now()
}

func (s *Session) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filename
}

func (s *Session) HasImage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.source != nil
}

// Bitmap returns the last bitmap of the named surface, nil if it holds none.
func (s *Session) Bitmap(surface string) (*entity.RenderedBitmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch surface {
	case PrimarySurface:
		return s.primary.bitmap, nil
	case PreviewSurface:
		return s.preview.bitmap, nil
	default:
		return nil, entity.ErrUnknownSurface
	}
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) Snapshot() entity.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := entity.SessionState{
		ID:          s.id,
		HasImage:    s.in.source != nil,
		Filters:     s.in.filters,
		Overlay:     s.in.overlay,
		Filename:    s.filename,
		PreviewOpen: s.in.previewOpen,
		Revision:    s.revision,
		Primary:     s.primary.state(),
		Preview:     s.preview.state(),
		LastActive:  s.lastActive,
	}
	if s.in.source != nil {
		src := *s.in.source
		st.Source = &src
	}
	return st
}

// update applies mutate to a copy of the inputs, renders every visible
// surface from that copy and commits inputs and bitmaps together. On error
// the session is left as it was. Caller holds s.mu.
func (s *Session) update(ctx context.Context, mutate func(in *inputs) error) error {
	next := s.in
	if err := mutate(&next); err != nil {
		return err
	}

	var primary, preview *image.NRGBA
	if next.source != nil {
		var err error
		primary, err = s.pipeline.Render(ctx, *next.source, next.filters, next.overlay, s.target)
		if err != nil {
			return err
		}
		if next.previewOpen {
			preview, err = s.pipeline.Render(ctx, *next.source, next.filters, next.overlay, s.target)
			if err != nil {
				return err
			}
		}
	}

	s.in = next
	s.revision++
	s.lastActive = time.Now()

	if primary != nil {
		s.primary.commit(primary, s.revision)
	}
	if preview != nil {
		s.preview.commit(preview, s.revision)
	} else {
		s.preview.clear()
	}
	return nil
}
