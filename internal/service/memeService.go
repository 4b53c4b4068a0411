package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/database"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/compositor"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/exporter"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/kafka"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/session"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"
)

var ErrUploadTooLarge = errors.New("upload exceeds size limit")

func NewMemeService(repo database.SessionRepository, pipeline session.Pipeline, producer kafka.Producer, opts Options) MemeService {
	if opts.Target.W <= 0 || opts.Target.H <= 0 {
		opts.Target = entity.DefaultTargetSize()
	}
	if opts.MaxSourcePixels <= 0 {
		opts.MaxSourcePixels = entity.DefaultMaxSourcePixels
	}
	if opts.ShareCaption == "" {
		opts.ShareCaption = exporter.DefaultCaption
	}
	if producer == nil {
		producer = kafka.NewMockProducer()
	}

	return &memeService{
		repo:     repo,
		pipeline: pipeline,
		producer: producer,
		opts:     opts,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

func (s *memeService) CreateSession(ctx context.Context) (*entity.SessionState, error) {
	sess := session.New(s.newID(), s.pipeline, s.opts.Target)
	if err := s.repo.Save(sess); err != nil {
		return nil, err
	}

	logrus.WithField("session_id", sess.ID()).Info("Session created")
	return snapshot(sess), nil
}

func (s *memeService) GetSession(ctx context.Context, id string) (*entity.SessionState, error) {
	sess, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return snapshot(sess), nil
}

func (s *memeService) DeleteSession(ctx context.Context, id string) error {
	return s.repo.Delete(id)
}

// UploadImage decodes file outside the session lock. When a newer upload
// lands first, this one is dropped with ErrStaleUpload.
func (s *memeService) UploadImage(ctx context.Context, id string, file io.Reader) (*entity.SessionState, error) {
	sess, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	ticket := sess.BeginUpload()

	data, err := s.readUpload(file)
	if err != nil {
		return nil, err
	}

	if !filetype.IsImage(data) {
		logrus.WithField("session_id", id).Warn("Upload is not an image")
		return nil, fmt.Errorf("%w: unrecognized file type", entity.ErrDecode)
	}

	src, err := compositor.LoadSourceLimit(data, s.opts.MaxSourcePixels)
	if err != nil {
		logrus.WithError(err).WithField("session_id", id).Warn("Upload rejected")
		return nil, err
	}

	if err := sess.CompleteUpload(ctx, ticket, src); err != nil {
		if errors.Is(err, entity.ErrStaleUpload) {
			logrus.WithFields(logrus.Fields{"session_id": id, "ticket": ticket}).Info("Stale upload discarded")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"session_id": id,
		"format":     src.Format,
		"width":      src.Width,
		"height":     src.Height,
	}).Info("Image uploaded")
	return snapshot(sess), nil
}

func (s *memeService) SetFilters(ctx context.Context, id string, filters entity.FilterSettings) (*entity.SessionState, error) {
	return s.mutate(id, func(sess *session.Session) error {
		return sess.SetFilters(ctx, filters)
	})
}

func (s *memeService) ApplyFilters(ctx context.Context, id string) (*entity.SessionState, error) {
	return s.mutate(id, func(sess *session.Session) error {
		if !sess.HasImage() {
			return entity.ErrNoImage
		}
		return sess.ApplyFilters(ctx)
	})
}

func (s *memeService) SetOverlay(ctx context.Context, id string, overlay entity.TextOverlay) (*entity.SessionState, error) {
	return s.mutate(id, func(sess *session.Session) error {
		return sess.SetOverlay(ctx, overlay)
	})
}

func (s *memeService) PatchFilters(ctx context.Context, id string, patch entity.FilterPatch) (*entity.SessionState, error) {
	return s.mutate(id, func(sess *session.Session) error {
		return sess.PatchFilters(ctx, patch)
	})
}

func (s *memeService) PatchOverlay(ctx context.Context, id string, patch entity.OverlayPatch) (*entity.SessionState, error) {
	return s.mutate(id, func(sess *session.Session) error {
		return sess.PatchOverlay(ctx, patch)
	})
}

func (s *memeService) SetFilename(ctx context.Context, id string, name string) (*entity.SessionState, error) {
	return s.mutate(id, func(sess *session.Session) error {
		sess.SetFilename(name)
		return nil
	})
}

func (s *memeService) SetPreview(ctx context.Context, id string, open bool) (*entity.SessionState, error) {
	return s.mutate(id, func(sess *session.Session) error {
		if open && !sess.HasImage() {
			return entity.ErrNoImage
		}
		return sess.SetPreviewOpen(ctx, open)
	})
}

func (s *memeService) SurfacePNG(ctx context.Context, id string, surface string) ([]byte, error) {
	sess, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	bmp, err := sess.Bitmap(surface)
	if err != nil {
		return nil, err
	}
	if bmp == nil {
		return nil, entity.ErrNoImage
	}
	return exporter.EncodePNG(bmp.Image)
}

func (s *memeService) Download(ctx context.Context, id string) (*entity.Download, error) {
	sess, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	data, err := s.SurfacePNG(ctx, id, session.PrimarySurface)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dl := &entity.Download{
		Filename: exporter.Filename(sess.Filename(), now),
		Data:     data,
	}

	s.publish(ctx, entity.ExportEvent{
		SessionID: id,
		Kind:      entity.ExportDownload,
		Filename:  dl.Filename,
		Bytes:     len(data),
		Timestamp: now.UnixMilli(),
	})
	return dl, nil
}

func (s *memeService) Share(ctx context.Context, id string, platform string) (string, error) {
	data, err := s.SurfacePNG(ctx, id, session.PrimarySurface)
	if err != nil {
		return "", err
	}

	link, err := exporter.ShareURL(platform, exporter.DataURL(data), s.opts.ShareCaption)
	if err != nil {
		return "", err
	}

	s.publish(ctx, entity.ExportEvent{
		SessionID: id,
		Kind:      entity.ExportShare,
		Platform:  exporter.NormalizePlatform(platform),
		Bytes:     len(data),
		Timestamp: s.now().UnixMilli(),
	})
	return link, nil
}

// CleanupIdle drops sessions with no activity for maxIdle and returns how many.
func (s *memeService) CleanupIdle(ctx context.Context, maxIdle time.Duration) int {
	removed := 0
	for _, id := range s.repo.IdleSince(s.now().Add(-maxIdle)) {
		if ctx.Err() != nil {
			break
		}
		if err := s.repo.Delete(id); err != nil {
			continue
		}
		removed++
	}
	return removed
}

func (s *memeService) mutate(id string, fn func(sess *session.Session) error) (*entity.SessionState, error) {
	sess, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	return snapshot(sess), nil
}

func (s *memeService) readUpload(file io.Reader) ([]byte, error) {
	if s.opts.MaxUploadBytes <= 0 {
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(io.LimitReader(file, s.opts.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.opts.MaxUploadBytes {
		return nil, ErrUploadTooLarge
	}
	return data, nil
}

// publish never fails the export that triggered it.
func (s *memeService) publish(ctx context.Context, event entity.ExportEvent) {
	if err := s.producer.Publish(ctx, event); err != nil {
		logrus.WithError(err).WithField("session_id", event.SessionID).Warn("Export event not published")
	}
}

func snapshot(sess *session.Session) *entity.SessionState {
	st := sess.Snapshot()
	return &st
}
