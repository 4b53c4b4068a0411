package service

import (
	"context"
	"io"
	"time"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/database"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/kafka"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/session"
)

type MemeService interface {
	CreateSession(ctx context.Context) (*entity.SessionState, error)
	GetSession(ctx context.Context, id string) (*entity.SessionState, error)
	DeleteSession(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, file io.Reader) (*entity.SessionState, error)
	SetFilters(ctx context.Context, id string, filters entity.FilterSettings) (*entity.SessionState, error)
	ApplyFilters(ctx context.Context, id string) (*entity.SessionState, error)
	SetOverlay(ctx context.Context, id string, overlay entity.TextOverlay) (*entity.SessionState, error)
	PatchFilters(ctx context.Context, id string, patch entity.FilterPatch) (*entity.SessionState, error)
	PatchOverlay(ctx context.Context, id string, patch entity.OverlayPatch) (*entity.SessionState, error)
	SetFilename(ctx context.Context, id string, name string) (*entity.SessionState, error)
	SetPreview(ctx context.Context, id string, open bool) (*entity.SessionState, error)
	SurfacePNG(ctx context.Context, id string, surface string) ([]byte, error)
	Download(ctx context.Context, id string) (*entity.Download, error)
	Share(ctx context.Context, id string, platform string) (string, error)
	CleanupIdle(ctx context.Context, maxIdle time.Duration) int
}

type Options struct {
	Target         entity.Size
	MaxUploadBytes int64
	ShareCaption   string

	// MaxSourcePixels bounds the canvas an upload may declare.
	MaxSourcePixels int
}

type memeService struct {
	repo     database.SessionRepository
	pipeline session.Pipeline
	producer kafka.Producer
	opts     Options
	now      func() time.Time
	newID    func() string
}
