package entity

import "time"

type SurfaceState struct {
	Rendered bool   `json:"rendered"`
	Revision uint64 `json:"revision"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

type SessionState struct {
	ID          string         `json:"id"`
	HasImage    bool           `json:"has_image"`
	Source      *SourceImage   `json:"source,omitempty"`
	Filters     FilterSettings `json:"filters"`
	Overlay     TextOverlay    `json:"overlay"`
	Filename    string         `json:"filename"`
	PreviewOpen bool           `json:"preview_open"`
	Revision    uint64         `json:"revision"`
	Primary     SurfaceState   `json:"primary"`
	Preview     SurfaceState   `json:"preview"`
	LastActive  time.Time      `json:"last_active"`
}

type CreateSessionResponse struct {
	ID string `json:"id"`
}

type FilenameRequest struct {
	Filename string `json:"filename"`
}

type PreviewRequest struct {
	Open bool `json:"open"`
}

type ShareResponse struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}
