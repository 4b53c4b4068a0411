package entity

import "image"

// SourceImage is the encoded base picture of a session. It is replaced as a
// whole and never mutated.
type SourceImage struct {
	Data   []byte `json:"-"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Digest string `json:"digest"`
}

// RenderedBitmap is a projection of the session inputs at Revision.
type RenderedBitmap struct {
	Image    *image.NRGBA
	Revision uint64
}

type ExportEvent struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Platform  string `json:"platform,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Bytes     int    `json:"bytes"`
	Timestamp int64  `json:"timestamp"`
}

const (
	ExportDownload = "download"
	ExportShare    = "share"
)

type Download struct {
	Filename string
	Data     []byte
}
