package entity

import "errors"

var (
	// Image errors
	ErrDecode  = errors.New("image cannot be decoded")
	ErrNoImage = errors.New("no image loaded")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrStaleUpload     = errors.New("upload superseded by a newer one")

	// Export errors
	ErrUnknownPlatform = errors.New("unknown share platform")
	ErrUnknownSurface  = errors.New("unknown render surface")
)
