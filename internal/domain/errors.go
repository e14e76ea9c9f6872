package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrFileTooLarge      = errors.New("file too large")
	ErrFileTooSmall      = errors.New("file too small")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrProviderFailure   = errors.New("provider failure")
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrRenderFailure     = errors.New("render failure")
)
