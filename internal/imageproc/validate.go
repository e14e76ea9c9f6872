package imageproc

import (
	"bytes"
	"fmt"

	"artistone/internal/domain"
)

// Upload size gates. The ceiling bounds what we are willing to push through
// the AI providers; the floor rejects empty or truncated uploads before any
// network call is made.
const (
	MinUploadBytes = 1 << 10
	MaxUploadBytes = 10 << 20
)

var (
	jpegMagic = []byte{0xFF, 0xD8}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	riffMagic = []byte{0x52, 0x49, 0x46, 0x46}
	webpTag   = []byte("WEBP")
)

// Validate checks byte-level format and size constraints on an uploaded image
// buffer. It is pure and must run before any provider call.
func Validate(buf []byte) error {
	if len(buf) > MaxUploadBytes {
		return fmt.Errorf("%w: maximum size is %d MB", domain.ErrFileTooLarge, MaxUploadBytes>>20)
	}
	if len(buf) < MinUploadBytes {
		return fmt.Errorf("%w: minimum size is %d KB", domain.ErrFileTooSmall, MinUploadBytes>>10)
	}
	if DetectFormat(buf) == "" {
		return fmt.Errorf("%w: use JPEG, PNG or WebP", domain.ErrUnsupportedFormat)
	}
	return nil
}

// DetectFormat returns the MIME type matching the buffer's magic numbers, or
// an empty string for anything that is not JPEG, PNG or WebP.
func DetectFormat(buf []byte) string {
	switch {
	case bytes.HasPrefix(buf, jpegMagic):
		return "image/jpeg"
	case bytes.HasPrefix(buf, pngMagic):
		return "image/png"
	case bytes.HasPrefix(buf, riffMagic):
		if len(buf) >= 12 && !bytes.Equal(buf[8:12], webpTag) {
			return ""
		}
		return "image/webp"
	default:
		return ""
	}
}
