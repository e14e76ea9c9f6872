package imageproc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// WebP uploads are accepted; register the decoder.
	_ "golang.org/x/image/webp"
)

const (
	maxDimension      = 1024
	uploadJPEGQuality = 85
	finalJPEGQuality  = 92
)

// NormalizeUpload decodes an uploaded JPEG/PNG/WebP buffer, downscales it to
// fit within 1024x1024 without enlarging, and re-encodes it as JPEG. Every
// stored upload is a JPEG from here on.
func NormalizeUpload(buf []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("imageproc: decode upload: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}
	return encodeJPEG(img, uploadJPEGQuality)
}

// Finish applies the deterministic post-processing pass to a provider-enhanced
// image: brightness +5%, saturation +8%, light sharpening, contrast +5%, then
// a fixed-quality JPEG re-encode. The adjustments mirror the finishing values
// the product settled on and must stay in lockstep across deployments.
func Finish(buf []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("imageproc: decode enhanced image: %w", err)
	}
	out := imaging.AdjustBrightness(img, 5)
	out = imaging.AdjustSaturation(out, 8)
	out = imaging.Sharpen(out, 1.2)
	out = imaging.AdjustContrast(out, 5)
	return encodeJPEG(out, finalJPEGQuality)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("imageproc: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
