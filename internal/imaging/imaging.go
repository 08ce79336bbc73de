// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging validates uploaded thumbnail images and downscales
// oversized ones. Decoding is limited to JPEG, PNG, GIF and WebP.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxUploadSize is the largest accepted thumbnail file (10 MB).
	MaxUploadSize = 10 << 20

	// MaxImagePixels caps decoded dimensions to prevent memory bombs.
	// 40 million pixels is ~160 MB decoded in RGBA.
	MaxImagePixels = 40_000_000

	// MaxWidth is the widest thumbnail stored; wider images are scaled down.
	MaxWidth = 1920

	// jpegQuality is used when re-encoding a downscaled image.
	jpegQuality = 85
)

var (
	ErrEmpty           = errors.New("imaging: empty file")
	ErrTooLarge        = errors.New("imaging: file too large")
	ErrUnsupportedType = errors.New("imaging: unsupported image type")
	ErrTooManyPixels   = errors.New("imaging: image dimensions too large")
)

// allowedTypes maps accepted MIME types to their file extension.
var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// resizableTypes can be downscaled. GIF is excluded to preserve animation.
var resizableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Info describes an inspected image.
type Info struct {
	ContentType string
	Ext         string
	Width       int
	Height      int
	Size        int64
}

// Limits bounds what Inspect accepts.
type Limits struct {
	MaxBytes  int64
	MaxPixels int64
}

// DefaultLimits are the limits applied to topic thumbnails.
var DefaultLimits = Limits{MaxBytes: MaxUploadSize, MaxPixels: MaxImagePixels}

// Inspect checks data against DefaultLimits.
func Inspect(data []byte) (Info, error) {
	return DefaultLimits.Inspect(data)
}

// Inspect sniffs the content type from the magic bytes, rejects anything
// that is not an accepted image, and reads the dimensions without a full
// decode.
func (l Limits) Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, ErrEmpty
	}
	if int64(len(data)) > l.MaxBytes {
		return Info{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(data), l.MaxBytes)
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: decode config: %v", ErrUnsupportedType, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > l.MaxPixels {
		return Info{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, l.MaxPixels)
	}

	return Info{
		ContentType: contentType,
		Ext:         ext,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Size:        int64(len(data)),
	}, nil
}

// Fit returns data unchanged when the image is at most maxWidth wide or is
// a GIF. Otherwise it scales the image to maxWidth preserving aspect ratio
// and re-encodes it as JPEG, returning the new bytes and their Info.
func Fit(data []byte, info Info, maxWidth int) ([]byte, Info, error) {
	if info.Width <= maxWidth || !resizableTypes[info.ContentType] {
		return data, info, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("imaging: decode: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newHeight := max(1, int(float64(bounds.Dy())*ratio))

	// JPEG has no alpha; transparent areas are flattened onto white.
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, Info{}, fmt.Errorf("imaging: encode: %w", err)
	}

	out := buf.Bytes()
	return out, Info{
		ContentType: "image/jpeg",
		Ext:         "jpg",
		Width:       maxWidth,
		Height:      newHeight,
		Size:        int64(len(out)),
	}, nil
}
