// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging optimizes uploaded photos for the web: EXIF rotation,
// downscaling and JPEG re-encoding, plus predictable file names.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/mccastellazzob/motoclub/internal/util"
)

// Optimization settings.
const (
	MaxDimension      = 1280 // Longest side in pixels
	JPEGQuality       = 85
	MaxFilenameLength = 100
	OutputExtension   = ".jpg"
)

// ErrUnsupportedFormat is returned for data that is not JPEG, PNG, GIF or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result is an optimized image.
type Result struct {
	Data   []byte
	Width  int
	Height int
}

// Optimize decodes an image, applies its EXIF orientation, caps the longest
// side at MaxDimension with Lanczos resampling, flattens transparency onto
// white and encodes JPEG at JPEGQuality.
func Optimize(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if detectFormat(data) == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	return &Result{Data: buf.Bytes(), Width: flat.Bounds().Dx(), Height: flat.Bounds().Dy()}, nil
}

// GenerateFilename returns "<slug(prefix)>-NNN.jpg" with the slug shortened so
// the whole name fits MaxFilenameLength.
func GenerateFilename(prefix string, seq int) string {
	slug := util.Slugify(prefix)
	if slug == "" {
		slug = "image"
	}
	suffix := fmt.Sprintf("-%03d%s", seq, OutputExtension)
	return util.TruncateSlug(slug, MaxFilenameLength-len(suffix)) + suffix
}

// IsSupported reports whether data looks like an accepted image.
func IsSupported(data []byte) bool {
	return detectFormat(data) != ""
}

// readExifOrientation returns the EXIF orientation tag, or 1 when absent.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes EXIF orientation 2-8.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// detectFormat sniffs the image format. TIFF is rejected
// (CVE-2023-36308 in disintegration/imaging).
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "tiff"):
		return ""
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// Save writes data to dir/filename. The file name must not escape dir.
func Save(dir, filename string, data []byte) (string, error) {
	path, err := util.SafeJoinPath(dir, filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return path, nil
}
