// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/mccastellazzob/motoclub/internal/imaging"
	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/util"
)

// Upload limits
const (
	MaxUploadSize    = 20 * 1024 * 1024 // 20MB per image
	DefaultUploadDir = "./uploads"
	ImagesSubdir     = "images"
)

// UploadFile is one image handed to BulkUpload.
type UploadFile struct {
	Name   string // Original name, used in error messages only
	Reader io.Reader
}

// UploadError describes a file that could not be stored.
type UploadError struct {
	Name string
	Err  error
}

func (e UploadError) Error() string { return e.Name + ": " + e.Err.Error() }

// BulkResult reports the outcome of BulkUpload.
type BulkResult struct {
	Saved  []store.Image
	Errors []UploadError
}

// MediaService stores optimized images under the uploads directory.
type MediaService struct {
	queries   *store.Queries
	uploadDir string
	now       func() time.Time
}

// NewMediaService creates a new media service.
func NewMediaService(db *sql.DB, uploadDir string) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &MediaService{queries: store.New(db), uploadDir: uploadDir, now: time.Now}
}

// ImageURL returns the public URL of a stored image.
func ImageURL(img store.Image) string {
	return path.Join("/media", ImagesSubdir, img.Filename)
}

// BulkUpload optimizes each file and stores it as "<slug(prefix)>-NNN.jpg".
// Numbering continues after images already stored with the same prefix.
// A failing file is reported and the rest are still processed.
func (s *MediaService) BulkUpload(ctx context.Context, prefix, collection string, files []UploadFile) (*BulkResult, error) {
	base := util.Slugify(prefix)
	if base == "" {
		base = "image"
	}
	seq, err := s.queries.CountImagesByPrefix(ctx, base+"-")
	if err != nil {
		return nil, fmt.Errorf("counting images: %w", err)
	}

	result := &BulkResult{}
	for _, f := range files {
		img, err := s.store(ctx, prefix, collection, f, &seq)
		if err != nil {
			result.Errors = append(result.Errors, UploadError{Name: f.Name, Err: err})
			continue
		}
		result.Saved = append(result.Saved, img)
	}
	return result, nil
}

func (s *MediaService) store(ctx context.Context, prefix, collection string, f UploadFile, seq *int64) (store.Image, error) {
	opt, err := imaging.Optimize(io.LimitReader(f.Reader, MaxUploadSize+1))
	if err != nil {
		return store.Image{}, err
	}
	if len(opt.Data) > MaxUploadSize {
		return store.Image{}, fmt.Errorf("image exceeds %d bytes", MaxUploadSize)
	}

	name, err := s.nextFilename(ctx, prefix, seq)
	if err != nil {
		return store.Image{}, err
	}
	if _, err := imaging.Save(s.uploadDir, path.Join(ImagesSubdir, name), opt.Data); err != nil {
		return store.Image{}, err
	}

	img, err := s.queries.CreateImage(ctx, store.CreateImageParams{
		Filename:   name,
		Title:      fmt.Sprintf("%s %d", prefix, *seq),
		Collection: collection,
		Width:      int64(opt.Width),
		Height:     int64(opt.Height),
		Size:       int64(len(opt.Data)),
		CreatedAt:  s.now(),
	})
	if err != nil {
		return store.Image{}, fmt.Errorf("recording image: %w", err)
	}
	return img, nil
}

// nextFilename advances seq past names already taken.
func (s *MediaService) nextFilename(ctx context.Context, prefix string, seq *int64) (string, error) {
	for {
		name := imaging.GenerateFilename(prefix, int(*seq))
		*seq++
		exists, err := s.queries.ImageFilenameExists(ctx, name)
		if err != nil {
			return "", fmt.Errorf("checking file name: %w", err)
		}
		if !exists {
			return name, nil
		}
	}
}
