// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ThumbnailPrefix is the object key prefix for topic thumbnails.
const ThumbnailPrefix = "topics/"

// Upload describes a thumbnail file stored in the object bucket. There is
// no metadata table; the public URL is written to topics.thumbnail.
type Upload struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// NewThumbnailKey returns a fresh object key of the form topics/<uuid>.<ext>.
func NewThumbnailKey(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "bin"
	}
	return ThumbnailPrefix + uuid.New().String() + "." + ext
}

// IsThumbnailKey reports whether key was produced by NewThumbnailKey.
func IsThumbnailKey(key string) bool {
	if !strings.HasPrefix(key, ThumbnailPrefix) {
		return false
	}
	name := strings.TrimPrefix(key, ThumbnailPrefix)
	ext := path.Ext(name)
	if ext == "" || strings.Contains(name, "/") {
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(name, ext))
	return err == nil
}

// HumanSize returns a human-readable file size string.
func (u *Upload) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case u.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(u.SizeBytes)/float64(mb))
	case u.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(u.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", u.SizeBytes)
	}
}
