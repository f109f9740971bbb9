// Package media stores uploaded images and videos outside the database.
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// Kind is the resource type of an asset
type Kind string

const (
	Image Kind = "image"
	Video Kind = "video"
)

// ErrDisabled is returned by Upload when no media backend is configured
var ErrDisabled = errors.New("media uploads are disabled")

// ErrUnsupportedFormat is returned for file extensions outside the allowed set
var ErrUnsupportedFormat = errors.New("unsupported media format")

// Asset is a stored media file
type Asset struct {
	URL      string
	PublicID string
	Kind     Kind
}

// Store uploads and removes media assets. size is the byte length of r.
type Store interface {
	Upload(ctx context.Context, r io.Reader, size int64, filename string, kind Kind) (*Asset, error)
	// Delete accepts either a stored public id or the asset URL.
	Delete(ctx context.Context, publicIDOrURL string, kind Kind) error
}

var allowedFormats = map[Kind]map[string]bool{
	Image: {"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true},
	Video: {"mp4": true, "mov": true, "avi": true, "webm": true},
}

// KindFromContentType maps a multipart content type onto a Kind
func KindFromContentType(contentType string) Kind {
	if strings.HasPrefix(strings.ToLower(contentType), "video") {
		return Video
	}
	return Image
}

// CheckFormat rejects files whose extension is not allowed for kind
func CheckFormat(filename string, kind Kind) error {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if !allowedFormats[kind][ext] {
		return ErrUnsupportedFormat
	}
	return nil
}

// PublicIDFromURL rebuilds "<folder>/<basename without extension>" from a
// stored asset URL. Values without a scheme are returned unchanged.
func PublicIDFromURL(folder, raw string) string {
	if !strings.Contains(raw, "://") {
		return raw
	}
	base := path.Base(raw)
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	if folder == "" {
		return base
	}
	return folder + "/" + base
}
