// Package blob stores uploaded images and hands back the public URL the
// content records point at.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("blob not found")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrInvalidURL      = errors.New("image must be an http(s) URL or a path starting with /")
)

// Object describes a stored blob.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/avif": ".avif",
}

// Uploader validates image uploads before handing them to a Store.
type Uploader struct {
	store    Store
	maxBytes int64
	now      func() time.Time
}

func NewUploader(store Store, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Uploader{store: store, maxBytes: maxBytes, now: func() time.Time { return time.Now().UTC() }}
}

// Key builds "<folder>/<yyyy>/<mm>/<uuid><ext>".
func (u *Uploader) Key(folder, ext string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" {
		folder = "uploads"
	}
	now := u.now()
	return fmt.Sprintf("%s/%04d/%02d/%s%s", folder, now.Year(), int(now.Month()), uuid.New().String(), ext)
}

// Upload stores one image read from r. The content type is sniffed from
// the bytes, not trusted from the client.
func (u *Uploader) Upload(ctx context.Context, folder string, r io.Reader) (Object, error) {
	body, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return Object{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(body)) > u.maxBytes {
		return Object{}, ErrTooLarge
	}
	contentType := http.DetectContentType(body)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := imageTypes[contentType]
	if !ok {
		return Object{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return u.store.Put(ctx, u.Key(folder, ext), body, contentType)
}

// Resolve returns the URL for an image field that was either uploaded as
// file or typed in as fallback. An upload wins over the typed value.
func (u *Uploader) Resolve(ctx context.Context, folder string, file *multipart.FileHeader, fallback string) (string, error) {
	if file != nil && file.Size > 0 {
		if file.Size > u.maxBytes {
			return "", ErrTooLarge
		}
		f, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		obj, err := u.Upload(ctx, folder, f)
		if err != nil {
			return "", err
		}
		return obj.URL, nil
	}
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		return "", nil
	}
	if !strings.HasPrefix(fallback, "/") && !strings.HasPrefix(fallback, "https://") && !strings.HasPrefix(fallback, "http://") {
		return "", ErrInvalidURL
	}
	return fallback, nil
}
