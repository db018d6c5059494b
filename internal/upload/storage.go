// Package upload keeps user supplied files (profile photos, payment proofs,
// dispute evidence) on local disk under a single root.
package upload

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind selects the sub-directory a file is stored in
type Kind string

const (
	KindProfile Kind = "profiles"
	KindDispute Kind = "disputes"
	KindPayment Kind = "payments"
	KindMisc    Kind = "misc"
)

// PublicPrefix is the URL path uploads are served under
const PublicPrefix = "/uploads"

var (
	ErrFileRequired    = errors.New("file is required")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrInvalidDataURL  = errors.New("invalid data url")
	ErrInvalidPath     = errors.New("invalid upload path")
)

var allowedExt = map[string]bool{"jpg": true, "jpeg": true, "png": true, "webp": true, "pdf": true}

var mimeExt = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"application/pdf": "pdf",
}

// Storage writes files below Root and hands back their public path
type Storage struct {
	Root     string
	MaxBytes int64
	now      func() time.Time
}

// NewStorage creates the root and one directory per kind
func NewStorage(root string, maxBytes int64) (*Storage, error) {
	for _, k := range []Kind{KindProfile, KindDispute, KindPayment, KindMisc} {
		if err := os.MkdirAll(filepath.Join(root, string(k)), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", k, err)
		}
	}
	return &Storage{Root: root, MaxBytes: maxBytes, now: time.Now}, nil
}

func extFromFilename(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// Save stores a multipart upload and returns its public path
func (s *Storage) Save(kind Kind, file *multipart.FileHeader) (string, error) {
	if file == nil || file.Size <= 0 {
		return "", ErrFileRequired
	}
	if file.Size > s.MaxBytes {
		return "", ErrFileTooLarge
	}
	ext := extFromFilename(file.Filename)
	if !allowedExt[ext] {
		return "", ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return s.write(kind, ext, src)
}

// SaveDataURL decodes a base64 data URL ("data:image/png;base64,...") and
// stores it like a regular upload.
func (s *Storage) SaveDataURL(kind Kind, dataURL string) (string, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !ok || !strings.HasPrefix(dataURL, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", ErrInvalidDataURL
	}

	ext, ok := mimeExt[strings.TrimSuffix(header, ";base64")]
	if !ok {
		return "", ErrInvalidFileType
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(raw) == 0 {
		return "", ErrFileRequired
	}
	if int64(len(raw)) > s.MaxBytes {
		return "", ErrFileTooLarge
	}

	return s.write(kind, ext, bytes.NewReader(raw))
}

// IsDataURL reports whether v looks like an inline data URL
func IsDataURL(v string) bool {
	return strings.HasPrefix(v, "data:")
}

// Remove deletes a file previously returned by Save or SaveDataURL. A file
// that is already gone is not an error.
func (s *Storage) Remove(public string) error {
	rel, ok := strings.CutPrefix(public, PublicPrefix+"/")
	if !ok {
		return ErrInvalidPath
	}
	rel = path.Clean(rel)
	kind, name, ok := strings.Cut(rel, "/")
	if !ok || name == "" || strings.Contains(name, "/") || name == ".." {
		return ErrInvalidPath
	}
	switch Kind(kind) {
	case KindProfile, KindDispute, KindPayment, KindMisc:
	default:
		return ErrInvalidPath
	}

	err := os.Remove(filepath.Join(s.Root, kind, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

func (s *Storage) write(kind Kind, ext string, src io.Reader) (string, error) {
	switch kind {
	case KindProfile, KindDispute, KindPayment:
	default:
		kind = KindMisc
	}

	name := fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), uuid.NewString()[:8], ext)

	full := filepath.Join(s.Root, string(kind), name)
	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.MaxBytes)); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("write upload: %w", err)
	}

	return path.Join(PublicPrefix, string(kind), name), nil
}
