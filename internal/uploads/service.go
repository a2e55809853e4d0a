// Package uploads stores item images on local disk under generated names.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrTooLarge occurs when an uploaded file exceeds the configured limit.
	ErrTooLarge = errors.New("uploads: file too large")
	// ErrUnsupportedType occurs when the file extension is not an image type.
	ErrUnsupportedType = errors.New("uploads: unsupported file type")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type Service struct {
	dir     string
	baseURL string
	maxSize int64
}

func NewService(dir, baseURL string, maxSize int64) *Service {
	return &Service{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/"), maxSize: maxSize}
}

// Save writes one multipart file to disk under a fresh name and returns its
// public URL. The original filename only contributes the extension.
func (s *Service) Save(header *multipart.FileHeader) (string, error) {
	if s.maxSize > 0 && header.Size > s.maxSize {
		return "", ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("uploads: open part: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("uploads: ensure dir: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("uploads: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("uploads: write file: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

// Dir returns the directory served for downloads.
func (s *Service) Dir() string {
	return s.dir
}
