package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/hilthontt/eventra/domain/apperrors"
)

const (
	DefaultMaxUploadSize = 10 * 1024 * 1024 // 10MB
	thumbnailSize        = 320
)

type LocalStorage struct {
	basePath    string
	maxFileSize int64
}

func NewLocalStorage(basePath string, maxFileSize int64) (*LocalStorage, error) {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxUploadSize
	}

	storage := &LocalStorage{
		basePath:    basePath,
		maxFileSize: maxFileSize,
	}

	if err := os.MkdirAll(storage.basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return storage, nil
}

func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// SaveImage stores an uploaded image under a fresh uuid-based name and
// returns that stored name. A best-effort thumbnail is written next to it.
func (s *LocalStorage) SaveImage(file *multipart.FileHeader, eventID int64) (string, error) {
	if file.Size > s.maxFileSize {
		return "", apperrors.InvalidInput("file exceeds maximum upload size of %d bytes", s.maxFileSize)
	}

	if !isImageContentType(file.Header.Get("Content-Type")) {
		return "", apperrors.InvalidInput("uploaded file must be an image")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	storedName := uuid.NewString() + ext

	eventPath := filepath.Join(s.basePath, fmt.Sprintf("event-%d", eventID))
	if err := os.MkdirAll(eventPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create event directory: %w", err)
	}

	filePath := filepath.Join(eventPath, storedName)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	s.writeThumbnail(filePath)

	return filepath.Join(fmt.Sprintf("event-%d", eventID), storedName), nil
}

func (s *LocalStorage) writeThumbnail(filePath string) {
	img, err := imaging.Open(filePath)
	if err != nil {
		// Not decodable, skip the thumbnail and keep the original.
		return
	}

	thumb := imaging.Thumbnail(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	_ = imaging.Save(thumb, thumbPath(filePath))
}

func (s *LocalStorage) DeleteImage(storedName string) error {
	fullPath := filepath.Join(s.basePath, storedName)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	_ = os.Remove(thumbPath(fullPath))

	return os.Remove(fullPath)
}

func thumbPath(filePath string) string {
	dir, name := filepath.Split(filePath)
	return filepath.Join(dir, "thumb_"+name)
}

func isImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
