package services

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

var ErrFileTooLarge = errors.New("file too large")

type StorageService interface {
	// SaveFile stores an upload as <uuid>_<original name> and returns its path.
	SaveFile(file *multipart.FileHeader) (string, error)
	DeleteFile(filePath string) error
	EnsureUploadDir() error
	UploadPath() string
}

type storageService struct {
	uploadPath  string
	maxFileSize int64
}

func NewStorageService(uploadPath string, maxFileSize int64) StorageService {
	return &storageService{
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *storageService) UploadPath() string {
	return s.uploadPath
}

func (s *storageService) SaveFile(file *multipart.FileHeader) (string, error) {
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return "", fmt.Errorf("%w: max size is %d bytes", ErrFileTooLarge, s.maxFileSize)
	}

	name := filepath.Base(strings.ReplaceAll(file.Filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "upload"
	}
	filePath := filepath.Join(s.uploadPath, fmt.Sprintf("%s_%s", uuid.New().String(), name))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *storageService) DeleteFile(filePath string) error {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
