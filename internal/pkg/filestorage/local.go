package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eduassist/backend/internal/pkg/logger"
)

// AttachmentDir is the subdirectory attachments are stored under,
// extended with a YYYY/MM/DD date path per upload.
const AttachmentDir = "request_attachments"

// Storage defines the interface for attachment storage operations
type Storage interface {
	// SaveAttachment validates and stores an uploaded attachment, returning
	// the relative path to persist on the request.
	SaveAttachment(fileHeader *multipart.FileHeader) (string, error)

	// DeleteFile removes a stored file. Deleting a missing file is not an error.
	DeleteFile(relPath string) error

	// URL resolves a stored relative path to a client-facing URL.
	URL(relPath string) string
}

// LocalStorage stores attachments on the local filesystem.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a LocalStorage rooted at basePath. baseURL, when
// set, is prepended to returned URLs.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SaveAttachment validates the upload and writes it under a dated
// subdirectory with a random filename to prevent collisions.
func (ls *LocalStorage) SaveAttachment(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil
	}
	if err := ValidateAttachment(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	subPath := filepath.Join(AttachmentDir, time.Now().Format("2006/01/02"))
	fullDirPath := filepath.Join(ls.basePath, subPath)
	if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create attachment directory")
		return "", fmt.Errorf("failed to create attachment directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	relPath := filepath.ToSlash(filepath.Join(subPath, uniqueFilename))
	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("saved_as", relPath).
		Msg("Attachment saved")
	return relPath, nil
}

// DeleteFile removes a stored file. Missing files are treated as already
// deleted so the operation stays idempotent.
func (ls *LocalStorage) DeleteFile(relPath string) error {
	if relPath == "" {
		return nil
	}

	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("invalid file path: %s", relPath)
	}

	physicalPath := filepath.Join(ls.basePath, cleaned)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL resolves a stored relative path to a client-facing URL.
func (ls *LocalStorage) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	if ls.baseURL != "" {
		return strings.TrimRight(ls.baseURL, "/") + "/" + strings.TrimLeft(relPath, "/")
	}
	return "uploads/" + strings.TrimLeft(relPath, "/")
}
