package filestorage

import (
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/eduassist/backend/internal/pkg/apperrors"
)

// MaxAttachmentSize is the attachment size ceiling (5 MiB).
const MaxAttachmentSize = 5 * 1024 * 1024

// allowedMimeTypes is the attachment MIME allow-list.
var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/png":          true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ValidateAttachment checks size and MIME type of an uploaded attachment.
// The type is taken from the declared Content-Type header, falling back to
// the filename extension.
func ValidateAttachment(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return nil
	}
	if fileHeader.Size > MaxAttachmentSize {
		return apperrors.ErrFileTooLarge
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mime.TypeByExtension(strings.ToLower(filepath.Ext(fileHeader.Filename)))
		if idx := strings.Index(mimeType, ";"); idx >= 0 {
			mimeType = strings.TrimSpace(mimeType[:idx])
		}
	}

	if !allowedMimeTypes[mimeType] {
		return apperrors.ErrUnsupportedType
	}
	return nil
}
