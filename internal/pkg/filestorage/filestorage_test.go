package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduassist/backend/internal/pkg/apperrors"
)

// buildFileHeader assembles a real multipart.FileHeader by round-tripping
// through the multipart writer/reader, matching what gin hands to handlers.
func buildFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="attachment"; filename="`+filename+`"`)
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	reader := multipart.NewReader(&buf, mw.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["attachment"]
	require.Len(t, files, 1)
	return files[0]
}

func TestValidateAttachment(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int
		wantErr     error
	}{
		{name: "pdf ok", filename: "syllabus.pdf", contentType: "application/pdf", size: 1024},
		{name: "png ok", filename: "screenshot.png", contentType: "image/png", size: 2 << 20},
		{name: "docx ok", filename: "essay.docx", contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", size: 512},
		{name: "type from extension", filename: "photo.jpg", contentType: "application/octet-stream", size: 100},
		{name: "too large", filename: "scan.pdf", contentType: "application/pdf", size: MaxAttachmentSize + 1, wantErr: apperrors.ErrFileTooLarge},
		{name: "text rejected", filename: "notes.txt", contentType: "text/plain", size: 10, wantErr: apperrors.ErrUnsupportedType},
		{name: "executable rejected", filename: "tool.exe", contentType: "application/x-msdownload", size: 10, wantErr: apperrors.ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fh := buildFileHeader(t, tt.filename, tt.contentType, bytes.Repeat([]byte("a"), tt.size))
			err := ValidateAttachment(fh)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAttachmentNil(t *testing.T) {
	assert.NoError(t, ValidateAttachment(nil))
}

func TestSaveAndDeleteAttachment(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	fh := buildFileHeader(t, "receipt.pdf", "application/pdf", []byte("%PDF-1.4 test"))
	relPath, err := storage.SaveAttachment(fh)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(relPath, AttachmentDir+"/"), "path %q should live under %s", relPath, AttachmentDir)
	assert.True(t, strings.HasSuffix(relPath, ".pdf"))

	// File exists on disk with the uploaded content
	physical := filepath.Join(storage.basePath, filepath.FromSlash(relPath))
	content, err := os.ReadFile(physical)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 test"), content)

	assert.Equal(t, "http://localhost:8080/uploads/"+relPath, storage.URL(relPath))

	require.NoError(t, storage.DeleteFile(relPath))
	_, err = os.Stat(physical)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op
	assert.NoError(t, storage.DeleteFile(relPath))
}

func TestSaveAttachmentRejectsInvalid(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	fh := buildFileHeader(t, "malware.exe", "application/x-msdownload", []byte("MZ"))
	_, err = storage.SaveAttachment(fh)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedType)
}

func TestDeleteFileRejectsTraversal(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	assert.Error(t, storage.DeleteFile("../outside.txt"))
	assert.Error(t, storage.DeleteFile("/etc/passwd"))
	assert.NoError(t, storage.DeleteFile(""))
}
