package documentos

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< >>\n%%EOF\n")

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a,
	0, 0, 0, 0x0d, 'I', 'H', 'D', 'R', 0, 0, 0, 1, 0, 0, 0, 1, 8, 6, 0, 0, 0}

func uploadHeader(t *testing.T, filename, declaredType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="archivo"; filename="`+filename+`"`)
	h.Set("Content-Type", declaredType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["archivo"][0]
}

func newTestStorage(t *testing.T, maxSize int64) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir(), maxSize)
	require.NoError(t, err)
	return s
}

func TestSavePDF(t *testing.T) {
	s := newTestStorage(t, 1<<20)
	jovenID := uuid.New()

	saved, err := s.Save(uploadHeader(t, "autorizacion.pdf", "application/pdf", pdfBytes), jovenID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", saved.MimeType)
	assert.Equal(t, int64(len(pdfBytes)), saved.Size)
	assert.Contains(t, saved.RutaInterna, jovenID.String())
	assert.NotContains(t, saved.RutaInterna, "autorizacion")

	full, err := s.Resolve(saved.RutaInterna)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, data)
}

func TestSavePNG(t *testing.T) {
	s := newTestStorage(t, 1<<20)

	saved, err := s.Save(uploadHeader(t, "tarjeta.png", "image/png", pngBytes), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "image/png", saved.MimeType)
	assert.Equal(t, ".png", filepath.Ext(saved.RutaInterna))
}

func TestSaveRejectsSpoofedExecutable(t *testing.T) {
	s := newTestStorage(t, 1<<20)
	// ELF magic with a PDF content type: the declared type lies.
	elf := append([]byte{0x7f, 'E', 'L', 'F'}, bytes.Repeat([]byte{0}, 64)...)

	_, err := s.Save(uploadHeader(t, "innocent.pdf", "application/pdf", elf), uuid.New())
	assert.ErrorIs(t, err, ErrBadType)
}

func TestSaveRejectsDisallowedDeclaredType(t *testing.T) {
	s := newTestStorage(t, 1<<20)

	_, err := s.Save(uploadHeader(t, "run.sh", "application/x-sh", []byte("#!/bin/sh\n")), uuid.New())
	assert.ErrorIs(t, err, ErrBadType)
}

func TestSaveRejectsOversize(t *testing.T) {
	s := newTestStorage(t, 16)

	_, err := s.Save(uploadHeader(t, "big.pdf", "application/pdf", pdfBytes), uuid.New())
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestResolveRejectsTraversal(t *testing.T) {
	s := newTestStorage(t, 1<<20)

	for _, ruta := range []string{"../etc/passwd", "a/../../etc/passwd", "..", ""} {
		_, err := s.Resolve(ruta)
		assert.Error(t, err, ruta)
	}
}

func TestRemoveMissingFileIsNoop(t *testing.T) {
	s := newTestStorage(t, 1<<20)
	assert.NoError(t, s.Remove(uuid.New().String()+"/gone.pdf"))
}

func TestRemoveDeletesFile(t *testing.T) {
	s := newTestStorage(t, 1<<20)
	saved, err := s.Save(uploadHeader(t, "doc.pdf", "application/pdf", pdfBytes), uuid.New())
	require.NoError(t, err)

	require.NoError(t, s.Remove(saved.RutaInterna))
	full, err := s.Resolve(saved.RutaInterna)
	require.NoError(t, err)
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))
}

func TestTypeAllowed(t *testing.T) {
	assert.True(t, typeAllowed("application/pdf"))
	assert.True(t, typeAllowed("image/jpeg; charset=binary"))
	assert.True(t, typeAllowed("IMAGE/PNG"))
	assert.False(t, typeAllowed("application/octet-stream"))
	assert.False(t, typeAllowed(""))
}
