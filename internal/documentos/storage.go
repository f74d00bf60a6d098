package documentos

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	// ErrFileTooLarge means the upload exceeds the configured size cap.
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrBadType means the declared or sniffed content type is not allowed.
	ErrBadType = errors.New("only PDF, JPEG, PNG and WebP files are accepted")
)

var allowedMimeTypes = []string{"application/pdf", "image/jpeg", "image/png", "image/webp"}

// Storage writes uploads under a per-joven subdirectory with a generated
// random filename. The client-supplied name never touches the filesystem.
type Storage struct {
	root    string
	maxSize int64
}

// NewStorage creates a document store rooted at the uploads path.
func NewStorage(root string, maxSize int64) (*Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads root: %w", err)
	}
	return &Storage{root: root, maxSize: maxSize}, nil
}

// SavedFile describes a stored upload.
type SavedFile struct {
	RutaInterna string // path relative to the uploads root
	MimeType    string // sniffed, not declared
	Size        int64
}

// Save validates and stores an uploaded file for a joven. The declared
// Content-Type must be on the allow-list and the actual bytes must sniff to
// an allowed type too; a renamed executable fails regardless of what the
// client claims.
func (s *Storage) Save(fh *multipart.FileHeader, jovenID uuid.UUID) (*SavedFile, error) {
	if fh.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}
	declared := fh.Header.Get("Content-Type")
	if !typeAllowed(declared) {
		return nil, ErrBadType
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("sniff upload: %w", err)
	}
	if !typeAllowed(detected.String()) {
		return nil, ErrBadType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	dir := filepath.Join(s.root, jovenID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create joven dir: %w", err)
	}
	name := uuid.New().String() + detected.Extension()
	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("write file: %w", err)
	}
	if size > s.maxSize {
		os.Remove(dst.Name())
		return nil, ErrFileTooLarge
	}

	return &SavedFile{
		RutaInterna: filepath.ToSlash(filepath.Join(jovenID.String(), name)),
		MimeType:    detected.String(),
		Size:        size,
	}, nil
}

// Resolve maps a stored ruta_interna to an absolute path, rejecting anything
// that escapes the uploads root.
func (s *Storage) Resolve(rutaInterna string) (string, error) {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	full, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(rutaInterna)))
	if err != nil {
		return "", err
	}
	if full == root || !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes uploads root: %s", rutaInterna)
	}
	return full, nil
}

// Remove deletes a stored file. A missing file counts as already removed.
func (s *Storage) Remove(rutaInterna string) error {
	full, err := s.Resolve(rutaInterna)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func typeAllowed(mime string) bool {
	base := strings.TrimSpace(strings.SplitN(mime, ";", 2)[0])
	for _, t := range allowedMimeTypes {
		if strings.EqualFold(base, t) {
			return true
		}
	}
	return false
}
