package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidAssetType = errors.New("only image files are allowed")
	ErrAssetTooLarge    = errors.New("file exceeds the maximum allowed size")
)

// DefaultMaxBytes is the upload size cap applied when none is configured.
const DefaultMaxBytes = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store defines the interface for durable image asset storage
type Store interface {
	// Save validates and persists an uploaded file, returning the generated
	// filename under which it was stored.
	Save(originalName string, r io.Reader) (string, error)
	// Delete removes a stored file. It is idempotent: a missing file is not
	// an error, and the return value reports whether a file was removed.
	Delete(name string) bool
}

type diskStore struct {
	dir      string
	maxBytes int64
	logger   *zap.Logger
}

// NewDiskStore creates a Store backed by a directory on local disk.
// The directory is created if it does not exist.
func NewDiskStore(dir string, maxBytes int64, logger *zap.Logger) (Store, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &diskStore{
		dir:      dir,
		maxBytes: maxBytes,
		logger:   logger,
	}, nil
}

// Save checks the client-supplied extension and the sniffed content type
// against the image allowlist, then streams the bytes to disk under a
// generated name. The client-supplied name is never used for storage
// beyond its extension.
func (s *diskStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrInvalidAssetType
	}

	// Sniff the real content type from the leading bytes; the sniffed
	// header is replayed in front of the remaining stream.
	header := &bytes.Buffer{}
	mtype, err := mimetype.DetectReader(io.TeeReader(r, header))
	if err != nil {
		return "", fmt.Errorf("failed to detect content type: %w", err)
	}
	if !allowedMIMETypes[mtype.String()] {
		return "", ErrInvalidAssetType
	}

	name := generateFilename(ext)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}

	// Copy at most maxBytes+1 so oversized uploads are cut off as soon as
	// the bound is crossed rather than after full buffering.
	written, err := io.Copy(f, io.LimitReader(io.MultiReader(header, r), s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(path)
		return "", ErrAssetTooLarge
	}

	return name, nil
}

// Delete removes the named file from the store if present.
func (s *diskStore) Delete(name string) bool {
	if name == "" {
		return false
	}

	// Base() strips any path components a caller could sneak in.
	path := filepath.Join(s.dir, filepath.Base(name))

	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove asset",
				zap.String("name", name),
				zap.Error(err),
			)
		}
		return false
	}

	return true
}

// generateFilename builds a collision-resistant stored name from the
// current time and a random suffix, keeping only the original extension.
func generateFilename(ext string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}
