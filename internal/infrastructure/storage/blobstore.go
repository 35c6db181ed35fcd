// Package storage keeps attachment blobs outside the database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/docket-dev/docket/internal/domain/ticket"
)

// ErrTooLarge is returned when a blob exceeds the store's size limit.
var ErrTooLarge = ticket.ErrAttachmentTooLarge

// BlobStore writes attachment bytes under generated keys grouped by ticket.
type BlobStore struct {
	fs       afero.Fs
	maxBytes int64
}

// NewLocalBlobStore stores blobs below dir on the local filesystem.
func NewLocalBlobStore(dir string, maxBytes int64) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create attachments dir: %w", err)
	}
	return NewBlobStore(afero.NewBasePathFs(afero.NewOsFs(), dir), maxBytes), nil
}

// NewBlobStore wraps any afero filesystem; tests pass afero.NewMemMapFs().
func NewBlobStore(fs afero.Fs, maxBytes int64) *BlobStore {
	return &BlobStore{fs: fs, maxBytes: maxBytes}
}

// Put copies r into a new blob for the ticket and returns its key and size.
// Nothing is left behind when the copy fails or the limit is exceeded.
func (s *BlobStore) Put(_ context.Context, ticketID uint, originalName string, r io.Reader) (string, int64, error) {
	key := path.Join(fmt.Sprintf("%d", ticketID), uuid.NewString()+safeExt(originalName))

	if err := s.fs.MkdirAll(path.Dir(key), 0o750); err != nil {
		return "", 0, fmt.Errorf("failed to create blob dir: %w", err)
	}
	f, err := s.fs.OpenFile(key, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create blob: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(key)
		if errors.Is(err, ErrTooLarge) {
			return "", 0, err
		}
		return "", 0, fmt.Errorf("failed to write blob: %w", err)
	}
	return key, written, nil
}

// Delete removes a blob; a missing blob is not an error.
func (s *BlobStore) Delete(_ context.Context, key string) error {
	if err := s.fs.Remove(path.Clean(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// safeExt keeps a short alphanumeric extension from the client file name.
func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}
