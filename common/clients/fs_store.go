package clients

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FilesystemStore serves objects from a directory tree rooted at a
// media root. Content types are detected by sniffing stored bytes, not
// by trusting file extensions, so a renamed non-media file reports its
// real type and fails the gateway's family check.
type FilesystemStore struct {
	root   string
	logger Logger
}

// NewFilesystemStore creates a filesystem-backed object store
func NewFilesystemStore(root string, logger Logger) (*FilesystemStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat media root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("media root %s is not a directory", abs)
	}

	return &FilesystemStore{
		root:   abs,
		logger: logger,
	}, nil
}

// Stat fetches object metadata, sniffing the content type from the
// file's leading bytes
func (s *FilesystemStore) Stat(ctx context.Context, key string) (ObjectMetadata, error) {
	path, err := s.resolve(key)
	if err != nil {
		s.logger.Warn("fs stat refused key outside media root", "key", key)
		return ObjectMetadata{}, ErrNotFound
	}

	if err := ctx.Err(); err != nil {
		return ObjectMetadata{}, fmt.Errorf("fs stat canceled: %w", ErrNotFound)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("fs stat miss", "key", key)
		} else {
			s.logger.Warn("fs stat failed", "key", key, "error", err)
		}
		return ObjectMetadata{}, ErrNotFound
	}
	if info.IsDir() {
		return ObjectMetadata{}, ErrNotFound
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		s.logger.Warn("fs content-type detection failed", "key", key, "error", err)
		return ObjectMetadata{}, ErrNotFound
	}

	return ObjectMetadata{
		Size:         info.Size(),
		ContentType:  baseContentType(mtype.String()),
		LastModified: info.ModTime(),
		ETag:         fmt.Sprintf("%x-%x", info.ModTime().UnixNano(), info.Size()),
	}, nil
}

// OpenRange opens the file and seeks to the requested offset
func (s *FilesystemStore) OpenRange(ctx context.Context, key string, offset int64) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, fmt.Errorf("resolve key %s: %w", key, ErrBackend)
	}

	f, err := os.Open(path)
	if err != nil {
		s.logger.Error("fs open failed", "key", key, "error", err)
		return nil, fmt.Errorf("open %s: %w", key, ErrBackend)
	}

	if offset > 0 {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			f.Close()
			s.logger.Error("fs seek failed", "key", key, "offset", offset, "error", err)
			return nil, fmt.Errorf("seek %s to %d: %w", key, offset, ErrBackend)
		}
	}

	return f, nil
}

// resolve joins the key under the media root and refuses anything that
// escapes it. The key has already passed path validation; this is the
// backend's own guard.
func (s *FilesystemStore) resolve(key string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if path != s.root && !strings.HasPrefix(path, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("key escapes media root: %s", key)
	}
	return path, nil
}

// baseContentType strips any parameters from a detected MIME type
func baseContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}
