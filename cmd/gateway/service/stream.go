package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lumastream/mediagate/common/clients"
	"github.com/lumastream/mediagate/common/httprange"
	"github.com/lumastream/mediagate/common/logger"
	"github.com/lumastream/mediagate/common/validation"
)

// ErrTypeMismatch marks an object whose stored content type falls
// outside the MIME family implied by its extension. Responded to as a
// 404 but audited separately: it defeats spoofed-upload attacks where
// non-media content hides behind a playable-looking URL.
var ErrTypeMismatch = errors.New("content type outside media family")

// copy buffer size for backend-to-client streaming
const streamChunkSize = 32 * 1024

// StreamService resolves object metadata and pipes object bytes from
// the backend store to response writers
type StreamService struct {
	store       clients.ObjectStore
	log         *logger.Logger
	statTimeout time.Duration
}

// NewStreamService creates a new stream service
func NewStreamService(store clients.ObjectStore, log *logger.Logger, statTimeout time.Duration) *StreamService {
	return &StreamService{
		store:       store,
		log:         log,
		statTimeout: statTimeout,
	}
}

// ResolveMetadata fetches object metadata and verifies the stored
// content type belongs to the MIME family of the requested media kind.
// Missing objects, backend stat failures, and family mismatches all
// surface to clients as not-found; only the logs distinguish them.
// The stat call is bounded so one slow backend lookup cannot starve
// request-handling capacity.
func (s *StreamService) ResolveMetadata(ctx context.Context, key string, kind validation.Kind) (clients.ObjectMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, s.statTimeout)
	defer cancel()

	meta, err := s.store.Stat(ctx, key)
	if err != nil {
		return clients.ObjectMetadata{}, clients.ErrNotFound
	}

	if !strings.HasPrefix(meta.ContentType, kind.MIMEFamily()) {
		s.log.Warn("blocked request for object with mismatched content type",
			"path", key,
			"kind", kind,
			"content_type", meta.ContentType,
		)
		return clients.ObjectMetadata{}, ErrTypeMismatch
	}

	return meta, nil
}

// Open opens a backend read stream at the window's start offset.
// Failing here, after metadata already resolved, is a backend fault and
// maps to a 5xx rather than the 404 used for pre-flight absence.
func (s *StreamService) Open(ctx context.Context, key string, offset int64) (io.ReadCloser, error) {
	rc, err := s.store.OpenRange(ctx, key, offset)
	if err != nil {
		s.log.Error("failed to open backend stream", "path", key, "offset", offset, "error", err)
		if errors.Is(err, clients.ErrBackend) {
			return nil, err
		}
		return nil, fmt.Errorf("open stream for %s: %w", key, clients.ErrBackend)
	}
	return rc, nil
}

// Copy delivers exactly the window's byte count from src to dst,
// checking for cancellation between chunks so a client disconnect
// during seek churn releases the backend stream promptly.
func (s *StreamService) Copy(ctx context.Context, dst io.Writer, src io.Reader, br httprange.ByteRange) error {
	remaining := br.Length()
	buf := make([]byte, streamChunkSize)

	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk := int64(len(buf))
		if remaining < chunk {
			chunk = remaining
		}

		n, readErr := src.Read(buf[:chunk])
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			remaining -= int64(n)
		}

		if readErr == io.EOF {
			if remaining > 0 {
				return fmt.Errorf("stream ended %d bytes short: %w", remaining, clients.ErrBackend)
			}
			return nil
		}
		if readErr != nil {
			if errors.Is(readErr, context.Canceled) || errors.Is(readErr, context.DeadlineExceeded) {
				return readErr
			}
			return fmt.Errorf("read backend stream: %w", clients.ErrBackend)
		}
	}

	return nil
}
