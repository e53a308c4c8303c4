package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lumastream/mediagate/common/config"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when an object does not exist, or when the
// backend failed in a way the gateway deliberately does not distinguish
// from absence. Clients only ever see a 404 for either case.
var ErrNotFound = errors.New("object not found")

// ErrBackend is returned when the backend fails after the object was
// already known to exist (stream open or read failures). Maps to a
// 5xx so operators can tell storage degradation apart from absence.
var ErrBackend = errors.New("object store backend failure")

// ObjectMetadata is the read-only snapshot reported by the store for an
// object key. ContentType is authoritative; the gateway never trusts
// the file extension alone.
type ObjectMetadata struct {
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
}

// ObjectStore is the backend collaborator serving media bytes.
// All implementations must be context-aware and safe for concurrent use.
type ObjectStore interface {
	// Stat fetches object metadata. Missing objects and transient
	// backend failures both surface as ErrNotFound; the underlying
	// cause is logged, never returned to clients.
	Stat(ctx context.Context, key string) (ObjectMetadata, error)

	// OpenRange opens a sequential, forward-only read stream positioned
	// at the given byte offset. The caller owns the returned stream and
	// must close it.
	OpenRange(ctx context.Context, key string, offset int64) (io.ReadCloser, error)
}

// Logger interface for logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// NewObjectStore creates an object store from configuration.
// The returned cleanup function releases backend connections and is
// registered with bootstrap for LIFO shutdown.
func NewObjectStore(cfg *config.Config, logger Logger) (ObjectStore, func() error, error) {
	switch cfg.Store.Backend {
	case "fs":
		logger.Info("using filesystem object store", "root", cfg.Store.MediaRoot)
		store, err := NewFilesystemStore(cfg.Store.MediaRoot, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil

	case "redis":
		logger.Info("using redis object store", "addr", cfg.Store.RedisAddr)
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		return NewRedisStore(client, logger), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}
