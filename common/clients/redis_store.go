package clients

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"strconv"
	"time"

	redisWrapper "github.com/lumastream/mediagate/common/redis"
	"github.com/redis/go-redis/v9"
)

const (
	blobKeyPrefix = "media:blob:"
	metaKeyPrefix = "media:meta:"

	// window size for GETRANGE reads while streaming
	redisReadChunk = 512 * 1024
)

// RedisStore keeps object bytes in a Redis string key and metadata in a
// companion hash. Suited to modest libraries that fit in Redis memory;
// large archives belong on the filesystem backend.
type RedisStore struct {
	redis  *redisWrapper.Client
	logger Logger
}

// NewRedisStore creates a Redis-backed object store
func NewRedisStore(redisClient *redis.Client, logger Logger) *RedisStore {
	return &RedisStore{
		redis:  redisWrapper.NewClient(redisClient, logger),
		logger: logger,
	}
}

// Stat reads the metadata hash for a key
func (s *RedisStore) Stat(ctx context.Context, key string) (ObjectMetadata, error) {
	fields, err := s.redis.HGetAll(ctx, metaKeyPrefix+key)
	if err != nil {
		s.logger.Warn("redis stat failed", "key", key, "error", err)
		return ObjectMetadata{}, ErrNotFound
	}
	if len(fields) == 0 {
		s.logger.Debug("redis stat miss", "key", key)
		return ObjectMetadata{}, ErrNotFound
	}

	size, err := strconv.ParseInt(fields["size"], 10, 64)
	if err != nil || size < 0 {
		s.logger.Warn("redis stat has corrupt size field", "key", key, "size", fields["size"])
		return ObjectMetadata{}, ErrNotFound
	}

	meta := ObjectMetadata{
		Size:        size,
		ContentType: fields["content_type"],
		ETag:        fields["etag"],
	}
	if lm := fields["last_modified"]; lm != "" {
		t, err := time.Parse(time.RFC3339, lm)
		if err != nil {
			s.logger.Warn("redis stat has corrupt last_modified field", "key", key, "last_modified", lm)
		} else {
			meta.LastModified = t
		}
	}

	return meta, nil
}

// OpenRange returns a reader streaming the blob from the given offset
// using windowed GETRANGE calls
func (s *RedisStore) OpenRange(ctx context.Context, key string, offset int64) (io.ReadCloser, error) {
	return &redisRangeReader{
		ctx:   ctx,
		redis: s.redis,
		key:   blobKeyPrefix + key,
		pos:   offset,
	}, nil
}

// Put stores a blob with its metadata. The ETag is the SHA256 of the
// content, a strong validator that changes whenever the bytes change.
func (s *RedisStore) Put(ctx context.Context, key string, data []byte, contentType string, lastModified time.Time) error {
	etag := fmt.Sprintf("%x", sha256.Sum256(data))

	if err := s.redis.SetWithExpiry(ctx, blobKeyPrefix+key, string(data), 0); err != nil {
		return fmt.Errorf("store blob %s: %w", key, err)
	}

	fields := map[string]interface{}{
		"size":          strconv.Itoa(len(data)),
		"content_type":  contentType,
		"etag":          etag,
		"last_modified": lastModified.UTC().Format(time.RFC3339),
	}
	if err := s.redis.HSet(ctx, metaKeyPrefix+key, fields); err != nil {
		return fmt.Errorf("store metadata %s: %w", key, err)
	}

	s.logger.Debug("stored object in redis", "key", key, "size", len(data), "etag", etag)
	return nil
}

// Delete removes a blob and its metadata
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.redis.Delete(ctx, blobKeyPrefix+key, metaKeyPrefix+key)
}

// redisRangeReader streams a Redis string key in fixed windows.
// Sequential and forward-only, mirroring the store contract.
type redisRangeReader struct {
	ctx    context.Context
	redis  *redisWrapper.Client
	key    string
	pos    int64
	buf    []byte
	closed bool
}

func (r *redisRangeReader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, fmt.Errorf("read after close: %w", io.ErrClosedPipe)
	}

	if len(r.buf) == 0 {
		if err := r.ctx.Err(); err != nil {
			return 0, err
		}
		window, err := r.redis.GetRange(r.ctx, r.key, r.pos, r.pos+redisReadChunk-1)
		if err != nil {
			return 0, fmt.Errorf("ranged read of %s at %d: %w", r.key, r.pos, ErrBackend)
		}
		if len(window) == 0 {
			return 0, io.EOF
		}
		r.buf = []byte(window)
		r.pos += int64(len(window))
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (r *redisRangeReader) Close() error {
	r.closed = true
	r.buf = nil
	return nil
}
