package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/lumastream/mediagate/common/clients"
	"github.com/lumastream/mediagate/common/httprange"
	"github.com/lumastream/mediagate/common/logger"
	"github.com/lumastream/mediagate/common/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore is a hand-rolled ObjectStore for tests
type stubStore struct {
	meta      clients.ObjectMetadata
	statErr   error
	data      []byte
	openErr   error
	statCalls int
	lastRC    *trackedReadCloser
}

func (s *stubStore) Stat(ctx context.Context, key string) (clients.ObjectMetadata, error) {
	s.statCalls++
	if s.statErr != nil {
		return clients.ObjectMetadata{}, s.statErr
	}
	return s.meta, nil
}

func (s *stubStore) OpenRange(ctx context.Context, key string, offset int64) (io.ReadCloser, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	if offset > int64(len(s.data)) {
		offset = int64(len(s.data))
	}
	s.lastRC = &trackedReadCloser{Reader: bytes.NewReader(s.data[offset:])}
	return s.lastRC, nil
}

type trackedReadCloser struct {
	io.Reader
	closed bool
}

func (t *trackedReadCloser) Close() error {
	t.closed = true
	return nil
}

func newTestService(store clients.ObjectStore) *StreamService {
	return NewStreamService(store, logger.New("error", "json"), time.Second)
}

func TestResolveMetadata_OK(t *testing.T) {
	store := &stubStore{meta: clients.ObjectMetadata{
		Size:        42,
		ContentType: "audio/mpeg",
		ETag:        "tag",
	}}
	svc := newTestService(store)

	meta, err := svc.ResolveMetadata(context.Background(), "album/track.mp3", validation.KindAudio)
	require.NoError(t, err)
	assert.Equal(t, int64(42), meta.Size)
	assert.Equal(t, 1, store.statCalls)
}

func TestResolveMetadata_StatFailureNormalizedToNotFound(t *testing.T) {
	store := &stubStore{statErr: fmt.Errorf("connection refused")}
	svc := newTestService(store)

	_, err := svc.ResolveMetadata(context.Background(), "album/track.mp3", validation.KindAudio)
	assert.ErrorIs(t, err, clients.ErrNotFound)
}

func TestResolveMetadata_ContentTypeMismatch(t *testing.T) {
	store := &stubStore{meta: clients.ObjectMetadata{
		Size:        42,
		ContentType: "text/plain",
	}}
	svc := newTestService(store)

	_, err := svc.ResolveMetadata(context.Background(), "clips/fake.mp4", validation.KindVideo)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestResolveMetadata_AudioFamilyEnforced(t *testing.T) {
	store := &stubStore{meta: clients.ObjectMetadata{
		Size:        42,
		ContentType: "video/mp4",
	}}
	svc := newTestService(store)

	_, err := svc.ResolveMetadata(context.Background(), "album/track.mp3", validation.KindAudio)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestOpen_BackendFailureWrapped(t *testing.T) {
	store := &stubStore{openErr: errors.New("disk gone")}
	svc := newTestService(store)

	_, err := svc.Open(context.Background(), "album/track.mp3", 0)
	assert.ErrorIs(t, err, clients.ErrBackend)
}

func TestCopy_ExactWindow(t *testing.T) {
	store := &stubStore{data: []byte("0123456789abcdef")}
	svc := newTestService(store)

	rc, err := svc.Open(context.Background(), "k", 4)
	require.NoError(t, err)
	defer rc.Close()

	var dst bytes.Buffer
	window := httprange.ByteRange{Start: 4, End: 9, Total: 16}
	require.NoError(t, svc.Copy(context.Background(), &dst, rc, window))

	assert.Equal(t, "456789", dst.String())
	assert.Equal(t, window.Length(), int64(dst.Len()))
}

func TestCopy_ShortStreamIsBackendError(t *testing.T) {
	store := &stubStore{data: []byte("short")}
	svc := newTestService(store)

	rc, err := svc.Open(context.Background(), "k", 0)
	require.NoError(t, err)
	defer rc.Close()

	var dst bytes.Buffer
	window := httprange.ByteRange{Start: 0, End: 99, Total: 100}
	err = svc.Copy(context.Background(), &dst, rc, window)
	assert.ErrorIs(t, err, clients.ErrBackend)
}

func TestCopy_ObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// cancel after the first chunk crosses the writer
	dst := &cancellingWriter{cancel: cancel}
	src := bytes.NewReader(make([]byte, streamChunkSize*4))

	svc := newTestService(&stubStore{})
	window := httprange.ByteRange{Start: 0, End: streamChunkSize*4 - 1, Total: streamChunkSize * 4}

	err := svc.Copy(ctx, dst, src, window)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, dst.written, int(window.Length()), "copy should stop once canceled")
}

// cancellingWriter cancels its context on the first write, simulating a
// client that disconnects mid-transfer
type cancellingWriter struct {
	cancel  context.CancelFunc
	written int
}

func (w *cancellingWriter) Write(p []byte) (int, error) {
	w.written += len(p)
	w.cancel()
	return len(p), nil
}
