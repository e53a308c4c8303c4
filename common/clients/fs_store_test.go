package clients

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger discards log output
type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}
func (testLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (testLogger) Debug(msg string, keysAndValues ...interface{}) {}

// mp3Bytes fabricates content with an ID3 header so content-type
// sniffing reports audio/mpeg regardless of the file name
func mp3Bytes(payload string) []byte {
	header := []byte("ID3\x04\x00\x00\x00\x00\x00\x00")
	return append(header, []byte(payload)...)
}

func setupFilesystemStore(t *testing.T) (*FilesystemStore, string) {
	t.Helper()
	root := t.TempDir()

	store, err := NewFilesystemStore(root, testLogger{})
	require.NoError(t, err)
	return store, root
}

func writeObject(t *testing.T, root, key string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestFilesystemStore_Stat(t *testing.T) {
	store, root := setupFilesystemStore(t)
	data := mp3Bytes(strings.Repeat("x", 4096))
	writeObject(t, root, "album/track.mp3", data)

	meta, err := store.Stat(context.Background(), "album/track.mp3")
	require.NoError(t, err)

	assert.Equal(t, int64(len(data)), meta.Size)
	assert.Equal(t, "audio/mpeg", meta.ContentType)
	assert.NotEmpty(t, meta.ETag)
	assert.False(t, meta.LastModified.IsZero())
}

func TestFilesystemStore_StatSniffsRealType(t *testing.T) {
	store, root := setupFilesystemStore(t)
	// a text file renamed to look like video
	writeObject(t, root, "album/fake.mp4", []byte("just some plain text, not media"))

	meta, err := store.Stat(context.Background(), "album/fake.mp4")
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(meta.ContentType, "video/"),
		"sniffed type %q must not claim video", meta.ContentType)
}

func TestFilesystemStore_StatMissing(t *testing.T) {
	store, _ := setupFilesystemStore(t)

	_, err := store.Stat(context.Background(), "album/absent.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystemStore_StatDirectory(t *testing.T) {
	store, root := setupFilesystemStore(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "album"), 0o755))

	_, err := store.Stat(context.Background(), "album")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystemStore_StatRefusesEscapingKey(t *testing.T) {
	store, _ := setupFilesystemStore(t)

	_, err := store.Stat(context.Background(), "../outside.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystemStore_OpenRange(t *testing.T) {
	store, root := setupFilesystemStore(t)
	writeObject(t, root, "album/track.mp3", []byte("0123456789"))

	rc, err := store.OpenRange(context.Background(), "album/track.mp3", 4)
	require.NoError(t, err)
	defer rc.Close()

	rest, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "456789", string(rest))
}

func TestFilesystemStore_OpenRangeMissing(t *testing.T) {
	store, _ := setupFilesystemStore(t)

	_, err := store.OpenRange(context.Background(), "album/absent.mp3", 0)
	assert.ErrorIs(t, err, ErrBackend)
}

func TestNewFilesystemStore_MissingRoot(t *testing.T) {
	_, err := NewFilesystemStore(filepath.Join(t.TempDir(), "nope"), testLogger{})
	assert.Error(t, err)
}

func TestFilesystemStore_ETagChangesWithContent(t *testing.T) {
	store, root := setupFilesystemStore(t)
	writeObject(t, root, "album/track.mp3", mp3Bytes("one"))

	first, err := store.Stat(context.Background(), "album/track.mp3")
	require.NoError(t, err)

	writeObject(t, root, "album/track.mp3", mp3Bytes("a longer replacement payload"))

	second, err := store.Stat(context.Background(), "album/track.mp3")
	require.NoError(t, err)

	assert.NotEqual(t, first.ETag, second.ETag)
}
