package blob

import (
	"bytes"
	"context"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func newUploader(max int64) (*Uploader, *Memory) {
	store := NewMemory("https://cdn.example/media/")
	u := NewUploader(store, max)
	u.now = func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) }
	return u, store
}

func TestUpload(t *testing.T) {
	u, store := newUploader(1 << 10)

	obj, err := u.Upload(context.Background(), "projects", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Key, "projects/2024/03/"), obj.Key)
	assert.True(t, strings.HasSuffix(obj.Key, ".png"), obj.Key)
	assert.Equal(t, "https://cdn.example/media/"+obj.Key, obj.URL)
	assert.Equal(t, "image/png", obj.ContentType)

	body, ct, err := store.Get(obj.Key)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, body)
	assert.Equal(t, "image/png", ct)
}

func TestUpload_Rejects(t *testing.T) {
	u, _ := newUploader(16)

	_, err := u.Upload(context.Background(), "", strings.NewReader("plain text, not an image"))
	assert.ErrorIs(t, err, ErrTooLarge)

	u, _ = newUploader(1 << 10)
	_, err = u.Upload(context.Background(), "", strings.NewReader("<html>nope</html>"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestKey_CleansFolder(t *testing.T) {
	u, _ := newUploader(0)
	assert.True(t, strings.HasPrefix(u.Key("../../etc", ".png"), "etc/2024/03/"))
	assert.True(t, strings.HasPrefix(u.Key("", ".png"), "uploads/2024/03/"))
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestResolve(t *testing.T) {
	u, _ := newUploader(1 << 10)
	ctx := context.Background()

	url, err := u.Resolve(ctx, "hero", fileHeader(t, "bg.png", pngHeader), "https://old.example/bg.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example/media/hero/"), url)

	url, err = u.Resolve(ctx, "hero", nil, " /img/bg.jpg ")
	require.NoError(t, err)
	assert.Equal(t, "/img/bg.jpg", url)

	url, err = u.Resolve(ctx, "hero", nil, "")
	require.NoError(t, err)
	assert.Empty(t, url)

	_, err = u.Resolve(ctx, "hero", nil, "javascript:alert(1)")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory("")
	obj, err := m.Put(context.Background(), "a/b.png", pngHeader, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/a/b.png", obj.URL)

	require.NoError(t, m.Delete(context.Background(), "a/b.png"))
	assert.ErrorIs(t, m.Delete(context.Background(), "a/b.png"), ErrNotFound)
}
