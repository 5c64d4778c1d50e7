package blob

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers the PutObject and DeleteObject calls the store makes.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// path-style: /<bucket>/<key>
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	resp := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: io.NopCloser(bytes.NewReader(nil)), Request: req}
	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if strings.Contains(req.Header.Get("Content-Encoding"), "aws-chunked") {
			body = dechunk(body)
		}
		f.objects[key] = body
		f.types[key] = req.Header.Get("Content-Type")
		resp.Header.Set("ETag", `"etag"`)
	case http.MethodDelete:
		delete(f.objects, key)
		resp.StatusCode = http.StatusNoContent
	default:
		resp.StatusCode = http.StatusMethodNotAllowed
	}
	return resp, nil
}

// dechunk strips aws-chunked framing: <hex>[;ext]\r\n<data>\r\n ... 0\r\n<trailers>.
func dechunk(b []byte) []byte {
	var out []byte
	for {
		line, rest, ok := bytes.Cut(b, []byte("\r\n"))
		if !ok {
			return out
		}
		sizeHex, _, _ := bytes.Cut(line, []byte(";"))
		n, err := strconv.ParseInt(string(sizeHex), 16, 64)
		if err != nil || n == 0 || int64(len(rest)) < n {
			return out
		}
		out = append(out, rest[:n]...)
		b = bytes.TrimPrefix(rest[n:], []byte("\r\n"))
	}
}

func newFakeS3Store(t *testing.T, cfg S3Config) (*S3, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	cfg.AccessKeyID, cfg.SecretAccessKey = "AKIA", "SECRET"
	cfg.PathStyle = true
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://mock.s3.local"
	}
	store, err := NewS3(context.Background(), cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	require.NoError(t, err)
	return store, fake
}

func TestS3_PutDelete(t *testing.T) {
	store, fake := newFakeS3Store(t, S3Config{Bucket: "site-media"})
	ctx := context.Background()

	obj, err := store.Put(ctx, "projects/2024/03/a.png", pngHeader, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://mock.s3.local/site-media/projects/2024/03/a.png", obj.URL)
	assert.Equal(t, pngHeader, fake.objects["projects/2024/03/a.png"])
	assert.Equal(t, "image/png", fake.types["projects/2024/03/a.png"])

	require.NoError(t, store.Delete(ctx, "projects/2024/03/a.png"))
	assert.Empty(t, fake.objects)
}

func TestS3_PublicURL(t *testing.T) {
	store, _ := newFakeS3Store(t, S3Config{Bucket: "site-media", PublicBaseURL: "https://cdn.example/"})
	assert.Equal(t, "https://cdn.example/x.png", store.URL("x.png"))

	assert.Equal(t, "https://site-media.s3.eu-west-1.amazonaws.com",
		publicBase(S3Config{Bucket: "site-media"}, "eu-west-1"))

	_, err := NewS3(context.Background(), S3Config{})
	assert.Error(t, err)
}
