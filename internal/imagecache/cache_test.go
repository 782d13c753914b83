package imagecache

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/studio-cli/internal/api"
)

type countingFetcher struct {
	mu      sync.Mutex
	calls   int
	bypass  []bool
	payload []byte
	err     error
}

func (f *countingFetcher) FetchStudioImage(_ context.Context, id string, bypassCache bool) (*api.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.bypass = append(f.bypass, bypassCache)
	if f.err != nil {
		return nil, f.err
	}
	return &api.Image{StudioID: id, ContentType: "image/png", Data: f.payload}, nil
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestGetCachesAfterFirstFetch(t *testing.T) {
	f := &countingFetcher{payload: []byte("x")}
	c, err := New(f, 4)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "7")
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "7")
	require.NoError(t, err)

	assert.Equal(t, 1, f.calls)
	assert.Equal(t, []bool{false}, f.bypass)
}

func TestRefreshBypassesAndReplaces(t *testing.T) {
	f := &countingFetcher{payload: []byte("old")}
	c, err := New(f, 4)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "7")
	require.NoError(t, err)

	f.payload = []byte("new")
	require.NoError(t, c.Refresh(context.Background(), "7"))

	img, ok := c.Peek("7")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), img.Data)
	assert.Equal(t, []bool{false, true}, f.bypass)
}

func TestRefreshFailureDropsStaleEntry(t *testing.T) {
	f := &countingFetcher{payload: []byte("old")}
	c, err := New(f, 4)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "7")
	require.NoError(t, err)

	f.err = errors.New("502")
	err = c.Refresh(context.Background(), "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch studio 7 image")

	_, ok := c.Peek("7")
	assert.False(t, ok)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	f := &countingFetcher{payload: []byte("x")}
	c, err := New(f, 2)
	require.NoError(t, err)

	for _, id := range []string{"1", "2", "3"} {
		_, err := c.Get(context.Background(), id)
		require.NoError(t, err)
	}
	_, ok := c.Peek("1")
	assert.False(t, ok)
	_, ok = c.Peek("3")
	assert.True(t, ok)
}

func TestForget(t *testing.T) {
	f := &countingFetcher{payload: []byte("x")}
	c, err := New(f, 0)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "7")
	require.NoError(t, err)

	c.Forget("7")
	_, ok := c.Peek("7")
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "no image", Describe(nil))

	data := testPNG(t, 4, 3)
	out := Describe(&api.Image{ContentType: "image/png", Data: data})
	assert.Contains(t, out, "image/png 4x3")
	assert.Contains(t, out, " B")

	out = Describe(&api.Image{ContentType: "application/octet-stream", Data: []byte("junk")})
	assert.Equal(t, "application/octet-stream, 4 B", out)
}
