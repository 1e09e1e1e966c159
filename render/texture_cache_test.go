package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/image/bmp"
)

func TestRequestLoadResolvesOnce(t *testing.T) {
	rec := NewRecorder()
	cache := NewTextureCache(rec, zaptest.NewLogger(t))

	cache.RequestLoad("a.png")
	cache.RequestLoad("a.png")
	assert.Equal(t, []string{"a.png", "a.png"}, cache.Pending())

	errs := cache.ResolvePending()
	assert.Empty(t, errs)
	assert.Empty(t, cache.Pending())
	assert.Equal(t, 1, rec.Count("load"))
	assert.Equal(t, 1, cache.Loads())

	first, err := cache.Resolve("a.png")
	require.NoError(t, err)
	second, err := cache.Resolve("a.png")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, rec.Count("load"), "cached resolves issue no backend calls")
}

func TestResolveFailure(t *testing.T) {
	rec := NewRecorder("missing.png")
	cache := NewTextureCache(rec, zaptest.NewLogger(t))

	cache.RequestLoad("missing.png")
	cache.RequestLoad("ok.png")
	errs := cache.ResolvePending()
	require.Len(t, errs, 1)

	var loadErr *TextureLoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, "missing.png", loadErr.Path)
	assert.EqualError(t, loadErr.Err, "no such file: missing.png")

	_, ok := cache.Lookup("missing.png")
	assert.False(t, ok)
	_, ok = cache.Lookup("ok.png")
	assert.True(t, ok)

	_, err := cache.Resolve("missing.png")
	assert.Error(t, err)
	assert.Equal(t, 2, rec.Count("load"), "failed path is not retried")

	cache.ClearFailures()
	_, err = cache.Resolve("missing.png")
	assert.Error(t, err)
	assert.Equal(t, 3, rec.Count("load"))
}

func TestNilLoader(t *testing.T) {
	cache := NewTextureCache(nil, nil)
	_, err := cache.Resolve("x.png")
	var loadErr *TextureLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	fsys := fstest.MapFS{
		"sprites/bee.png": {Data: pngBytes(t, 4, 3)},
		"broken.png":      {Data: []byte("not an image")},
		"bee.txt":         {Data: pngBytes(t, 4, 3)},
	}

	cases := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"plain", "sprites/bee.png", false},
		{"dot_prefix", "./sprites/bee.png", false},
		{"rooted", "/sprites/bee.png", false},
		{"backslashes", "sprites\\bee.png", false},
		{"missing", "sprites/wasp.png", true},
		{"undecodable", "broken.png", true},
		{"escape", "../bee.png", true},
		{"unknown_extension", "bee.txt", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			img, err := DecodeImage(fsys, c.path)
			if c.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
		})
	}
}

func TestDecodeImageByExtension(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 2))
	src.Set(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	encoders := map[string]func(io.Writer, image.Image) error{
		"a.png": png.Encode,
		"b.PNG": png.Encode,
		"c.jpg": func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, nil) },
		"d.gif": func(w io.Writer, m image.Image) error { return gif.Encode(w, m, nil) },
		"e.bmp": bmp.Encode,
	}
	fsys := fstest.MapFS{}
	for name, encode := range encoders {
		var buf bytes.Buffer
		require.NoError(t, encode(&buf, src), name)
		fsys[name] = &fstest.MapFile{Data: buf.Bytes()}
	}

	for name := range encoders {
		t.Run(name, func(t *testing.T) {
			img, err := DecodeImage(fsys, name)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), img.Bounds())
		})
	}

	// a png under a .bmp name must not be sniffed into decoding
	fsys["wrong.bmp"] = fsys["a.png"]
	_, err := DecodeImage(fsys, "wrong.bmp")
	assert.Error(t, err)
}

func TestColorClamps(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0, G: 128, B: 255, A: 255}, Color(-5, 128.9, 300, 255))
}
