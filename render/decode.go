package render

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// decoders is keyed by lowercase file extension. tga has no magic number,
// so formats are chosen by name rather than sniffed.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// DecodeImage reads and decodes an image from fsys. Paths are slash separated
// and relative to the root of fsys; a leading "./" or "/" is ignored.
func DecodeImage(fsys fs.FS, name string) (image.Image, error) {
	clean := cleanPath(name)
	if !fs.ValidPath(clean) {
		return nil, errors.Errorf("invalid texture path %q", name)
	}
	b, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", clean)
	}
	decode, ok := decoders[strings.ToLower(path.Ext(clean))]
	if !ok {
		return nil, errors.Errorf("unsupported texture format %q", name)
	}
	img, err := decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", clean)
	}
	return img, nil
}

func cleanPath(name string) string {
	s := strings.ReplaceAll(name, "\\", "/")
	s = path.Clean(s)
	s = strings.TrimPrefix(s, "/")
	return s
}

// Color converts script color channels in 0..255 to a color, clamping out of
// range values.
func Color(r, g, b, a float64) color.NRGBA {
	return color.NRGBA{R: channel(r), G: channel(g), B: channel(b), A: channel(a)}
}

func channel(v float64) uint8 {
	switch {
	case v != v || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
