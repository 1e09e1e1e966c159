package render

import (
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/pkg/errors"
)

// EncodeImage writes img as WebP when format is "webp" and as PNG otherwise.
func EncodeImage(w io.Writer, img image.Image, format string) error {
	if strings.EqualFold(format, "webp") {
		return nativewebp.Encode(w, img, nil)
	}
	return png.Encode(w, img)
}

// SaveScreenshot writes img to path, picking the format from the extension.
// Missing parent directories are created.
func SaveScreenshot(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "screenshot directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create screenshot")
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if err := EncodeImage(f, img, format); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}
