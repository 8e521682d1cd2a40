package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image encoding.
type Format int

// Supported output formats.
const (
	None Format = iota
	PNG
	JPEG
	GIF
	TIFF
	BMP
)

var formatNames = map[Format]string{
	PNG:  "png",
	JPEG: "jpeg",
	GIF:  "gif",
	TIFF: "tiff",
	BMP:  "bmp",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the format for a name or file extension, with or
// without a leading dot.
func ParseFormat(ext string) (Format, error) {
	if len(ext) == 0 {
		return None, errors.New("empty image format")
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	}
	return None, fmt.Errorf("unknown image format %q", ext)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case GIF:
		return gif.Encode(w, img, nil)
	case TIFF:
		return tiff.Encode(w, img, nil)
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("cannot encode format %v", f)
}

// EncodeRGBA encodes a row-major, 4 bytes per pixel, non-premultiplied
// buffer of the given size.
func EncodeRGBA(w io.Writer, pix []byte, width, height int, f Format) error {
	if len(pix) != width*height*4 {
		return fmt.Errorf("buffer holds %d bytes, want %d for %dx%d", len(pix), width*height*4, width, height)
	}
	img := &image.NRGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return Encode(w, img, f)
}

// Save writes img to path. When f is None the format is taken from the
// file extension.
func Save(path string, img image.Image, f Format) error {
	if f == None {
		var err error
		if f, err = ParseFormat(filepath.Ext(path)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(file)
	if err := Encode(bw, img, f); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	log.Debugf("wrote %s (%v)", path, f)
	return file.Close()
}
