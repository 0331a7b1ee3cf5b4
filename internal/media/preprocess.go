package media

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Image compression parameters applied before upload.
const (
	DefaultMaxEdge     = 1080
	DefaultJPEGQuality = 70

	// DefaultMaxPixels bounds the decoded size of a source image. Larger
	// images are sent as-is and left to size validation.
	DefaultMaxPixels = 50_000_000
)

// Prepared is a file ready for validation and upload. When Temporary is set
// the file lives in a scratch location and Cleanup removes it.
type Prepared struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
	Temporary   bool
}

// Cleanup removes the scratch file, if any.
func (p *Prepared) Cleanup() {
	if p != nil && p.Temporary {
		_ = os.Remove(p.Path)
	}
}

// PreprocessOptions tunes Preprocess. Zero values use the defaults above.
type PreprocessOptions struct {
	MaxEdge   int
	Quality   int
	MaxPixels int
	TempDir   string
}

func (o PreprocessOptions) withDefaults() PreprocessOptions {
	if o.MaxEdge <= 0 {
		o.MaxEdge = DefaultMaxEdge
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultJPEGQuality
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	return o
}

// Preprocess prepares path for upload. Images that can be decoded (JPEG,
// PNG, GIF, WebP) are scaled so the long edge fits MaxEdge and re-encoded as
// JPEG; the result gets a .jpg name. Anything else, including images Go
// cannot decode such as HEIC, passes through unchanged. The size is always
// measured on the file that will actually be sent.
func Preprocess(path string, category Category, filename string, opts PreprocessOptions) (*Prepared, error) {
	if filename == "" {
		filename = filepath.Base(path)
	}

	if category == Image {
		p, ok, err := compressImage(path, filename, opts.withDefaults())
		if err != nil {
			return nil, err
		}
		if ok {
			return p, nil
		}
	}

	return passThrough(path, filename)
}

func passThrough(path, filename string) (*Prepared, error) {
	p := &Prepared{Path: path, Name: filename, ContentType: InferMimeType(filename)}
	if info, err := os.Stat(path); err == nil {
		p.Size = info.Size()
	}
	// A missing file is reported by validation, not here.
	return p, nil
}

// compressImage reports ok=false when the source is not a decodable image or
// its header declares more than opts.MaxPixels pixels.
func compressImage(path, filename string, opts PreprocessOptions) (*Prepared, bool, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, false, nil
	}
	defer in.Close()

	hdr, _, err := image.DecodeConfig(in)
	if err != nil {
		return nil, false, nil
	}
	if int64(hdr.Width)*int64(hdr.Height) > int64(opts.MaxPixels) {
		return nil, false, nil
	}
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return nil, false, fmt.Errorf("rewind image: %w", err)
	}

	src, _, err := image.Decode(in)
	if err != nil {
		return nil, false, nil
	}

	dst := downscale(src, opts.MaxEdge)

	out, err := os.CreateTemp(opts.TempDir, "capsule-*.jpg")
	if err != nil {
		return nil, false, fmt.Errorf("create temp image: %w", err)
	}

	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: opts.Quality}); err != nil {
		out.Close()
		os.Remove(out.Name())
		return nil, false, fmt.Errorf("encode jpeg: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return nil, false, fmt.Errorf("close temp image: %w", err)
	}

	info, err := os.Stat(out.Name())
	if err != nil {
		os.Remove(out.Name())
		return nil, false, fmt.Errorf("stat temp image: %w", err)
	}

	return &Prepared{
		Path:        out.Name(),
		Name:        jpegName(filename),
		ContentType: "image/jpeg",
		Size:        info.Size(),
		Temporary:   true,
	}, true, nil
}

// downscale flattens src onto white, since JPEG has no alpha channel.
func downscale(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		rgba := whiteCanvas(w, h)
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Over)
		return rgba
	}

	nw, nh := maxEdge, maxEdge
	if w >= h {
		nh = max(1, h*maxEdge/w)
	} else {
		nw = max(1, w*maxEdge/h)
	}

	dst := whiteCanvas(nw, nh)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func whiteCanvas(w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	return dst
}

func jpegName(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if base == "" {
		base = "image"
	}
	return base + ".jpg"
}
