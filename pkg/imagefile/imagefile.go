/*
imagefile reads, scales and writes the image formats accepted for training
data and returned as inference results: JPEG, PNG and WebP.
*/
package imagefile

import (
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Packages
	webp "github.com/chai2010/webp"
	imaging "github.com/disintegration/imaging"
	bfl "github.com/mutablelogic/go-bfl"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeWebP = "image/webp"
)

const (
	// Quality for lossy encoding
	defaultQuality = 95
)

var (
	extensions = map[string]string{
		".jpg":  ContentTypeJPEG,
		".jpeg": ContentTypeJPEG,
		".png":  ContentTypePNG,
		".webp": ContentTypeWebP,
	}
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// IsImage returns true if the path has a supported image extension
func IsImage(path string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extension returns the file extension for a content type, or empty string
// if the content type is not supported
func Extension(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case ContentTypeJPEG:
		return ".jpg"
	case ContentTypePNG:
		return ".png"
	case ContentTypeWebP:
		return ".webp"
	}
	return ""
}

// ContentType returns the content type for the extension of path, or empty
// string if the extension is not supported
func ContentType(path string) string {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Decode reads an image. WebP is not registered with the image package, so
// it is tried when the registered decoders fail.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, bfl.ErrInvalidArgument.With("unknown or unsupported image format")
}

// Open reads an image from a file
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Fit scales an image down so neither side exceeds max pixels, and returns
// true if the image was scaled. Smaller images, or a zero max, are returned
// unchanged.
func Fit(img image.Image, max int) (image.Image, bool) {
	b := img.Bounds()
	if max <= 0 || (b.Dx() <= max && b.Dy() <= max) {
		return img, false
	}
	return imaging.Fit(img, max, max, imaging.Lanczos), true
}

// Encode writes an image in the format of the file extension ext
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".webp":
		return webp.Encode(w, img, &webp.Options{Quality: defaultQuality})
	case ".png":
		return imaging.Encode(w, img, imaging.PNG)
	case ".jpg", ".jpeg":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(defaultQuality))
	default:
		return bfl.ErrInvalidArgument.Withf("unsupported image format %q", ext)
	}
}

// Save writes an image to a file, in the format of the file extension
func Save(img image.Image, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsImage(path) {
		return bfl.ErrInvalidArgument.Withf("unsupported image format %q", ext)
	}
	if ext != ".webp" {
		return imaging.Save(img, path, imaging.JPEGQuality(defaultQuality))
	}

	// WebP
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, ext); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
