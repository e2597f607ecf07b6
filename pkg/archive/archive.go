/*
archive builds the training archive which is submitted with a fine-tune
request: a zip of images, each with an optional caption file which has the
same name and a .txt extension.
*/
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	// Packages
	bfl "github.com/mutablelogic/go-bfl"
	imagefile "github.com/mutablelogic/go-bfl/pkg/imagefile"
	opt "github.com/mutablelogic/go-bfl/pkg/opt"
	schema "github.com/mutablelogic/go-bfl/pkg/schema"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Manifest lists the files written to the archive
type Manifest struct {
	Images   []string `json:"images"`
	Captions []string `json:"captions,omitempty"`
	Resized  []string `json:"resized,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	optMaxSize = "max-size"
	captionExt = ".txt"
)

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithMaxSize scales down any image with a side larger than n pixels. Zero
// keeps the images as they are.
func WithMaxSize(n uint) opt.Opt {
	return opt.WithUint(optMaxSize, n)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Create writes a zip of the images in dir, and their captions, to w. Hidden
// files and subdirectories are skipped.
func Create(w io.Writer, dir string, opts ...opt.Opt) (*Manifest, error) {
	o, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}

	// Read the directory
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, bfl.ErrInputNotFound.With(dir)
	} else if err != nil {
		return nil, err
	}

	// Collect images and captions, by name. A caption belongs to exactly one
	// image, so images cannot share a name apart from the extension.
	var images []string
	stems := make(map[string]string)
	captions := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		switch {
		case imagefile.IsImage(name):
			if other, exists := stems[stem(name)]; exists {
				return nil, bfl.ErrInvalidArgument.Withf("images %q and %q have the same name", other, name)
			}
			stems[stem(name)] = name
			images = append(images, name)
		case strings.EqualFold(filepath.Ext(name), captionExt):
			if other, exists := captions[stem(name)]; exists {
				return nil, bfl.ErrInvalidArgument.Withf("captions %q and %q have the same name", other, name)
			}
			captions[stem(name)] = name
		}
	}
	if len(images) == 0 {
		return nil, bfl.ErrInvalidArgument.Withf("no images in %q", dir)
	}
	slices.Sort(images)

	// Scale images in parallel, keeping the encoded data of any which change
	maxSize := int(o.GetUint(optMaxSize))
	scaled := make([][]byte, len(images))
	if maxSize > 0 {
		g := new(errgroup.Group)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, name := range images {
			g.Go(func() error {
				data, err := scale(filepath.Join(dir, name), maxSize)
				if err != nil {
					return bfl.ErrInvalidArgument.Withf("%s: %v", name, err)
				}
				scaled[i] = data
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	// Write the archive in name order
	manifest := new(Manifest)
	zw := zip.NewWriter(w)
	for i, name := range images {
		if scaled[i] != nil {
			err = writeData(zw, scaled[i], name)
			manifest.Resized = append(manifest.Resized, name)
		} else {
			err = writeFile(zw, filepath.Join(dir, name), name)
		}
		if err != nil {
			return nil, errors.Join(err, zw.Close())
		}
		manifest.Images = append(manifest.Images, name)

		// Caption for the image
		caption, exists := captions[stem(name)]
		if !exists {
			continue
		}
		if err := writeFile(zw, filepath.Join(dir, caption), caption); err != nil {
			return nil, errors.Join(err, zw.Close())
		}
		manifest.Captions = append(manifest.Captions, caption)
	}

	// Return success
	return manifest, zw.Close()
}

// CreateFile writes the archive for dir to path
func CreateFile(path, dir string, opts ...opt.Opt) (*Manifest, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	manifest, err := Create(f, dir, opts...)
	if err := errors.Join(err, f.Close()); err != nil {
		os.Remove(path)
		return nil, err
	}
	return manifest, nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m Manifest) String() string {
	return schema.Stringify(m)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func stem(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}

// scale returns the image at path encoded in its own format when it is
// larger than max pixels on either side, or nil when it fits
func scale(path string, max int) ([]byte, error) {
	img, err := imagefile.Open(path)
	if err != nil {
		return nil, err
	}
	img, resized := imagefile.Fit(img, max)
	if !resized {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := imagefile.Encode(&buf, img, filepath.Ext(path)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeData(zw *zip.Writer, data []byte, name string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
