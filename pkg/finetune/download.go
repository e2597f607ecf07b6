package finetune

import (
	"bytes"
	"context"
	"image"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"

	// Packages
	client "github.com/mutablelogic/go-client"
	bfl "github.com/mutablelogic/go-bfl"
	imagefile "github.com/mutablelogic/go-bfl/pkg/imagefile"
	schema "github.com/mutablelogic/go-bfl/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// sample receives the image body of a result download
type sample struct {
	image.Image
	ContentType string
	Data        []byte
}

var _ client.Unmarshaler = (*sample)(nil)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Download fetches the sample image of a ready result and writes it to path.
// The format follows the extension of path; when path has no extension, the
// extension of the downloaded image is appended. An image already in the
// format of path is written unchanged. Returns the path written.
func (c *Client) Download(ctx context.Context, result *schema.Result, path string) (string, error) {
	if result == nil || result.Status != schema.StatusReady {
		return "", bfl.ErrInvalidArgument.With("result is not ready")
	}
	url := result.Sample()
	if url == "" {
		return "", bfl.ErrInvalidArgument.With("result has no sample")
	}

	// The sample is served from a delivery host, which does not get the
	// credential
	dl, err := client.New(append(slices.Clone(c.opts), client.OptEndpoint(url))...)
	if err != nil {
		return "", err
	}
	var response sample
	if err := do(ctx, dl, "sample download", nil, &response, client.OptReqEndpoint(url)); err != nil {
		return "", err
	}

	// Append an extension if there is none
	if filepath.Ext(path) == "" {
		if ext := imagefile.Extension(response.ContentType); ext != "" {
			path += ext
		} else {
			path += ".jpg"
		}
	}

	// Write the image as delivered when the format matches, else convert it
	if response.ContentType != "" && imagefile.ContentType(path) == response.ContentType {
		if err := os.WriteFile(path, response.Data, 0644); err != nil {
			return "", err
		}
	} else if err := imagefile.Save(response.Image, path); err != nil {
		return "", err
	}

	// Return success
	return path, nil
}

///////////////////////////////////////////////////////////////////////////////
// UNMARSHALER

func (s *sample) Unmarshal(header http.Header, body io.Reader) error {
	if ct := header.Get("Content-Type"); ct != "" {
		if mimetype, _, err := mime.ParseMediaType(ct); err == nil {
			s.ContentType = mimetype
		}
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	img, err := imagefile.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	s.Image = img
	s.Data = data
	return nil
}
