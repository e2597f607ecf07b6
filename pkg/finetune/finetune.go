package finetune

import (
	"context"
	"encoding/base64"
	"errors"
	"io/fs"
	"net/url"
	"os"

	// Packages
	client "github.com/mutablelogic/go-client"
	bfl "github.com/mutablelogic/go-bfl"
	schema "github.com/mutablelogic/go-bfl/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type reqDeleteFinetune struct {
	FinetuneID string `json:"finetune_id"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RequestFinetune submits a fine-tune job with the training archive at
// path. The archive is read into memory and sent base64-encoded.
func (c *Client) RequestFinetune(ctx context.Context, path string, req schema.FinetuneRequest) (*schema.Job, error) {
	// Check the request before touching the archive
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Read the archive
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, bfl.ErrInputNotFound.Withf("archive not found at %q", path)
	} else if err != nil {
		return nil, err
	}

	// Set defaults and the file data
	req = req.WithDefaults()
	req.FileData = base64.StdEncoding.EncodeToString(data)

	payload, err := client.NewJSONRequest(req)
	if err != nil {
		return nil, err
	}

	// Request -> Response
	var response schema.Job
	if err := c.do(ctx, "finetune request", payload, &response, client.OptPath("finetune")); err != nil {
		return nil, err
	}

	// Return success
	return &response, nil
}

// FinetuneProgress returns the current state of a fine-tune job
func (c *Client) FinetuneProgress(ctx context.Context, id string) (*schema.Result, error) {
	return c.getResult(ctx, "finetune progress", id)
}

// ListFinetunes returns the identifiers of the caller's fine-tunes
func (c *Client) ListFinetunes(ctx context.Context) (*schema.FinetuneList, error) {
	var response schema.FinetuneList
	if err := c.do(ctx, "finetune listing", nil, &response, client.OptPath("my_finetunes")); err != nil {
		return nil, err
	}
	return &response, nil
}

// FinetuneDetails returns the metadata for a fine-tune
func (c *Client) FinetuneDetails(ctx context.Context, id string) (*schema.FinetuneDetails, error) {
	if id == "" {
		return nil, bfl.ErrInvalidArgument.With("missing finetune id")
	}

	var response schema.FinetuneDetails
	query := url.Values{"finetune_id": []string{id}}
	if err := c.do(ctx, "finetune details", nil, &response, client.OptPath("finetune_details"), client.OptQuery(query)); err != nil {
		return nil, err
	}
	return &response, nil
}

// DeleteFinetune deletes a fine-tune. The deletion cannot be undone.
func (c *Client) DeleteFinetune(ctx context.Context, id string) (schema.Confirmation, error) {
	if id == "" {
		return nil, bfl.ErrInvalidArgument.With("missing finetune id")
	}

	payload, err := client.NewJSONRequest(reqDeleteFinetune{FinetuneID: id})
	if err != nil {
		return nil, err
	}

	var response schema.Confirmation
	if err := c.do(ctx, "finetune deletion", payload, &response, client.OptPath("delete_finetune")); err != nil {
		return nil, err
	}
	return response, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// getResult polls get_result once, which serves both fine-tune and
// inference jobs
func (c *Client) getResult(ctx context.Context, op, id string) (*schema.Result, error) {
	if id == "" {
		return nil, bfl.ErrInvalidArgument.With("missing id")
	}

	var response schema.Result
	query := url.Values{"id": []string{id}}
	if err := c.do(ctx, op, nil, &response, client.OptPath("get_result"), client.OptQuery(query)); err != nil {
		return nil, err
	}
	return &response, nil
}
