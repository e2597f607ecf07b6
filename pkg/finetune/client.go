/*
finetune implements an API client for the BFL fine-tuning and inference API.
https://docs.bfl.ai/
*/
package finetune

import (
	"context"

	// Packages
	uuid "github.com/google/uuid"
	client "github.com/mutablelogic/go-client"
	bfl "github.com/mutablelogic/go-bfl"
	version "github.com/mutablelogic/go-bfl/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client

	// Options without the endpoint or credential, for other hosts
	opts []client.ClientOpt
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint = "https://api.us1.bfl.ai/v1"

	// Header which carries the credential
	headerKey = "X-Key"

	// Header which identifies each call in traces and support requests
	headerRequestId = "X-Request-Id"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new client with the given API key. The endpoint defaults to
// the BFL API and can be replaced with client.OptEndpoint.
func New(apiKey string, opts ...client.ClientOpt) (*Client, error) {
	// Check for missing API key
	if apiKey == "" {
		return nil, bfl.ErrMissingCredential.With("provide an API key or set BFL_API_KEY")
	}

	// Create client, options given by the caller take precedence
	opts = append([]client.ClientOpt{client.OptUserAgent(version.UserAgent())}, opts...)
	// Calls are unbounded unless the caller sets a timeout
	defaults := []client.ClientOpt{
		client.OptEndpoint(endPoint),
		client.OptHeader(headerKey, apiKey),
		client.OptTimeout(0),
	}
	if c, err := client.New(append(defaults, opts...)...); err != nil {
		return nil, err
	} else {
		return &Client{c, opts}, nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// do performs a single request and decodes the response into out. Any
// failure, including a non-2xx status, is returned as ErrUpstreamRequest
// with the operation label, and the transport error kept in the chain.
func (c *Client) do(ctx context.Context, op string, payload client.Payload, out any, opts ...client.RequestOpt) error {
	return do(ctx, c.Client, op, payload, out, opts...)
}

func do(ctx context.Context, c *client.Client, op string, payload client.Payload, out any, opts ...client.RequestOpt) error {
	opts = append(opts, client.OptReqHeader(headerRequestId, uuid.NewString()))
	if err := c.DoWithContext(ctx, payload, out, opts...); err != nil {
		return bfl.ErrUpstreamRequest.Wrap(err, op)
	}
	return nil
}
