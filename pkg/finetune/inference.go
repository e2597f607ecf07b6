package finetune

import (
	"context"

	// Packages
	client "github.com/mutablelogic/go-client"
	opt "github.com/mutablelogic/go-bfl/pkg/opt"
	schema "github.com/mutablelogic/go-bfl/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	optStrength = "strength"
	optEndpoint = "endpoint"
)

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithStrength sets the fine-tune strength, which defaults to 1.2
func WithStrength(v float64) opt.Opt {
	return opt.WithFloat64(optStrength, v)
}

// WithEndpoint sets the inference endpoint, which defaults to
// flux-pro-1.1-ultra-finetuned
func WithEndpoint(v string) opt.Opt {
	return opt.WithString(optEndpoint, v)
}

// WithPrompt sets the text prompt
func WithPrompt(v string) opt.Opt {
	return opt.WithParam("prompt", v)
}

// WithParam sets a model-specific parameter which is passed in the request
// body as-is
func WithParam(key string, value any) opt.Opt {
	return opt.WithParam(key, value)
}

// WithParams sets a number of model-specific parameters
func WithParams(params map[string]any) opt.Opt {
	opts := make([]opt.Opt, 0, len(params))
	for key, value := range params {
		opts = append(opts, opt.WithParam(key, value))
	}
	return opt.WithOpts(opts...)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// NewInferenceRequest returns the request which Inference sends for the
// given fine-tune and options
func NewInferenceRequest(id string, opts ...opt.Opt) (schema.InferenceRequest, error) {
	o, err := opt.Apply(opts...)
	if err != nil {
		return schema.InferenceRequest{}, err
	}

	req := schema.NewInferenceRequest(id)
	if o.Has(optStrength) {
		req.Strength = o.GetFloat64(optStrength)
	}
	if endpoint := o.GetString(optEndpoint); endpoint != "" {
		req.Endpoint = endpoint
	}
	req.Params = o.Params()

	// Reject empty identifiers and reserved parameters
	if err := req.Validate(); err != nil {
		return schema.InferenceRequest{}, err
	}

	return req, nil
}

// Inference requests an image from a fine-tuned model. The returned job is
// polled with GetInference.
func (c *Client) Inference(ctx context.Context, id string, opts ...opt.Opt) (*schema.Job, error) {
	req, err := NewInferenceRequest(id, opts...)
	if err != nil {
		return nil, err
	}

	payload, err := client.NewJSONRequest(req)
	if err != nil {
		return nil, err
	}

	// Request -> Response
	var response schema.Job
	if err := c.do(ctx, "finetune inference", payload, &response, client.OptPath(req.Endpoint)); err != nil {
		return nil, err
	}

	// Return success
	return &response, nil
}

// GetInference returns the current state of an inference job. When ready,
// the result holds the sample URL and the prompt.
func (c *Client) GetInference(ctx context.Context, id string) (*schema.Result, error) {
	return c.getResult(ctx, "inference retrieval", id)
}
