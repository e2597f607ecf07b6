package schema

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"unicode"

	// Packages
	bfl "github.com/mutablelogic/go-bfl"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// InferenceRequest is a request to generate an image with a fine-tuned model.
// The endpoint selects the request path and is not part of the body. Params
// are model-specific values (prompt, aspect_ratio, seed, ...) merged into
// the body as-is.
type InferenceRequest struct {
	FinetuneID string         `json:"finetune_id"`
	Strength   float64        `json:"finetune_strength"`
	Endpoint   string         `json:"-"`
	Params     map[string]any `json:"-"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultStrength = 1.2
	DefaultEndpoint = "flux-pro-1.1-ultra-finetuned"
)

const (
	keyFinetuneID = "finetune_id"
	keyStrength   = "finetune_strength"
)

// Keys which cannot be set through Params
var ReservedInferenceKeys = []string{keyFinetuneID, keyStrength}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewInferenceRequest returns a request with the default strength and endpoint
func NewInferenceRequest(finetuneId string) InferenceRequest {
	return InferenceRequest{
		FinetuneID: finetuneId,
		Strength:   DefaultStrength,
		Endpoint:   DefaultEndpoint,
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate checks the identifier, endpoint and that no parameter collides
// with a reserved key
func (r InferenceRequest) Validate() error {
	if r.FinetuneID == "" {
		return bfl.ErrInvalidArgument.With("missing finetune id")
	}
	if r.Endpoint == "" {
		return bfl.ErrInvalidArgument.With("missing endpoint")
	} else if !IsEndpointName(r.Endpoint) {
		return bfl.ErrInvalidArgument.Withf("invalid endpoint %q", r.Endpoint)
	}
	for _, key := range slices.Sorted(maps.Keys(r.Params)) {
		if slices.Contains(ReservedInferenceKeys, key) {
			return bfl.ErrInvalidArgument.Withf("parameter %q is reserved", key)
		}
	}
	return nil
}

// MarshalJSON flattens the parameters into the body alongside the
// fine-tune identifier and strength
func (r InferenceRequest) MarshalJSON() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	body := make(map[string]any, len(r.Params)+2)
	maps.Copy(body, r.Params)
	body[keyFinetuneID] = r.FinetuneID
	body[keyStrength] = r.Strength
	return json.Marshal(body)
}

// IsEndpointName returns true if the string can be used as an inference
// endpoint: a single path segment of letters, digits, dots, hyphens and
// underscores, which starts with a letter or digit
func IsEndpointName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("._-", r) {
			return false
		}
	}
	return true
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r InferenceRequest) String() string {
	type j struct {
		Endpoint string         `json:"endpoint"`
		Body     map[string]any `json:"body"`
	}
	body := make(map[string]any, len(r.Params)+2)
	maps.Copy(body, r.Params)
	body[keyFinetuneID] = r.FinetuneID
	body[keyStrength] = r.Strength
	return Stringify(j{r.Endpoint, body})
}
