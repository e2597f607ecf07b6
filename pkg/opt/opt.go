package opt

import (
	"fmt"
	"maps"
	"net/url"
	"strconv"
	"strings"

	// Packages
	bfl "github.com/mutablelogic/go-bfl"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// A generic option type, which can set options on a request
type Opt func(*opts) error

// set of options
type opts struct {
	url.Values
	params map[string]any
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Apply returns a structure of applied options
func Apply(o ...Opt) (*opts, error) {
	opts := &opts{Values: make(url.Values), params: make(map[string]any)}
	for _, opt := range o {
		if err := opt(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetString returns the trimmed value for key, or empty string if not set
func (o *opts) GetString(key string) string {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// GetBool returns true if key is present, false if absent
func (o *opts) GetBool(key string) bool {
	_, ok := o.Values[key]
	return ok
}

// GetFloat64 returns the float64 value for key, or 0 if not set or invalid
func (o *opts) GetFloat64(key string) float64 {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64); err == nil {
			return v
		}
	}
	return 0
}

// GetUint returns the uint value for key, or 0 if not set or invalid
func (o *opts) GetUint(key string) uint {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseUint(strings.TrimSpace(values[0]), 10, 64); err == nil {
			return uint(v)
		}
	}
	return 0
}

// Has returns true if the key exists
func (o *opts) Has(key string) bool {
	_, ok := o.Values[key]
	return ok
}

// Params returns a copy of the pass-through parameters, or nil if none
// were set
func (o *opts) Params() map[string]any {
	if len(o.params) == 0 {
		return nil
	}
	return maps.Clone(o.params)
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// Error returns an option that always returns an error
func Error(err error) Opt {
	return func(o *opts) error {
		return err
	}
}

// WithOpts combines multiple options into a single option
func WithOpts(options ...Opt) Opt {
	return func(o *opts) error {
		for _, opt := range options {
			if err := opt(o); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithString replaces the value for key
func WithString(key string, value string) Opt {
	return func(o *opts) error {
		o.Values.Set(key, value)
		return nil
	}
}

func WithUint(key string, value uint) Opt {
	return func(o *opts) error {
		o.Values.Set(key, fmt.Sprintf("%d", value))
		return nil
	}
}

func WithFloat64(key string, value float64) Opt {
	return func(o *opts) error {
		o.Values.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
		return nil
	}
}

// WithBool sets key when value is true, and removes it otherwise
func WithBool(key string, value bool) Opt {
	return func(o *opts) error {
		if value {
			o.Values.Set(key, "true")
		} else {
			o.Values.Del(key)
		}
		return nil
	}
}

// WithParam sets a pass-through parameter, which can be any value that
// can be encoded as JSON. A nil value removes the parameter.
func WithParam(key string, value any) Opt {
	return func(o *opts) error {
		if key == "" {
			return bfl.ErrInvalidArgument.With("empty parameter name")
		}
		if value == nil {
			delete(o.params, key)
		} else {
			o.params[key] = value
		}
		return nil
	}
}
