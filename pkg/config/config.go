/*
config holds the settings which are shared by every call to the API:
the credential, the endpoint and the request timeout. Settings are read
once, from optional dotenv files and then the process environment, which
takes precedence.
*/
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	// Packages
	godotenv "github.com/joho/godotenv"
	client "github.com/mutablelogic/go-client"
	bfl "github.com/mutablelogic/go-bfl"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Config struct {
	APIKey   string        `json:"-" yaml:"-"`
	Endpoint string        `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	EnvAPIKey   = "BFL_API_KEY"
	EnvEndpoint = "BFL_ENDPOINT"
	EnvTimeout  = "BFL_TIMEOUT"
)

const (
	DefaultFile = ".env"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Load reads the dotenv files in order, then the environment. When no files
// are given, .env in the working directory is read. Missing files are
// ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{DefaultFile}
	}

	// Later files replace earlier ones
	values := make(map[string]string)
	for _, file := range files {
		env, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, bfl.ErrInvalidArgument.Withf("%s: %v", file, err)
		}
		for k, v := range env {
			values[k] = v
		}
	}

	// The environment replaces any file
	for _, key := range []string{EnvAPIKey, EnvEndpoint, EnvTimeout} {
		if v, exists := os.LookupEnv(key); exists {
			values[key] = v
		}
	}

	return New(values)
}

// New returns a configuration from a set of key-value pairs
func New(values map[string]string) (*Config, error) {
	config := &Config{
		APIKey:   strings.TrimSpace(values[EnvAPIKey]),
		Endpoint: strings.TrimSpace(values[EnvEndpoint]),
	}
	if timeout := strings.TrimSpace(values[EnvTimeout]); timeout != "" {
		if d, err := time.ParseDuration(timeout); err != nil {
			return nil, bfl.ErrInvalidArgument.Withf("%s: %v", EnvTimeout, err)
		} else if d < 0 {
			return nil, bfl.ErrInvalidArgument.Withf("%s: negative duration", EnvTimeout)
		} else {
			config.Timeout = d
		}
	}
	return config, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Credential returns the explicit key when not empty, otherwise the
// configured key
func (c *Config) Credential(explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit, nil
	}
	if c != nil && c.APIKey != "" {
		return c.APIKey, nil
	}
	return "", bfl.ErrMissingCredential.With("provide an API key or set ", EnvAPIKey)
}

// ClientOpts returns the client options for the configured endpoint and
// timeout
func (c *Config) ClientOpts() []client.ClientOpt {
	var opts []client.ClientOpt
	if c == nil {
		return opts
	}
	if c.Endpoint != "" {
		opts = append(opts, client.OptEndpoint(c.Endpoint))
	}
	if c.Timeout > 0 {
		opts = append(opts, client.OptTimeout(c.Timeout))
	}
	return opts
}
