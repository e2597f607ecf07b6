package main

import (
	"os"

	// Packages
	client "github.com/mutablelogic/go-client"
	finetune "github.com/mutablelogic/go-bfl/pkg/finetune"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Client returns an API client configured from the environment and the
// global flags. Flags take precedence over the environment.
func (g *Globals) Client() (*finetune.Client, error) {
	apiKey, err := g.config.Credential(g.APIKey)
	if err != nil {
		return nil, err
	}
	return finetune.New(apiKey, g.clientOpts()...)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (g *Globals) clientOpts() []client.ClientOpt {
	opts := g.config.ClientOpts()
	if g.Endpoint != "" {
		opts = append(opts, client.OptEndpoint(g.Endpoint))
	}
	if g.Timeout > 0 {
		opts = append(opts, client.OptTimeout(g.Timeout))
	}
	if g.Debug || g.Verbose {
		opts = append(opts, client.OptTrace(os.Stderr, g.Verbose))
	}
	if g.tracer != nil {
		opts = append(opts, client.OptTracer(g.tracer))
	}
	return opts
}
