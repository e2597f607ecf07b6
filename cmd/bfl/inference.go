package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	// Packages
	bfl "github.com/mutablelogic/go-bfl"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	finetune "github.com/mutablelogic/go-bfl/pkg/finetune"
	opt "github.com/mutablelogic/go-bfl/pkg/opt"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type InferenceCommands struct {
	Inference InferenceCommand `cmd:"" name:"inference" help:"Generate an image with a fine-tuned model." group:"INFERENCE"`
	Result    ResultCommand    `cmd:"" name:"result" help:"Get the result of an inference job." group:"INFERENCE"`
}

type InferenceCommand struct {
	ID       string            `arg:"" name:"id" help:"Fine-tune identifier"`
	Prompt   string            `name:"prompt" short:"p" help:"Text prompt, which should include the trigger word"`
	Strength float64           `name:"strength" help:"Fine-tune strength" default:"${strength}"`
	Endpoint string            `name:"model" help:"Inference endpoint" default:"${endpoint}"`
	Params   map[string]string `name:"param" help:"Model parameter as key=value, values which are valid JSON are passed as numbers, booleans or objects"`
}

type ResultCommand struct {
	ID       string `arg:"" name:"id" help:"Inference job identifier"`
	Download string `name:"download" help:"Write the sample image to a file when the result is ready" type:"path"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *InferenceCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "InferenceCommand",
		attribute.String("id", cmd.ID),
		attribute.String("endpoint", cmd.Endpoint),
		attribute.Float64("strength", cmd.Strength),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	opts, err := cmd.Opts()
	if err != nil {
		return err
	}
	job, err := client.Inference(parent, cmd.ID, opts...)
	if err != nil {
		return err
	}

	// Print
	return write(os.Stdout, ctx.format(), job)
}

// Opts returns the inference options for the flags
func (cmd *InferenceCommand) Opts() ([]opt.Opt, error) {
	opts := []opt.Opt{
		finetune.WithStrength(cmd.Strength),
		finetune.WithEndpoint(cmd.Endpoint),
	}
	if cmd.Prompt != "" {
		opts = append(opts, finetune.WithPrompt(cmd.Prompt))
	}
	for key, value := range cmd.Params {
		v, err := paramValue(value)
		if err != nil {
			return nil, bfl.ErrInvalidArgument.Withf("parameter %q: %v", key, err)
		}
		opts = append(opts, finetune.WithParam(key, v))
	}
	return opts, nil
}

func (cmd *ResultCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ResultCommand",
		attribute.String("id", cmd.ID),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	result, err := client.GetInference(parent, cmd.ID)
	if err != nil {
		return err
	}

	// Download the sample
	if cmd.Download != "" {
		path, err := client.Download(parent, result, cmd.Download)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Downloaded", path)
	}

	// Print
	return write(os.Stdout, ctx.format(), result)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// paramValue decodes a parameter value as JSON, or returns it as a string.
// A null value is rejected, as it cannot be sent as a parameter.
func paramValue(value string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		return value, nil
	} else if v == nil {
		return nil, errors.New("null is not a value")
	}
	return v, nil
}
