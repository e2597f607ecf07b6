package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	config "github.com/mutablelogic/go-bfl/pkg/config"
	schema "github.com/mutablelogic/go-bfl/pkg/schema"
	version "github.com/mutablelogic/go-bfl/pkg/version"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// API
	API `embed:"" help:"API configuration"`

	// Output
	Output string `name:"output" short:"o" enum:"auto,json,yaml,table" default:"auto" help:"Output format (json, yaml, table), or auto for a table on a terminal and json otherwise"`

	// Tracing
	OtelEndpoint string `name:"otel-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" help:"OpenTelemetry collector endpoint for traces"`

	// Context
	ctx      context.Context
	tracer   trace.Tracer
	config   *config.Config
	execName string
}

type API struct {
	APIKey   string        `name:"api-key" env:"BFL_API_KEY" help:"BFL API key"`
	Endpoint string        `name:"endpoint" help:"API endpoint (default https://api.us1.bfl.ai/v1, or BFL_ENDPOINT)"`
	Timeout  time.Duration `name:"timeout" help:"Timeout for each API call (or BFL_TIMEOUT)"`
	Env      []string      `name:"env" help:"Files with environment variables" default:".env"`
}

type CLI struct {
	Globals

	// Fine-tuning
	FinetuneCommands

	// Inference
	InferenceCommands

	// Training data
	Archive ArchiveCommand `cmd:"" name:"archive" help:"Create a training archive from a directory of images and captions." group:"TRAINING DATA"`

	// Version
	Version VersionCommand `cmd:"" name:"version" help:"Print version information."`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("BFL fine-tuning and inference command line interface"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"trigger_word":  schema.DefaultTriggerWord,
			"mode":          string(schema.DefaultMode),
			"iterations":    formatUint(schema.DefaultIterations),
			"learning_rate": formatFloat(schema.DefaultLearningRate),
			"priority":      string(schema.DefaultPriority),
			"finetune_type": string(schema.DefaultFinetuneType),
			"lora_rank":     formatUint(schema.DefaultLoraRank),
			"strength":      formatFloat(schema.DefaultStrength),
			"endpoint":      schema.DefaultEndpoint,
		},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx
	cli.Globals.execName = cmd.Model.Name

	// Read the configuration
	if cfg, err := config.Load(cli.Env...); err != nil {
		cmd.FatalIfErrorf(err)
		return
	} else {
		cli.Globals.config = cfg
	}

	// Set up tracing
	tracer, shutdown, err := newTracer(ctx, cli.OtelEndpoint, version.Name)
	if err != nil {
		cmd.FatalIfErrorf(err)
		return
	}
	cli.Globals.tracer = tracer

	// Run the command, then flush any spans
	err = cmd.Run(&cli.Globals)
	if shutdown != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errors.Join(err, shutdown(flushCtx))
	}
	cmd.FatalIfErrorf(err)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}
