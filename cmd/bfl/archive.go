package main

import (
	"os"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	archive "github.com/mutablelogic/go-bfl/pkg/archive"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ArchiveCommand struct {
	Dir     string `arg:"" name:"dir" help:"Directory of images (jpg, png, webp) and captions (txt)" type:"path"`
	Zip     string `arg:"" name:"zip" help:"Archive to create" type:"path"`
	MaxSize uint   `name:"max-size" help:"Scale down images larger than this many pixels on either side (0 keeps the original size)" default:"0"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ArchiveCommand) Run(ctx *Globals) (err error) {
	// OTEL
	_, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ArchiveCommand",
		attribute.String("dir", cmd.Dir),
		attribute.String("zip", cmd.Zip),
		attribute.Int("max_size", int(cmd.MaxSize)),
	)
	defer func() { endSpan(err) }()

	manifest, err := archive.CreateFile(cmd.Zip, cmd.Dir, archive.WithMaxSize(cmd.MaxSize))
	if err != nil {
		return err
	}

	// Print
	return write(os.Stdout, ctx.format(), manifest)
}
