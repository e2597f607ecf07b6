package main

import (
	"os"

	// Packages
	version "github.com/mutablelogic/go-bfl/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *VersionCommand) Run(ctx *Globals) error {
	return write(os.Stdout, ctx.format(), version.Build(ctx.execName))
}
