package main

import (
	"os"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	schema "github.com/mutablelogic/go-bfl/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type FinetuneCommands struct {
	Finetune FinetuneCommand        `cmd:"" name:"finetune" help:"Submit a fine-tuning job." group:"FINE-TUNING"`
	Progress FinetuneProgressCommand `cmd:"" name:"progress" help:"Get the progress of a fine-tuning job." group:"FINE-TUNING"`
	List     ListFinetunesCommand    `cmd:"" name:"list" help:"List your fine-tunes." group:"FINE-TUNING"`
	Details  FinetuneDetailsCommand  `cmd:"" name:"details" help:"Get the parameters of a fine-tune." group:"FINE-TUNING"`
	Delete   DeleteFinetuneCommand   `cmd:"" name:"delete" help:"Delete a fine-tune." group:"FINE-TUNING"`
}

type FinetuneCommand struct {
	Archive      string  `arg:"" name:"zip" help:"Training archive (zip of images and captions)"`
	Comment      string  `arg:"" name:"comment" help:"Description of the fine-tune"`
	TriggerWord  string  `name:"trigger-word" help:"Word which refers to the subject in prompts" default:"${trigger_word}"`
	Mode         string  `name:"mode" help:"Captioning mode" enum:"character,product,style,general" default:"${mode}"`
	Iterations   uint    `name:"iterations" help:"Number of training iterations" default:"${iterations}"`
	LearningRate float64 `name:"learning-rate" help:"Learning rate" default:"${learning_rate}"`
	Captioning   bool    `name:"captioning" help:"Caption the images automatically" negatable:"" default:"true"`
	Priority     string  `name:"priority" help:"Training priority" enum:"speed,quality,high_res_only" default:"${priority}"`
	FinetuneType string  `name:"finetune-type" help:"Type of fine-tune" enum:"full,lora" default:"${finetune_type}"`
	LoraRank     uint    `name:"lora-rank" help:"Rank of the LoRA adapter" default:"${lora_rank}"`
}

type FinetuneProgressCommand struct {
	ID string `arg:"" name:"id" help:"Fine-tuning job identifier"`
}

type ListFinetunesCommand struct{}

type FinetuneDetailsCommand struct {
	ID string `arg:"" name:"id" help:"Fine-tune identifier"`
}

type DeleteFinetuneCommand struct {
	ID string `arg:"" name:"id" help:"Fine-tune identifier"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *FinetuneCommand) Run(ctx *Globals) (err error) {
	req := cmd.Request()

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "FinetuneCommand",
		attribute.String("archive", cmd.Archive),
		attribute.String("request", req.String()),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// Submit the job
	job, err := client.RequestFinetune(parent, cmd.Archive, req)
	if err != nil {
		return err
	}

	// Print
	return write(os.Stdout, ctx.format(), job)
}

// Request returns the fine-tune request for the flags
func (cmd *FinetuneCommand) Request() schema.FinetuneRequest {
	return schema.FinetuneRequest{
		Comment:      cmd.Comment,
		TriggerWord:  cmd.TriggerWord,
		Mode:         schema.Mode(cmd.Mode),
		Iterations:   cmd.Iterations,
		LearningRate: cmd.LearningRate,
		Captioning:   types.Ptr(cmd.Captioning),
		Priority:     schema.Priority(cmd.Priority),
		FinetuneType: schema.FinetuneType(cmd.FinetuneType),
		LoraRank:     cmd.LoraRank,
	}
}

func (cmd *FinetuneProgressCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "FinetuneProgressCommand",
		attribute.String("id", cmd.ID),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	result, err := client.FinetuneProgress(parent, cmd.ID)
	if err != nil {
		return err
	}

	// Print
	return write(os.Stdout, ctx.format(), result)
}

func (cmd *ListFinetunesCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ListFinetunesCommand")
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	list, err := client.ListFinetunes(parent)
	if err != nil {
		return err
	}

	// Print
	return write(os.Stdout, ctx.format(), list)
}

func (cmd *FinetuneDetailsCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "FinetuneDetailsCommand",
		attribute.String("id", cmd.ID),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	details, err := client.FinetuneDetails(parent, cmd.ID)
	if err != nil {
		return err
	}

	// Print
	return write(os.Stdout, ctx.format(), details)
}

func (cmd *DeleteFinetuneCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "DeleteFinetuneCommand",
		attribute.String("id", cmd.ID),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	confirmation, err := client.DeleteFinetune(parent, cmd.ID)
	if err != nil {
		return err
	}

	// Print
	return write(os.Stdout, ctx.format(), confirmation)
}
