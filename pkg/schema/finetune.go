package schema

import (
	"slices"

	// Packages
	bfl "github.com/mutablelogic/go-bfl"
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Mode sets how the training images are captioned
type Mode string

// Priority trades training speed against quality
type Priority string

// FinetuneType selects full fine-tuning or a LoRA adapter
type FinetuneType string

// FinetuneRequest is the body of a fine-tune submission. Zero values are
// replaced by the defaults when the request is prepared.
type FinetuneRequest struct {
	Comment      string       `json:"finetune_comment"`
	TriggerWord  string       `json:"trigger_word"`
	Mode         Mode         `json:"mode"`
	Iterations   uint         `json:"iterations"`
	LearningRate float64      `json:"learning_rate"`
	Captioning   *bool        `json:"captioning"`
	Priority     Priority     `json:"priority"`
	FinetuneType FinetuneType `json:"finetune_type"`
	LoraRank     uint         `json:"lora_rank"`
	FileData     string       `json:"file_data,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ModeCharacter Mode = "character"
	ModeProduct   Mode = "product"
	ModeStyle     Mode = "style"
	ModeGeneral   Mode = "general"
)

const (
	PrioritySpeed       Priority = "speed"
	PriorityQuality     Priority = "quality"
	PriorityHighResOnly Priority = "high_res_only"
)

const (
	FinetuneFull FinetuneType = "full"
	FinetuneLora FinetuneType = "lora"
)

const (
	DefaultTriggerWord  = "TOK"
	DefaultMode         = ModeStyle
	DefaultIterations   = 500
	DefaultLearningRate = 0.00001
	DefaultPriority     = PriorityQuality
	DefaultFinetuneType = FinetuneFull
	DefaultLoraRank     = 32
)

var (
	Modes         = []Mode{ModeCharacter, ModeProduct, ModeStyle, ModeGeneral}
	Priorities    = []Priority{PrioritySpeed, PriorityQuality, PriorityHighResOnly}
	FinetuneTypes = []FinetuneType{FinetuneFull, FinetuneLora}
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithDefaults returns a copy of the request with zero values replaced
func (r FinetuneRequest) WithDefaults() FinetuneRequest {
	if r.TriggerWord == "" {
		r.TriggerWord = DefaultTriggerWord
	}
	if r.Mode == "" {
		r.Mode = DefaultMode
	}
	if r.Iterations == 0 {
		r.Iterations = DefaultIterations
	}
	if r.LearningRate == 0 {
		r.LearningRate = DefaultLearningRate
	}
	if r.Captioning == nil {
		r.Captioning = types.Ptr(true)
	}
	if r.Priority == "" {
		r.Priority = DefaultPriority
	}
	if r.FinetuneType == "" {
		r.FinetuneType = DefaultFinetuneType
	}
	if r.LoraRank == 0 {
		r.LoraRank = DefaultLoraRank
	}
	return r
}

// Validate checks the enumerated fields. Empty values are accepted, as
// they are replaced by defaults.
func (r FinetuneRequest) Validate() error {
	if r.Mode != "" && !slices.Contains(Modes, r.Mode) {
		return bfl.ErrInvalidArgument.Withf("mode %q (expected one of %v)", r.Mode, Modes)
	}
	if r.Priority != "" && !slices.Contains(Priorities, r.Priority) {
		return bfl.ErrInvalidArgument.Withf("priority %q (expected one of %v)", r.Priority, Priorities)
	}
	if r.FinetuneType != "" && !slices.Contains(FinetuneTypes, r.FinetuneType) {
		return bfl.ErrInvalidArgument.Withf("finetune type %q (expected one of %v)", r.FinetuneType, FinetuneTypes)
	}
	if r.LearningRate < 0 {
		return bfl.ErrInvalidArgument.Withf("learning rate %v", r.LearningRate)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r FinetuneRequest) String() string {
	// Elide the archive data
	if r.FileData != "" {
		r.FileData = "..."
	}
	return Stringify(r)
}
