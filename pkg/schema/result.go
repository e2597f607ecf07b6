package schema

import (
	"encoding/json"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Status of a remote fine-tune or inference job
type Status string

// Job is returned when a fine-tune or inference job is submitted. Fields
// other than those named are kept in Extra.
type Job struct {
	ID         string         `json:"id,omitempty"`
	FinetuneID string         `json:"finetune_id,omitempty"`
	Status     Status         `json:"status,omitempty"`
	PollingURL string         `json:"polling_url,omitempty"`
	Extra      map[string]any `json:"-"`
}

// Result is a snapshot of a job, as returned by get_result. Result and
// Progress are null until the remote side reports them.
type Result struct {
	ID       string         `json:"id"`
	Status   Status         `json:"status"`
	Result   map[string]any `json:"result"`
	Progress *float64       `json:"progress"`
	Details  map[string]any `json:"details,omitempty"`
}

// FinetuneList is the set of fine-tunes owned by the caller
type FinetuneList struct {
	Finetunes []string `json:"finetunes"`
}

// FinetuneDetails is the metadata of a fine-tune, returned unchanged
type FinetuneDetails struct {
	Details map[string]any `json:"finetune_details"`
}

// Confirmation is the response to a deletion, returned unchanged
type Confirmation map[string]any

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	StatusPending          Status = "Pending"
	StatusReady            Status = "Ready"
	StatusError            Status = "Error"
	StatusTaskNotFound     Status = "Task not found"
	StatusRequestModerated Status = "Request Moderated"
	StatusContentModerated Status = "Content Moderated"
)

const (
	resultSample = "sample"
	resultPrompt = "prompt"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Identifier returns the job identifier, which the fine-tune submission
// reports as finetune_id and inference as id
func (j Job) Identifier() string {
	if j.ID != "" {
		return j.ID
	}
	return j.FinetuneID
}

// Sample returns the result URL, or empty string if there is none yet
func (r Result) Sample() string {
	if v, ok := r.Result[resultSample].(string); ok {
		return v
	}
	return ""
}

// Prompt returns the prompt echoed in the result, if any
func (r Result) Prompt() string {
	if v, ok := r.Result[resultPrompt].(string); ok {
		return v
	}
	return ""
}

////////////////////////////////////////////////////////////////////////////////
// JSON

// UnmarshalJSON decodes a job, keeping any unknown fields in Extra
func (j *Job) UnmarshalJSON(data []byte) error {
	type job Job
	var v job
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, key := range []string{"id", "finetune_id", "status", "polling_url"} {
		delete(fields, key)
	}
	if len(fields) > 0 {
		v.Extra = fields
	}
	*j = Job(v)
	return nil
}

// MarshalJSON encodes a job with the fields of Extra alongside the named ones
func (j Job) MarshalJSON() ([]byte, error) {
	type job Job
	data, err := json.Marshal(job(j))
	if err != nil || len(j.Extra) == 0 {
		return data, err
	}
	fields := make(map[string]any, len(j.Extra)+4)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for key, value := range j.Extra {
		if _, exists := fields[key]; !exists {
			fields[key] = value
		}
	}
	return json.Marshal(fields)
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (j Job) String() string {
	return Stringify(j)
}

func (r Result) String() string {
	return Stringify(r)
}

func (l FinetuneList) String() string {
	return Stringify(l)
}

func (d FinetuneDetails) String() string {
	return Stringify(d)
}
