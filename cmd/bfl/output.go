package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"

	// Packages
	schema "github.com/mutablelogic/go-bfl/pkg/schema"
	tablewriter "github.com/olekukonko/tablewriter"
	term "golang.org/x/term"
	yaml "gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	outputAuto  = "auto"
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// format returns the output format, which for auto is a table when writing
// to a terminal and JSON otherwise
func (g *Globals) format() string {
	if g.Output != outputAuto && g.Output != "" {
		return g.Output
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return outputTable
	}
	return outputJSON
}

// write a response in the selected output format
func write(w io.Writer, format string, v any) error {
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toGeneric(v)); err != nil {
			return err
		}
		return enc.Close()
	case outputTable:
		headers, rows := tabulate(v)
		table := tablewriter.NewWriter(w)
		table.Header(headers)
		if err := table.Bulk(rows); err != nil {
			return err
		}
		return table.Render()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// tabulate returns a header and rows for a response. A list of fine-tunes is
// one row per fine-tune; anything else is one row per top-level field.
func tabulate(v any) ([]string, [][]string) {
	if list, ok := v.(*schema.FinetuneList); ok {
		rows := make([][]string, 0, len(list.Finetunes))
		for _, id := range list.Finetunes {
			rows = append(rows, []string{id})
		}
		return []string{"Finetune"}, rows
	}

	var rows [][]string
	switch generic := toGeneric(v).(type) {
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(generic)) {
			if generic[key] == nil {
				continue
			}
			rows = append(rows, []string{key, cell(generic[key])})
		}
	default:
		rows = append(rows, []string{"value", cell(generic)})
	}
	return []string{"Field", "Value"}, rows
}

// toGeneric converts a response into maps and slices following its JSON
// field names, so every output format uses the same keys
func toGeneric(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return v
	}
	return generic
}

// cell renders a value for a table cell
func cell(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprint(v)
}

func formatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
