// Package output prints command results to stdout in the selected format.
// Every command emits exactly one result struct per invocation; status lines
// go to stderr (internal/console) so this stream stays machine-parseable.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format selects how results are rendered.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat maps a --format flag value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use yaml or json)", s)
	}
}

// OutputFormat is the current output format, set by the root command's
// --format flag.
var OutputFormat = FormatYAML

// PrettyOutput indents JSON output.
var PrettyOutput bool

// Stdout is the destination for results, swapped out in tests.
var Stdout io.Writer = os.Stdout

// Print renders one command result to Stdout in the current format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatYAML:
		return printYAML(Stdout, v)
	case FormatJSON:
		return printJSON(Stdout, v, PrettyOutput)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

func printYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

func printJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
