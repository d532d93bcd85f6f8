// Package formatting renders check reports and plans for the CLI.
//
// Three output formats are supported: rich tables for terminals, and JSON or
// YAML for scripts. Every formatter writes to Options.Output.
package formatting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"modject/internal/app"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ParseFormat resolves a --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", s)
	}
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Output io.Writer // Defaults to os.Stdout
	Color  bool      // Enable colored output
}

func (o Options) writer() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}
	return o.Output
}

// Formatter renders command results
type Formatter interface {
	FormatCheck(report *app.CheckReport) error
	FormatPlan(plan *app.Plan) error

	// Configuration
	SetOptions(options Options)
	GetOptions() Options
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

// factory implements the Factory interface
type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}
