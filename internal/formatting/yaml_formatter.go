package formatting

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"modject/internal/app"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

// FormatCheck writes the report as YAML.
func (f *YAMLFormatter) FormatCheck(report *app.CheckReport) error {
	return f.write(struct {
		Valid           bool `yaml:"valid"`
		app.CheckReport `yaml:",inline"`
	}{report.OK(), *report})
}

// FormatPlan writes the plan as YAML.
func (f *YAMLFormatter) FormatPlan(plan *app.Plan) error {
	return f.write(plan)
}

func (f *YAMLFormatter) write(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = f.options.writer().Write(out)
	return err
}

// SetOptions updates the formatter options
func (f *YAMLFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *YAMLFormatter) GetOptions() Options {
	return f.options
}
