package formatting

import (
	"fmt"

	"modject/internal/app"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatCheck writes the report as indented JSON.
func (f *JSONFormatter) FormatCheck(report *app.CheckReport) error {
	return f.write(struct {
		*app.CheckReport
		Valid bool `json:"valid"`
	}{report, report.OK()})
}

// FormatPlan writes the plan as indented JSON.
func (f *JSONFormatter) FormatPlan(plan *app.Plan) error {
	return f.write(plan)
}

func (f *JSONFormatter) write(v interface{}) error {
	_, err := fmt.Fprintln(f.options.writer(), PrettyJSON(v))
	return err
}

// SetOptions updates the formatter options
func (f *JSONFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *JSONFormatter) GetOptions() Options {
	return f.options
}
