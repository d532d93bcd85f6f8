package formatting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"modject/internal/app"
	"modject/internal/manifest"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatCheck renders the registered entry points, unprovided slots and
// issues of a check.
func (f *TableFormatter) FormatCheck(report *app.CheckReport) error {
	w := f.options.writer()

	if report.OK() {
		fmt.Fprintf(w, "%s %s is valid (%d entry points)\n",
			f.color(text.FgGreen, "✓"), report.File, len(report.EntryPoints))
	} else {
		fmt.Fprintf(w, "%s %s has %d issues\n",
			f.color(text.FgRed, "✗"), report.File, len(report.Issues))
	}
	if len(report.Layers) > 0 {
		fmt.Fprintf(w, "Layers: %s\n", strings.Join(report.Layers, " → "))
	}

	if len(report.EntryPoints) > 0 {
		t := f.createTable(w)
		t.SetTitle("Entry points")
		t.AppendHeader(f.header("Name", "Layer", "Contributes", "Depends on", "Description"))
		for _, ep := range report.EntryPoints {
			t.AppendRow(table.Row{
				f.color(text.FgHiCyan, ep.Name),
				orDash(ep.Layer),
				orDash(strings.Join(ep.Contributes, ", ")),
				orDash(strings.Join(ep.DependsOn, ", ")),
				orDash(TruncateDescription(ep.Description, DefaultDescriptionMaxLen)),
			})
		}
		t.Render()
	}

	if len(report.Unprovided) > 0 {
		t := f.createTable(w)
		t.SetTitle("Unprovided slots")
		t.AppendHeader(f.header("Entry point", "Slot"))
		for _, u := range report.Unprovided {
			t.AppendRow(table.Row{u.EntryPoint, f.color(text.FgYellow, u.Slot)})
		}
		t.Render()
	}

	if len(report.Issues) > 0 {
		t := f.createTable(w)
		t.SetTitle("Issues")
		t.AppendHeader(f.header("Category", "Path", "Message"))
		for _, issue := range report.Issues {
			t.AppendRow(table.Row{
				f.color(text.FgRed, issue.Category),
				location(issue),
				issue.Message,
			})
		}
		t.Render()
	}
	return nil
}

// FormatPlan renders the steps of a plan, followed by the failure if the
// pass did not complete.
func (f *TableFormatter) FormatPlan(plan *app.Plan) error {
	w := f.options.writer()

	fmt.Fprintf(w, "%s plan for %s: %s\n",
		cases.Title(language.English).String(plan.Action), plan.File, strings.Join(plan.Targets, ", "))

	if len(plan.Steps) == 0 {
		fmt.Fprintln(w, f.formatEmptyMessage("Nothing to do"))
	} else {
		t := f.createTable(w)
		t.AppendHeader(f.header("#", "Action", "Entry point", "Layer", "Slots"))
		for _, step := range plan.Steps {
			t.AppendRow(table.Row{
				step.Step,
				step.Action,
				f.color(text.FgHiCyan, step.EntryPoint),
				orDash(step.Layer),
				orDash(strings.Join(step.Slots, ", ")),
			})
		}
		t.AppendFooter(table.Row{"", "", "Total", "", len(plan.Steps)})
		t.Render()
	}

	if plan.Failed() {
		fmt.Fprintf(w, "%s %s\n", f.color(text.FgRed, "Error:"), plan.Error)
	}
	return nil
}

// SetOptions updates the formatter options
func (f *TableFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *TableFormatter) GetOptions() Options {
	return f.options
}

// Helper methods

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) header(titles ...string) table.Row {
	row := make(table.Row, 0, len(titles))
	for _, title := range titles {
		row = append(row, f.color(text.FgHiCyan, strings.ToUpper(title)))
	}
	return row
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(message string) string {
	return f.color(text.FgYellow, message)
}

func (f *TableFormatter) color(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}

// location renders where an issue was found, e.g. "/entryPoints/0 (line 4)".
func location(issue manifest.Issue) string {
	if issue.Line > 0 {
		return fmt.Sprintf("%s (line %d)", orDash(issue.Path), issue.Line)
	}
	return orDash(issue.Path)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
