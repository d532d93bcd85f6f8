package formatting

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"modject/internal/app"
	"modject/internal/manifest"
)

func samplePlan() *app.Plan {
	return &app.Plan{
		File:    "app.yaml",
		Action:  app.ActionStart,
		Targets: []string{"api"},
		Steps: []app.PlanStep{
			{Step: 1, Action: app.ActionStart, EntryPoint: "database", Layer: "data", Slots: []string{"db.conn"}},
			{Step: 2, Action: app.ActionStart, EntryPoint: "api", Layer: "logic"},
		},
	}
}

func sampleReport() *app.CheckReport {
	return &app.CheckReport{
		File:   "app.yaml",
		Layers: []string{"data", "logic"},
		EntryPoints: []app.EntryPointSummary{
			{Name: "database", Layer: "data", Contributes: []string{"db.conn"}},
			{Name: "api", Layer: "logic", DependsOn: []string{"db.conn", "cache"}},
		},
		Unprovided: []app.UnprovidedSlot{{EntryPoint: "api", Slot: "cache"}},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: "JSON", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	assert.IsType(t, &TableFormatter{}, f.CreateFormatter(Options{}))
	assert.IsType(t, &JSONFormatter{}, f.CreateFormatter(Options{Format: FormatJSON}))
	assert.IsType(t, &YAMLFormatter{}, f.CreateFormatter(Options{Format: FormatYAML}))

	formatter := f.CreateFormatter(Options{Format: FormatTable})
	formatter.SetOptions(Options{Format: FormatTable, Color: true})
	assert.True(t, formatter.GetOptions().Color)
}

func TestTableFormatter_Plan(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(Options{Output: &buf})

	require.NoError(t, f.FormatPlan(samplePlan()))
	out := buf.String()
	assert.Contains(t, out, "Start plan for app.yaml: api")
	assert.Contains(t, out, "ENTRY POINT")
	assert.Contains(t, out, "database")
	assert.Contains(t, out, "db.conn")
	assert.NotContains(t, out, "Error:")
	assert.NotContains(t, out, "\x1b[", "no color codes unless enabled")
}

func TestTableFormatter_FailedPlan(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(Options{Output: &buf})

	plan := &app.Plan{File: "app.yaml", Action: app.ActionStop, Targets: []string{"ghost"},
		Error: "entry point ghost does not exist"}
	require.NoError(t, f.FormatPlan(plan))
	assert.Contains(t, buf.String(), "Stop plan for app.yaml: ghost")
	assert.Contains(t, buf.String(), "Nothing to do")
	assert.Contains(t, buf.String(), "Error: entry point ghost does not exist")
}

func TestTableFormatter_Check(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(Options{Output: &buf})

	require.NoError(t, f.FormatCheck(sampleReport()))
	out := buf.String()
	assert.Contains(t, out, "app.yaml is valid (2 entry points)")
	assert.Contains(t, out, "Layers: data → logic")
	assert.Contains(t, out, "Unprovided slots")
	assert.Contains(t, out, "cache")
	assert.NotContains(t, out, "Issues")
}

func TestTableFormatter_CheckIssues(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(Options{Output: &buf})

	report := &app.CheckReport{File: "app.yaml", Issues: []manifest.Issue{{
		File: "app.yaml", Category: manifest.CategorySchema, Path: "/entryPoints/0", Line: 2, Message: "missing property 'name'",
	}}}
	require.NoError(t, f.FormatCheck(report))
	out := buf.String()
	assert.Contains(t, out, "app.yaml has 1 issues")
	assert.Contains(t, out, "/entryPoints/0 (line 2)")
	assert.Contains(t, out, "missing property 'name'")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(Options{Output: &buf})

	require.NoError(t, f.FormatPlan(samplePlan()))
	var plan app.Plan
	require.NoError(t, json.Unmarshal(buf.Bytes(), &plan))
	assert.Equal(t, *samplePlan(), plan)

	buf.Reset()
	require.NoError(t, f.FormatCheck(sampleReport()))
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, true, report["valid"])
	assert.Equal(t, "app.yaml", report["file"])
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewYAMLFormatter(Options{Output: &buf})

	require.NoError(t, f.FormatCheck(sampleReport()))
	var report map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, true, report["valid"])
	assert.Equal(t, "app.yaml", report["file"])
	assert.Len(t, report["entryPoints"], 2)

	buf.Reset()
	require.NoError(t, f.FormatPlan(samplePlan()))
	assert.Contains(t, buf.String(), "action: start")
	assert.Contains(t, buf.String(), "entryPoint: database")
}
