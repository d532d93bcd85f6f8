package app

import (
	"fmt"
	"os"

	"modject/internal/dependency"
	"modject/internal/manifest"
	"modject/pkg/entrypoint"
	"modject/pkg/logging"
	"modject/pkg/orchestrator"
)

// Check validates the manifest at path against the schema, registers its
// entry points and builds the dependency tree, collecting every problem into
// the report. The error return is for files that cannot be read.
func (a *Application) Check(path string) (*CheckReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	report := &CheckReport{File: path}
	var issues manifest.IssueCollection
	defer func() { report.Issues = issues.Issues }()

	m, ok := a.validate(path, data, &issues)
	if !ok {
		return report, nil
	}
	report.Layers = m.Layers

	o := orchestrator.New(orchestrator.WithTracer(a.tracing.Tracer()))
	if len(m.Layers) > 0 {
		if err := o.DefineLayers(m.Layers); err != nil {
			issues.AddError(path, manifest.CategoryRegistration, err)
			return report, nil
		}
	}

	// One entry point per batch so that every registration error surfaces.
	for _, ep := range m.EntryPoints() {
		if err := o.AddEntryPoints([]entrypoint.EntryPoint{ep}); err != nil {
			issues.AddError(path, manifest.CategoryRegistration, err)
		}
	}

	descriptions := make(map[string]string, len(m.EntryPoints))
	for _, spec := range m.EntryPoints {
		descriptions[spec.Name] = spec.Description
	}

	eps := o.GetEntryPoints()
	for _, ep := range eps {
		report.EntryPoints = append(report.EntryPoints, EntryPointSummary{
			Name:        ep.Name,
			Layer:       ep.Layer,
			Description: descriptions[ep.Name],
			Contributes: slotNames(ep.Contributes),
			DependsOn:   slotNames(ep.DependsOn),
		})
	}

	tree, err := dependency.Build(eps)
	if err != nil {
		issues.AddError(path, manifest.CategoryGraph, err)
		return report, nil
	}
	for _, ep := range eps {
		for _, dep := range ep.DependsOn {
			if _, ok := tree.Contributor(dep.Name); !ok {
				report.Unprovided = append(report.Unprovided, UnprovidedSlot{EntryPoint: ep.Name, Slot: dep.Name})
			}
		}
	}

	if issues.HasErrors() {
		logging.Warn("Check", "%s has %d issues", path, issues.Count())
	} else {
		logging.Info("Check", "%s is valid: %d entry points, %d unprovided slots", path, len(eps), len(report.Unprovided))
	}
	return report, nil
}

// validate runs the schema and lint checks and parses the manifest. It
// returns false when the document is too broken to register.
func (a *Application) validate(path string, data []byte, issues *manifest.IssueCollection) (*manifest.Manifest, bool) {
	result, err := manifest.Validate(data)
	if err != nil {
		issues.AddError(path, manifest.CategoryParse, err)
		return nil, false
	}
	if !result.Valid {
		issues.AddValidation(path, manifest.CategorySchema, result.Issues)
		return nil, false
	}

	m, err := manifest.Parse(data)
	if err != nil {
		issues.AddError(path, manifest.CategoryParse, err)
		return nil, false
	}
	m.Path = path

	issues.AddValidation(path, manifest.CategoryLint, m.Lint())
	return m, true
}

// Load reads, validates and parses the manifest at path. Any schema or lint
// issue fails the load with a manifest.IssueCollection.
func (a *Application) Load(path string) (*manifest.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var issues manifest.IssueCollection
	m, _ := a.validate(path, data, &issues)
	if err := issues.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func slotNames(keys []entrypoint.SlotKey) []string {
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, key.Name)
	}
	return names
}
