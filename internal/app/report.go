package app

import (
	"modject/internal/manifest"
)

// EntryPointSummary describes one registered entry point.
type EntryPointSummary struct {
	Name        string   `json:"name" yaml:"name"`
	Layer       string   `json:"layer,omitempty" yaml:"layer,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Contributes []string `json:"contributes,omitempty" yaml:"contributes,omitempty"`
	DependsOn   []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// UnprovidedSlot is a dependency that no entry point contributes. The entry
// point depending on it can never start.
type UnprovidedSlot struct {
	EntryPoint string `json:"entryPoint" yaml:"entryPoint"`
	Slot       string `json:"slot" yaml:"slot"`
}

// CheckReport is the outcome of Check.
type CheckReport struct {
	File        string              `json:"file" yaml:"file"`
	Layers      []string            `json:"layers,omitempty" yaml:"layers,omitempty"`
	EntryPoints []EntryPointSummary `json:"entryPoints" yaml:"entryPoints"`
	Unprovided  []UnprovidedSlot    `json:"unprovided,omitempty" yaml:"unprovided,omitempty"`
	Issues      []manifest.Issue    `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// OK reports whether the manifest passed every check. Unprovided slots are
// warnings and do not fail a check.
func (r *CheckReport) OK() bool {
	return len(r.Issues) == 0
}

// PlanStep is one activation or deactivation in a plan.
type PlanStep struct {
	Step       int      `json:"step" yaml:"step"`
	Action     string   `json:"action" yaml:"action"`
	EntryPoint string   `json:"entryPoint" yaml:"entryPoint"`
	Layer      string   `json:"layer,omitempty" yaml:"layer,omitempty"`
	Slots      []string `json:"slots,omitempty" yaml:"slots,omitempty"`
}

// Plan is the order in which a start or stop request would run.
type Plan struct {
	File    string     `json:"file" yaml:"file"`
	Action  string     `json:"action" yaml:"action"`
	Targets []string   `json:"targets" yaml:"targets"`
	Steps   []PlanStep `json:"steps" yaml:"steps"`
	// Error is set when the pass failed; Steps then holds what ran before
	// the failure.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the planned pass failed.
func (p *Plan) Failed() bool {
	return p.Error != ""
}
