package manifest

import (
	"fmt"
	"strings"
)

// Issue categories.
const (
	CategoryParse        = "parse"
	CategorySchema       = "schema"
	CategoryLint         = "lint"
	CategoryRegistration = "registration"
	CategoryGraph        = "graph"
)

// Issue is one problem found while checking a manifest.
type Issue struct {
	File     string `json:"file"`     // Manifest the issue was found in
	Category string `json:"category"` // One of the Category constants
	Path     string `json:"path"`     // Location inside the document, if known
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`  // Human-readable description
}

// Error implements the error interface
func (i Issue) Error() string {
	var b strings.Builder
	b.WriteString("[" + i.Category + "]")
	if i.File != "" {
		b.WriteString(" " + i.File)
		if i.Line > 0 {
			fmt.Fprintf(&b, ":%d", i.Line)
		}
	}
	if i.Path != "" {
		b.WriteString(" " + i.Path)
	}
	b.WriteString(": " + i.Message)
	return b.String()
}

// IssueCollection gathers every issue of a check so they can be reported
// together.
type IssueCollection struct {
	Issues []Issue `json:"issues"`
}

// Error implements the error interface for the collection
func (ic IssueCollection) Error() string {
	if len(ic.Issues) == 0 {
		return "no manifest issues"
	}
	if len(ic.Issues) == 1 {
		return ic.Issues[0].Error()
	}
	return fmt.Sprintf("%d manifest issues: %s (and %d more)",
		len(ic.Issues), ic.Issues[0].Error(), len(ic.Issues)-1)
}

// HasErrors returns true if there are any issues in the collection
func (ic *IssueCollection) HasErrors() bool {
	return len(ic.Issues) > 0
}

// Count returns the number of issues in the collection
func (ic *IssueCollection) Count() int {
	return len(ic.Issues)
}

// Add appends an issue.
func (ic *IssueCollection) Add(issue Issue) {
	ic.Issues = append(ic.Issues, issue)
}

// AddError records err under category. An IssueCollection is merged rather
// than nested.
func (ic *IssueCollection) AddError(file, category string, err error) {
	if other, ok := err.(IssueCollection); ok {
		ic.Issues = append(ic.Issues, other.Issues...)
		return
	}
	ic.Add(Issue{File: file, Category: category, Message: err.Error()})
}

// AddValidation records schema or lint issues.
func (ic *IssueCollection) AddValidation(file, category string, issues []ValidationIssue) {
	for _, vi := range issues {
		ic.Add(Issue{File: file, Category: category, Path: vi.Path, Line: vi.Line, Message: vi.Message})
	}
}

// ByCategory returns the issues of one category.
func (ic *IssueCollection) ByCategory(category string) []Issue {
	var filtered []Issue
	for _, issue := range ic.Issues {
		if issue.Category == category {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// Err returns the collection as an error, or nil when it is empty.
func (ic *IssueCollection) Err() error {
	if !ic.HasErrors() {
		return nil
	}
	return *ic
}

// Summary lists every issue, one per line.
func (ic *IssueCollection) Summary() string {
	if len(ic.Issues) == 0 {
		return "No manifest issues"
	}

	parts := []string{fmt.Sprintf("Manifest issues (%d total):", len(ic.Issues))}
	for _, issue := range ic.Issues {
		parts = append(parts, "  - "+issue.Error())
	}
	return strings.Join(parts, "\n")
}
