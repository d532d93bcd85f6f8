package manifest

import "fmt"

// Lint reports problems the schema cannot express: duplicate entry point
// names and slots listed twice by the same entry point.
func (m *Manifest) Lint() []ValidationIssue {
	var issues []ValidationIssue

	seen := make(map[string]int)
	for i, ep := range m.EntryPoints {
		if first, ok := seen[ep.Name]; ok {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("/entryPoints/%d/name", i),
				Message: fmt.Sprintf("entry point %s is already declared at /entryPoints/%d", ep.Name, first),
				Keyword: "unique",
			})
			continue
		}
		seen[ep.Name] = i

		issues = append(issues, duplicateRefs(i, "contributes", ep.Contributes)...)
		issues = append(issues, duplicateRefs(i, "dependsOn", ep.DependsOn)...)
	}

	return issues
}

func duplicateRefs(ep int, field string, refs []SlotRef) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[string]bool)
	for j, ref := range refs {
		if seen[ref.Name] {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("/entryPoints/%d/%s/%d", ep, field, j),
				Message: fmt.Sprintf("slot %s is listed more than once", ref.Name),
				Keyword: "unique",
			})
		}
		seen[ref.Name] = true
	}
	return issues
}
