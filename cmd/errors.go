package cmd

import "fmt"

// ManifestInvalidError is returned by check when the manifest has issues.
// The issues themselves have already been printed.
type ManifestInvalidError struct {
	File   string
	Issues int
}

func (e *ManifestInvalidError) Error() string {
	return fmt.Sprintf("%s has %d issues", e.File, e.Issues)
}

// PlanFailedError is returned by plan when the dry-run pass failed.
type PlanFailedError struct {
	Action string
	Reason string
}

func (e *PlanFailedError) Error() string {
	return fmt.Sprintf("%s plan failed: %s", e.Action, e.Reason)
}
