package fixture

import (
	"fmt"
	"strings"
)

// NotFoundError reports that no search directory contained a file for the
// requested fixture name under any supported extension.
type NotFoundError struct {
	Name string
	Dirs []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("fixture %q not found in %v (tried %s)",
		e.Name, e.Dirs, strings.Join(supportedExtensions, ", "))
}

// FormatError reports that a fixture file decoded but does not have the
// required shape: a list of groups, each with exactly one of table/model plus
// a records list of mappings.
type FormatError struct {
	File   string
	Reason string
	Cause  error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fixture file %s: %s: %v", e.File, e.Reason, e.Cause)
	}
	return fmt.Sprintf("fixture file %s: %s", e.File, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Cause }

// HeterogeneousRecordsError reports a table-targeted group whose records do
// not share an identical key set. Bulk insert requires homogeneity; nothing
// from the group is persisted.
type HeterogeneousRecordsError struct {
	Table string
	// Index is the position of the first record whose keys differ from the
	// group's first record.
	Index int
}

func (e *HeterogeneousRecordsError) Error() string {
	return fmt.Sprintf("table %q: record %d has a different key set than record 0; bulk insert requires homogeneous records",
		e.Table, e.Index)
}

// ModelNotFoundError reports a model group whose qualified type name is not
// present in the registry.
type ModelNotFoundError struct {
	Model string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model %q is not registered", e.Model)
}

// LifecycleError reports a setup or teardown call made in a state that does
// not permit it. This is a programming error in the calling adapter, not a
// data problem.
type LifecycleError struct {
	Op     string
	State  string
	Reason string
}

func (e *LifecycleError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("fixture lifecycle: %s in state %s: %s", e.Op, e.State, e.Reason)
	}
	return fmt.Sprintf("fixture lifecycle: %s not allowed in state %s", e.Op, e.State)
}
