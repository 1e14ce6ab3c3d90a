package parsererror

import "fmt"

// ParseError represents an error converting one source row into the
// normalized shape. Parse errors are isolated per record: the batch
// continues and the caller receives a skip count.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a file that does not look like the format its
// parser expects.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// ClassificationError represents a failure of the entity recognizer. The
// classifier falls back to its heuristics when it sees one; it is never
// fatal to a batch.
type ClassificationError struct {
	Name string
	Err  error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("entity classification failed for %q: %v", e.Name, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// PersistenceError represents a database failure while saving a
// reconciliation batch. The whole batch transaction is rolled back before
// one of these is returned; nothing is partially persisted.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
