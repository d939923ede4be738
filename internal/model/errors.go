package model

import "fmt"

// MalformedInputError reports a document that cannot be parsed.
// Fatal for the file, not retryable.
type MalformedInputError struct {
	Document string
	Reason   string
	Err      error
}

func (e *MalformedInputError) Error() string {
	msg := "malformed input"
	if e.Document != "" {
		msg += " " + e.Document
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// SchemaMismatchError reports a well-formed document without statement facts
type SchemaMismatchError struct {
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	return "schema mismatch: " + e.Reason
}

// RunMetadataError reports that the reporting entity cannot be identified
type RunMetadataError struct {
	Field  string
	Reason string
}

func (e *RunMetadataError) Error() string {
	return fmt.Sprintf("run metadata: %s: %s", e.Field, e.Reason)
}
