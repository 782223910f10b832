package service

import (
	"errors"
	"fmt"
)

// ErrMissingInput is returned when an analyze request lacks the upload or the sheet name.
var ErrMissingInput = errors.New("Missing file or sheet_name in request")

// FileFormatError reports a spreadsheet that could not be read as a test result sheet.
type FileFormatError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *FileFormatError) Error() string {
	return fmt.Sprintf("cannot read sheet %q from %s: %v", e.Sheet, e.Path, e.Err)
}

func (e *FileFormatError) Unwrap() error { return e.Err }

// ExternalServiceError wraps a failed call to the hosted model.
type ExternalServiceError struct {
	Model string
	Err   error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// RemediationParseError is returned when the model answer is not a JSON document.
// Content holds the answer after code fences were stripped.
type RemediationParseError struct {
	Content string
	Err     error
}

func (e *RemediationParseError) Error() string {
	if e.Content == "" {
		return fmt.Sprintf("%v", e.Err)
	}
	return fmt.Sprintf("Invalid JSON data: %v\nContent after cleaning:\n%s", e.Err, e.Content)
}

func (e *RemediationParseError) Unwrap() error { return e.Err }
