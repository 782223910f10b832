package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const codeFence = "```"

// CleanResponse drops a leading and a trailing Markdown fence line and trims
// what is left.
func CleanResponse(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), codeFence) {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), codeFence) {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseRemediation cleans a model answer and decodes it as a single JSON
// value. Numbers are kept as json.Number.
func ParseRemediation(raw string) (any, error) {
	cleaned := CleanResponse(raw)
	if cleaned == "" {
		return nil, &RemediationParseError{
			Err: errors.New("No JSON content found in the remediation response after cleaning"),
		}
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &RemediationParseError{Content: cleaned, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &RemediationParseError{Content: cleaned, Err: fmt.Errorf("unexpected data after JSON value")}
	}
	return v, nil
}
