package models

import (
	"encoding/json"
	"fmt"
)

// RemediationRecord is produced once per failing row. Exactly one of
// Remediation and Error is set.
type RemediationRecord struct {
	Issue       any           `json:"issue"`
	Context     TestResultRow `json:"context"`
	Remediation any           `json:"remediation,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// Remediation is the shape the model is asked to answer with.
type Remediation struct {
	ReasoningAndRemediation string   `json:"reasoning_and_remediation"`
	GCPCommands             []string `json:"gcp_commands"`
}

// DecodeRemediation converts a parsed model answer into a Remediation.
func DecodeRemediation(v any) (*Remediation, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rem Remediation
	if err := json.Unmarshal(data, &rem); err != nil {
		return nil, fmt.Errorf("unexpected remediation shape: %w", err)
	}
	return &rem, nil
}
