package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveRemediationJSON writes v to path as indented JSON.
func SaveRemediationJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("Error encoding remediation: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("Error creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("Error writing remediation file: %w", err)
	}
	return nil
}

// RemediationFileName is the per-row output file used by the batch driver.
func RemediationFileName(index int) string {
	return fmt.Sprintf("remediation_output_%d.json", index)
}
