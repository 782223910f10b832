package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"Remediation-server/models"
)

const remediationInstructions = "Given the following data quality test result, analyze the issue and respond strictly in JSON format with two fields:\n" +
	"1. 'reasoning_and_remediation': Provide step-by-step reasoning about the possible root cause based on the context, " +
	"then give clear, concise, and definite remediation steps using Google Cloud Platform tools. " +
	"The remediation should be suitable for automation and tailored to the available data. " +
	"2. 'gcp_commands': A JSON array of GCP CLI commands (with correct attributes and parameters based on the provided context) " +
	"that should be executed in sequential order to resolve the error. Each command should be a single string as it would be run in the terminal.\n"

const remediationTrailer = "Do NOT include generic advice, examples, or any content outside the JSON object."

// BuildPrompt renders the remediation request for one failing row. The issue
// message and the full row are embedded as-is.
func BuildPrompt(row models.TestResultRow) string {
	return fmt.Sprintf("%sIssue: %s\nContext: %s\n%s",
		remediationInstructions, row.Text(models.MessageColumn), rowContext(row), remediationTrailer)
}

func rowContext(row models.TestResultRow) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(row); err != nil {
		return fmt.Sprint(row.Values)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
