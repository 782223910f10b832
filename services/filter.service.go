package service

import (
	"Remediation-server/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const passedStatus = "passed"

// IsPassed reports whether a status lower-cases to exactly "passed".
// Surrounding whitespace is not ignored.
func IsPassed(status string) bool {
	return cases.Lower(language.Und).String(status) == passedStatus
}

// FilterFailures keeps the rows that did not pass, in their original order.
// Rows with a blank or unknown status count as failures.
func FilterFailures(rows []models.TestResultRow) []models.TestResultRow {
	failures := make([]models.TestResultRow, 0, len(rows))
	for _, row := range rows {
		if !IsPassed(row.Status()) {
			failures = append(failures, row)
		}
	}
	return failures
}
