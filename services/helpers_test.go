package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSheet = "Test results data"

// writeWorkbook saves a workbook whose first two rows are metadata and whose
// third row holds header, followed by rows.
func writeWorkbook(t *testing.T, sheet string, header []any, rows ...[]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Data quality report"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Generated", "2025-06-01"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

var defaultHeader = []any{"test_id", "result_status", "result_message", "table"}

// fakeGenerator answers prompts from a script keyed by a substring of the
// prompt. Unmatched prompts get fallback.
type fakeGenerator struct {
	answers  map[string]string
	failures map[string]error
	fallback string
	prompts  []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	for key, err := range g.failures {
		if strings.Contains(prompt, key) {
			return "", err
		}
	}
	for key, answer := range g.answers {
		if strings.Contains(prompt, key) {
			return answer, nil
		}
	}
	return g.fallback, nil
}

const validAnswer = "```json\n" +
	`{"reasoning_and_remediation": "Null keys come from the nightly load.", "gcp_commands": ["bq query --use_legacy_sql=false 'DELETE FROM ds.orders WHERE id IS NULL'"]}` +
	"\n```"

var errQuota = &ExternalServiceError{Model: "gemini-test", Err: errors.New("quota exceeded")}
