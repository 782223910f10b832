package service

import (
	"context"

	"Remediation-server/models"

	"go.uber.org/zap"
)

// RemediationService runs the load, filter, prompt, generate and parse
// pipeline over a test result workbook.
type RemediationService struct {
	generator Generator
	logger    *zap.Logger
	headerRow int
}

func NewRemediationService(generator Generator, logger *zap.Logger, headerRow int) *RemediationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemediationService{
		generator: generator,
		logger:    logger,
		headerRow: headerRow,
	}
}

// LoadFailures reads the sheet and returns the rows that did not pass.
func (s *RemediationService) LoadFailures(path, sheet string) ([]models.TestResultRow, error) {
	rows, err := LoadSheet(path, sheet, s.headerRow)
	if err != nil {
		return nil, err
	}
	failures := FilterFailures(rows)
	s.logger.Info("Loaded test results",
		zap.String("sheet", sheet),
		zap.Int("rows", len(rows)),
		zap.Int("failures", len(failures)))
	return failures, nil
}

// Remediate asks the model about a single row and returns its parsed answer.
func (s *RemediationService) Remediate(ctx context.Context, row models.TestResultRow) (any, error) {
	answer, err := s.generator.Generate(ctx, BuildPrompt(row))
	if err != nil {
		return nil, err
	}
	return ParseRemediation(answer)
}

// AnalyzeWorkbook remediates every failing row. A row whose generation or
// parsing fails gets an error record and the remaining rows still run.
// Only loading errors are returned.
func (s *RemediationService) AnalyzeWorkbook(ctx context.Context, path, sheet string) ([]models.RemediationRecord, error) {
	failures, err := s.LoadFailures(path, sheet)
	if err != nil {
		return nil, err
	}

	records := make([]models.RemediationRecord, 0, len(failures))
	for i, row := range failures {
		record := models.RemediationRecord{Issue: row.Message(), Context: row}
		remediation, err := s.Remediate(ctx, row)
		if err != nil {
			s.logger.Warn("Remediation failed", zap.Int("row", i), zap.Error(err))
			record.Error = err.Error()
		} else {
			record.Remediation = remediation
		}
		records = append(records, record)
	}
	return records, nil
}

// RemediateAll remediates rows in order and hands each record to fn. The
// first error, from the model or from fn, stops the run.
func (s *RemediationService) RemediateAll(ctx context.Context, rows []models.TestResultRow, fn func(index int, record models.RemediationRecord) error) error {
	for i, row := range rows {
		remediation, err := s.Remediate(ctx, row)
		if err != nil {
			return err
		}
		record := models.RemediationRecord{
			Issue:       row.Message(),
			Context:     row,
			Remediation: remediation,
		}
		if err := fn(i, record); err != nil {
			return err
		}
	}
	return nil
}
