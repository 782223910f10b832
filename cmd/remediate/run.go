package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"Remediation-server/config"
	"Remediation-server/logging"
	"Remediation-server/models"
	"Remediation-server/services"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Remediate every failing row of a workbook",
		Long: `Reads the workbook, keeps rows whose result_status is not "passed" and prints
one remediation per row. The first failed model call or unparseable answer stops the run.`,
		Example: `  remediate run --file results.xlsx --sheet "Test results data"
  remediate run --file results.xlsx --output-dir ./remediations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, v)
		},
	}

	cmd.Flags().StringP("file", "f", "", "Path to the test result workbook")
	cmd.Flags().StringP("sheet", "s", "", "Worksheet holding the test results")
	cmd.Flags().StringP("output-dir", "o", "", "Write each remediation as JSON into this directory")
	cmd.Flags().Int("header-row", service.DefaultHeaderRow, "Zero-based row holding the column names")
	_ = v.BindPFlag("excel_file", cmd.Flags().Lookup("file"))
	_ = v.BindPFlag("sheet_name", cmd.Flags().Lookup("sheet"))
	_ = v.BindPFlag("output_dir", cmd.Flags().Lookup("output-dir"))
	_ = v.BindPFlag("header_row", cmd.Flags().Lookup("header-row"))

	return cmd
}

func runBatch(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	gemini, err := service.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}
	svc := service.NewRemediationService(gemini, logger, cfg.HeaderRow)

	rows, err := svc.LoadFailures(cfg.ExcelFile, cfg.SheetName)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No failing test results found.")
		return nil
	}

	bar := progressbar.NewOptions(len(rows),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Remediating"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	return svc.RemediateAll(ctx, rows, func(i int, record models.RemediationRecord) error {
		if err := printRecord(cmd.OutOrStdout(), record); err != nil {
			return err
		}
		if cfg.OutputDir != "" {
			path := filepath.Join(cfg.OutputDir, service.RemediationFileName(i))
			if err := service.SaveRemediationJSON(path, record.Remediation); err != nil {
				return err
			}
			logger.Info("Saved remediation output", zap.String("file", path))
		}
		return bar.Add(1)
	})
}

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	issueColor   = color.New(color.FgRed, color.Bold)
	commandColor = color.New(color.FgGreen)
)

func printRecord(w io.Writer, record models.RemediationRecord) error {
	rowJSON, err := json.Marshal(record.Context)
	if err != nil {
		return err
	}

	issueColor.Fprintf(w, "Issue: %v\n", record.Issue)
	fmt.Fprintf(w, "Context: %s\n", rowJSON)
	headingColor.Fprintln(w, "Gemini Analysis & Remediation:")

	rem, err := models.DecodeRemediation(record.Remediation)
	if err != nil {
		raw, err := json.MarshalIndent(record.Remediation, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(raw))
	} else {
		fmt.Fprintln(w, rem.ReasoningAndRemediation)
		if len(rem.GCPCommands) > 0 {
			headingColor.Fprintln(w, "Commands:")
			for i, c := range rem.GCPCommands {
				commandColor.Fprintf(w, "  %d. %s\n", i+1, c)
			}
		}
	}
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("-", 60))
	return nil
}
