package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcasey/emrcurate/internal/exitcode"
	"github.com/gcasey/emrcurate/internal/logging"
	"github.com/gcasey/emrcurate/internal/model"
	"github.com/gcasey/emrcurate/internal/pipeline"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Dry-run the pipeline without touching the database",
	Long: "Reads the extract, runs standardization, validation, routing, and\n" +
		"de-identification, then prints a summary. Exits nonzero when any record\n" +
		"was quarantined, so CI can gate on extract quality.",
	RunE: runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&cfg.InputDir, "input", "", "Directory containing the extract files (required)")
	f.StringVar(&cfg.Format, "format", "csv", "Extract format: csv or parquet")
	f.StringVar(&cfg.AuditLog, "audit-log", "", "Append audit events to this file")
	_ = validateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := loadConfigFile(); err != nil {
		log.Error().Err(err).Msg("config file load failed")
		os.Exit(exitcode.UsageError)
	}
	cfg.Load = false
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sink, closeSink, err := buildSink(log)
	if err != nil {
		log.Error().Err(err).Msg("audit log open failed")
		os.Exit(exitcode.UsageError)
	}
	defer closeSink()

	result, err := pipeline.Run(ctx, nil, log, sink, &cfg)
	if err != nil {
		exitPipelineError(log, err)
	}

	s := result.Summary
	printCounts("patients", s.Patients)
	printCounts("visits", s.Visits)
	printCounts("labs", s.Labs)
	fmt.Printf("findings: %d total, %d failed\n", s.Findings, s.FindingsFailed)

	if s.TotalQuarantined() > 0 {
		os.Exit(exitcode.RecordsQuarantined)
	}
	return nil
}

func printCounts(name string, c model.DatasetCounts) {
	fmt.Printf("%-9s read=%-5d curated=%-5d quarantined=%-5d warnings=%d\n",
		name, c.Read, c.Curated, c.Quarantined, c.Warnings)
}
