package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gcasey/emrcurate/internal/audit"
	"github.com/gcasey/emrcurate/internal/db"
	"github.com/gcasey/emrcurate/internal/exitcode"
	"github.com/gcasey/emrcurate/internal/logging"
	"github.com/gcasey/emrcurate/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and load results into Postgres",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&cfg.InputDir, "input", "", "Directory containing the extract files (required)")
	f.StringVar(&cfg.Format, "format", "csv", "Extract format: csv or parquet")
	f.StringVar(&cfg.AuditLog, "audit-log", "", "Append audit events to this file")
	f.BoolVar(&cfg.KeepStaging, "keep-staging", false, "Keep staging rows after assembly")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := loadConfigFile(); err != nil {
		log.Error().Err(err).Msg("config file load failed")
		os.Exit(exitcode.UsageError)
	}
	cfg.Load = true
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	sink, closeSink, err := buildSink(log)
	if err != nil {
		log.Error().Err(err).Msg("audit log open failed")
		os.Exit(exitcode.UsageError)
	}
	defer closeSink()

	result, err := pipeline.Run(ctx, pool, log, sink, &cfg)
	if err != nil {
		exitPipelineError(log, err)
	}

	s := result.Summary
	fmt.Printf("Run %s complete: %d curated, %d quarantined, %d findings (%.1fs)\n",
		s.RunID, s.TotalCurated(), s.TotalQuarantined(), s.Findings, s.DurationTotal.Seconds())
	return nil
}

// buildSink assembles the audit sinks: always the structured log, plus
// the append-only file when configured. The returned func closes the
// file sink, if any.
func buildSink(log zerolog.Logger) (audit.Sink, func(), error) {
	sinks := audit.Multi{audit.LogSink{Log: log}}
	if cfg.AuditLog == "" {
		return sinks, func() {}, nil
	}
	fs, err := audit.NewFileSink(cfg.AuditLog)
	if err != nil {
		return nil, nil, err
	}
	return append(sinks, fs), func() { _ = fs.Close() }, nil
}

// exitPipelineError logs the failure and exits with a code reflecting the
// failed phase. It does not return.
func exitPipelineError(log zerolog.Logger, err error) {
	var pe *pipeline.PipelineError
	if errors.As(err, &pe) {
		log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("pipeline failed")
		switch pe.Phase {
		case "config":
			os.Exit(exitcode.UsageError)
		case "extract":
			os.Exit(exitcode.InputShapeError)
		case "load":
			os.Exit(exitcode.LoadError)
		default:
			os.Exit(exitcode.RunError)
		}
	}
	log.Error().Err(err).Msg("pipeline failed")
	os.Exit(exitcode.RunError)
}
