package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gcasey/emrcurate/internal/config"
)

var (
	cfg     config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "emrcurate",
	Short: "EMR extract validation, quarantine, and de-identification pipeline",
	Long: "Validates periodic clinical-encounter extracts (patients, visits, lab results)\n" +
		"against the rule catalog, quarantines records with ERROR findings, de-identifies\n" +
		"the curated remainder, and optionally loads the results into Postgres.",
}

func init() {
	// .env is optional; flags and real env vars win.
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfgFile, "config", "", "Path to YAML config file")
}

func loadConfigFile() error {
	if cfgFile == "" {
		return nil
	}
	return cfg.LoadFromFile(cfgFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
