package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/TheJazzDev/orits-fashion/internal/config"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
)

var (
	// Global flags
	dbDriver string
	dbDSN    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "orits",
	Short: "Orit's Fashion storefront and admin panel",
	Long: `orits serves the Orit's Fashion boutique: the public catalog, gallery,
reviews and contact pages, the JSON API and the admin panel.

Configuration comes from the environment (and an optional .env file).
The --db-driver and --db flags override DB_DRIVER and DB_DSN.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Database driver: sqlite or postgres (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", "", "Database DSN (overrides DB_DSN)")
}

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig() config.Config {
	cfg := config.Load()
	if dbDriver != "" {
		cfg.DBDriver = dbDriver
	}
	if dbDSN != "" {
		cfg.DBDSN = dbDSN
	}
	return cfg
}

// teeLog copies the standard logger to LOG_FILE when one is configured.
func teeLog(cfg config.Config) {
	if cfg.LogFile == "" {
		return
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := repos.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}
