package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
)

// migrateCmd creates missing tables and clears expired sessions
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long: `Create any missing tables and indexes, then remove expired admin sessions.

The schema statements are idempotent, so migrate is safe to run on every deploy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := repos.NewUserRepo(db).PruneSessions(cmd.Context(), cfg.SessionTTL)
		if err != nil {
			return fmt.Errorf("prune sessions: %w", err)
		}
		applog.Event("info", "db.migrate", nil, map[string]any{"driver": cfg.DBDriver, "sessions_pruned": n})
		fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s), %d expired sessions removed\n", cfg.DBDriver, n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
