package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

var (
	// Admin create flags
	adminName     string
	adminEmail    string
	adminPassword string
)

// adminCmd groups admin account commands
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the admin account",
}

// adminCreateCmd bootstraps the single admin
var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the admin account",
	Long: `Create the one admin account. Fails once any account exists.

Examples:
  orits admin create --name "Orit" --email owner@example.com --password 's3cret-pass'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		auth := services.NewAuthService(repos.NewUserRepo(db), cfg.SessionTTL)
		u, err := auth.Bootstrap(cmd.Context(), domain.AdminInput{Name: adminName, Email: adminEmail, Password: adminPassword})
		if errors.Is(err, domain.ErrAdminExists) {
			applog.Event("security", "admin.seed.refused", nil, map[string]any{"via": "cli"})
			return err
		}
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		applog.Event("audit", "admin.seed", nil, map[string]any{"user_id": u.ID, "via": "cli"})
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", u.Email)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "Admin display name")
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (8-72 characters)")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")
	adminCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(adminCmd)
}
