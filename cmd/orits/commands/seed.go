package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
)

// seedCmd loads the demo catalog
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog",
	Long: `Upsert the boutique categories and add the demo products and gallery images.

Existing products (by slug) and gallery images (by URL) are left untouched,
so running seed twice changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		rep, err := repos.SeedDemo(cmd.Context(), db)
		if err != nil {
			applog.Event("error", "db.seed.fail", err, nil)
			return fmt.Errorf("seed: %w", err)
		}
		applog.Event("info", "db.seed", nil, map[string]any{
			"categories":       rep.Categories,
			"products_created": rep.ProductsCreated,
			"products_skipped": rep.ProductsSkipped,
			"gallery_created":  rep.GalleryCreated,
			"gallery_skipped":  rep.GallerySkipped,
		})
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "categories upserted: %d\n", rep.Categories)
		fmt.Fprintf(out, "products created: %d (skipped %d)\n", rep.ProductsCreated, rep.ProductsSkipped)
		fmt.Fprintf(out, "gallery images created: %d (skipped %d)\n", rep.GalleryCreated, rep.GallerySkipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
