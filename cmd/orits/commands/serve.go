package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/TheJazzDev/orits-fashion/internal/http/handlers"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/media"
	"github.com/TheJazzDev/orits-fashion/internal/notify"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

const sessionSweep = time.Hour

// serveCmd starts the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg := loadConfig()
	teeLog(cfg)

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var images services.ImageStore
	if cfg.Cloudinary.Enabled() {
		images = media.New(cfg.Cloudinary)
	} else {
		log.Printf("[media] uploads disabled: CLOUDINARY_* not configured")
	}
	var mail services.Notifier = notify.LogOnly{}
	if cfg.Mail.ResendAPIKey != "" {
		mail = notify.NewResend(cfg.Mail)
	}

	deps := handlers.NewDeps(db, cfg, images, mail)
	app := handlers.NewApp(cfg, deps)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		t := time.NewTicker(sessionSweep)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := deps.Auth.Users.PruneSessions(ctx, cfg.SessionTTL)
				if err != nil {
					applog.Event("error", "sessions.prune.fail", err, nil)
					continue
				}
				if n > 0 {
					applog.Event("info", "sessions.prune", nil, map[string]any{"removed": n})
				}
			}
		}
	}()

	go func() {
		<-ctx.Done()
		log.Printf("[server] shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Printf("[server] listening on :%s (%s)", cfg.Port, cfg.DBDriver)
	return app.Listen(":" + cfg.Port)
}
