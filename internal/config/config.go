package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDriver string // sqlite | postgres
	DBDSN    string
	LogFile  string
	SiteURL  string

	TemplatesDir    string
	StaticDir       string
	ReloadTemplates bool

	SessionTTL   time.Duration
	CookieSecure bool

	// DegradeListErrors answers list endpoints with an empty result when the
	// database fails instead of a 500.
	DegradeListErrors  bool
	PurgeOrphanUploads bool

	Cloudinary Cloudinary
	Mail       Mail
}

type Cloudinary struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	Folder       string
}

// Enabled reports whether uploads can be attempted at all.
func (c Cloudinary) Enabled() bool {
	return c.CloudName != "" && (c.UploadPreset != "" || (c.APIKey != "" && c.APISecret != ""))
}

type Mail struct {
	ResendAPIKey string
	From         string
	AdminEmail   string
}

func Load() Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load(".env")

	cfg := Config{
		Port:     env("PORT", "8080"),
		DBDriver: strings.ToLower(env("DB_DRIVER", "sqlite")),
		DBDSN:    env("DB_DSN", "orits.db"), // sqlite file in project root
		LogFile:  env("LOG_FILE", "./orits.log"),
		SiteURL:  strings.TrimRight(env("SITE_URL", "https://oritsfashion.com"), "/"),

		TemplatesDir: env("TEMPLATES_DIR", "./web/templates"),
		StaticDir:    env("STATIC_DIR", "./web/static"),

		ReloadTemplates: envBool("TEMPLATES_RELOAD", false),

		SessionTTL:   envDuration("SESSION_TTL", 7*24*time.Hour),
		CookieSecure: envBool("COOKIE_SECURE", false),

		DegradeListErrors:  envBool("DEGRADE_LIST_ERRORS", true),
		PurgeOrphanUploads: envBool("PURGE_ORPHAN_UPLOADS", false),

		Cloudinary: Cloudinary{
			CloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:       os.Getenv("CLOUDINARY_API_KEY"),
			APISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
			UploadPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
			Folder:       env("CLOUDINARY_FOLDER", "orits-fashion"),
		},
		Mail: Mail{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			From:         env("MAIL_FROM", "Orit's Fashion <onboarding@resend.dev>"),
			AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		},
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s LOG_FILE=%s SITE_URL=%s uploads=%t mail=%t degrade_lists=%t",
		cfg.Port, cfg.DBDriver, cfg.LogFile, cfg.SiteURL, cfg.Cloudinary.Enabled(), cfg.Mail.ResendAPIKey != "", cfg.DegradeListErrors)
	return cfg
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] ignoring %s=%q: %v", key, v, err)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] ignoring %s=%q", key, v)
		return def
	}
	return d
}
