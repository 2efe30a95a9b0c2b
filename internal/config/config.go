package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Upload
		CORS
		EPUB
		RSVP
		Database
		Audit
		Tasks
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Upload struct {
		MaxFileSize int64  // Bytes; an upload of exactly this size is accepted
		TempDir     string // Empty means the OS default temp directory
	}
	CORS struct {
		AllowOrigins     []string // "*" allows any origin
		AllowMethods     []string
		AllowHeaders     []string
		AllowCredentials bool
		MaxAge           time.Duration
	}
	EPUB struct {
		StripMarkup bool // Convert content documents to plain text instead of returning raw XHTML
		SpineOrder  bool // Follow the spine instead of manifest declaration order
	}
	RSVP struct {
		DefaultSpeed int // Words per minute when the request does not set one
	}
	Database struct {
		Path string
	}
	Audit struct {
		Enabled         bool   // Persist upload metadata; off by default so nothing outlives a request
		ExposeAPI       bool   // Serve GET /api/extractions; needs Enabled
		RetentionDays   int    // Days to keep extraction events (default: 30)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Log struct {
		Level       string // debug, info, warn, error
		Development bool   // Human-readable console output
	}
)

// splitList parses comma-separated env values such as "GET,POST".
func splitList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range strings.Split(v.GetString(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Upload defaults
	v.SetDefault("upload_max_file_size", DefaultMaxFileSize)
	v.SetDefault("upload_temp_dir", "")

	// CORS defaults: permissive, same as the original deployment
	v.SetDefault("cors_allow_origins", "*")
	v.SetDefault("cors_allow_methods", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	v.SetDefault("cors_allow_headers", "Origin,Content-Type,Content-Length,Accept,Authorization,X-Request-ID")
	v.SetDefault("cors_allow_credentials", true)
	v.SetDefault("cors_max_age", "12h")

	v.SetDefault("epub_strip_markup", false)
	v.SetDefault("epub_spine_order", false)
	v.SetDefault("rsvp_default_speed", DefaultRSVPSpeed)

	v.SetDefault("database_path", DefaultDatabasePath)

	// Audit defaults
	v.SetDefault("audit_enabled", false)
	v.SetDefault("audit_api_enabled", false)
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Upload: Upload{
			MaxFileSize: v.GetInt64("UPLOAD_MAX_FILE_SIZE"),
			TempDir:     v.GetString("UPLOAD_TEMP_DIR"),
		},
		CORS: CORS{
			AllowOrigins:     splitList(v, "CORS_ALLOW_ORIGINS"),
			AllowMethods:     splitList(v, "CORS_ALLOW_METHODS"),
			AllowHeaders:     splitList(v, "CORS_ALLOW_HEADERS"),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetDuration("CORS_MAX_AGE"),
		},
		EPUB: EPUB{
			StripMarkup: v.GetBool("EPUB_STRIP_MARKUP"),
			SpineOrder:  v.GetBool("EPUB_SPINE_ORDER"),
		},
		RSVP: RSVP{
			DefaultSpeed: v.GetInt("RSVP_DEFAULT_SPEED"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Audit: Audit{
			Enabled:         v.GetBool("AUDIT_ENABLED"),
			ExposeAPI:       v.GetBool("AUDIT_API_ENABLED"),
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Log: Log{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
	}
}
