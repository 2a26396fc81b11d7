package runtimeconfig

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SITE_"

// LoadEnv loads the optional dotenv files and overlays SITE_* variables on
// top of DefaultConfig. Missing dotenv files are ignored; variables already
// present in the process environment win over file values.
func LoadEnv(paths ...string) (Config, error) {
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	cfg := DefaultConfig()
	ApplyEnv(&cfg, os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overlays values resolved by lookup onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if cfg == nil || lookup == nil {
		return
	}
	e := envReader{lookup: lookup}

	e.str("SERVER_ADDR", &cfg.Server.Addr)
	e.str("SERVER_PUBLIC_BASE_PATH", &cfg.Server.PublicBasePath)
	e.str("SERVER_ADMIN_BASE_PATH", &cfg.Server.AdminBasePath)
	e.duration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	e.duration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)

	e.str("DATABASE_DRIVER", &cfg.Database.Driver)
	e.str("DATABASE_DSN", &cfg.Database.DSN)
	e.boolean("DATABASE_DEBUG", &cfg.Database.Debug)

	e.str("STORAGE_PROVIDER", &cfg.Storage.Provider)
	e.str("STORAGE_ENDPOINT", &cfg.Storage.Endpoint)
	e.str("STORAGE_ACCESS_KEY", &cfg.Storage.AccessKey)
	e.str("STORAGE_SECRET_KEY", &cfg.Storage.SecretKey)
	e.boolean("STORAGE_USE_SSL", &cfg.Storage.UseSSL)
	e.str("STORAGE_REGION", &cfg.Storage.Region)
	e.str("STORAGE_PUBLIC_BASE_URL", &cfg.Storage.PublicBaseURL)
	e.str("STORAGE_MEDIA_BUCKET", &cfg.Storage.MediaBucket)
	e.str("STORAGE_SUBMISSIONS_BUCKET", &cfg.Storage.SubmissionsBucket)
	e.duration("STORAGE_SIGNED_URL_TTL", &cfg.Storage.SignedURLTTL)

	e.str("EMAIL_PROVIDER", &cfg.Email.Provider)
	e.str("EMAIL_API_KEY", &cfg.Email.APIKey)
	e.str("EMAIL_FROM", &cfg.Email.From)
	e.str("EMAIL_ADMIN_RECIPIENT", &cfg.Email.AdminRecipient)

	e.str("AUTH_JWT_SECRET", &cfg.Auth.JWTSecret)
	e.str("AUTH_ISSUER", &cfg.Auth.Issuer)

	e.boolean("CACHE_ENABLED", &cfg.Cache.Enabled)
	e.duration("CACHE_TTL", &cfg.Cache.DefaultTTL)

	e.str("LOG_PROVIDER", &cfg.Logging.Provider)
	e.str("LOG_LEVEL", &cfg.Logging.Level)
	e.str("LOG_FORMAT", &cfg.Logging.Format)

	e.boolean("SUBMISSIONS_ROLLBACK_ON_TOTAL_FAILURE", &cfg.Submissions.RollbackOnTotalFailure)

	e.boolean("FEATURE_NOTIFICATIONS", &cfg.Features.Notifications)
	e.boolean("FEATURE_CONTENT_SCHEMAS", &cfg.Features.ContentSchemas)
	e.boolean("FEATURE_OPTIMISTIC_LOCKING", &cfg.Features.OptimisticLocking)
	e.boolean("FEATURE_ACTIVITY", &cfg.Features.Activity)
}

type envReader struct {
	lookup func(string) (string, bool)
}

func (e envReader) get(key string) (string, bool) {
	value, ok := e.lookup(envPrefix + key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (e envReader) str(key string, target *string) {
	if value, ok := e.get(key); ok {
		*target = value
	}
}

func (e envReader) boolean(key string, target *bool) {
	if value, ok := e.get(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func (e envReader) duration(key string, target *time.Duration) {
	if value, ok := e.get(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			*target = parsed
		}
	}
}
