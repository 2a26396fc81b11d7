package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrDatabaseDriverUnknown = errors.New("site config: database driver must be postgres or sqlite")
var ErrDatabaseDSNRequired = errors.New("site config: database dsn is required")
var ErrStorageBucketRequired = errors.New("site config: media and submission buckets are required")
var ErrStorageEndpointRequired = errors.New("site config: storage endpoint is required for the minio provider")
var ErrEmailProviderUnknown = errors.New("site config: email provider is invalid")
var ErrEmailAPIKeyRequired = errors.New("site config: email api key is required when notifications are enabled")
var ErrAuthSecretRequired = errors.New("site config: auth jwt secret is required")
var ErrLoggingProviderUnknown = errors.New("site config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("site config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("site config: logging format is invalid")
var ErrSignedURLTTLInvalid = errors.New("site config: signed url ttl must be positive")

// Config aggregates every runtime setting of the site backend.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	Email       EmailConfig
	Auth        AuthConfig
	Cache       CacheConfig
	Logging     LoggingConfig
	Submissions SubmissionsConfig
	Features    Features
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string
	PublicBasePath  string
	AdminBasePath   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the Bun dialect and connection.
type DatabaseConfig struct {
	Driver string
	DSN    string
	Debug  bool
}

// StorageConfig configures the S3 compatible object store.
type StorageConfig struct {
	Provider          string
	Endpoint          string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	Region            string
	PublicBaseURL     string
	MediaBucket       string
	SubmissionsBucket string
	SignedURLTTL      time.Duration
}

// EmailConfig configures outbound notifications for contact messages.
type EmailConfig struct {
	Provider       string
	APIKey         string
	From           string
	AdminRecipient string
	SendTimeout    time.Duration
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	Leeway    time.Duration
}

// CacheConfig toggles the repository read cache.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig selects the logging backend.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// SubmissionsConfig tunes the application form workflow.
type SubmissionsConfig struct {
	RollbackOnTotalFailure bool
	MaxFileSize            int64
}

// Features toggles optional behaviour.
type Features struct {
	Notifications     bool
	ContentSchemas    bool
	OptimisticLocking bool
	Activity          bool
}

// DefaultConfig returns settings suitable for local development.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			PublicBasePath:  "/api",
			AdminBasePath:   "/admin/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "file:site.db?cache=shared&_fk=1",
		},
		Storage: StorageConfig{
			Provider:          "memory",
			MediaBucket:       "cms-media",
			SubmissionsBucket: "form-submissions",
			SignedURLTTL:      time.Hour,
		},
		Email: EmailConfig{
			Provider:    "noop",
			SendTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			Leeway: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
		Submissions: SubmissionsConfig{
			MaxFileSize: 10 << 20,
		},
		Features: Features{
			Notifications:     true,
			ContentSchemas:    true,
			OptimisticLocking: true,
			Activity:          true,
		},
	}
}

// Validate performs consistency checks across sections.
func (cfg Config) Validate() error {
	switch normalize(cfg.Database.Driver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: %q", ErrDatabaseDriverUnknown, cfg.Database.Driver)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return ErrDatabaseDSNRequired
	}

	if strings.TrimSpace(cfg.Storage.MediaBucket) == "" || strings.TrimSpace(cfg.Storage.SubmissionsBucket) == "" {
		return ErrStorageBucketRequired
	}
	if normalize(cfg.Storage.Provider) == "minio" && strings.TrimSpace(cfg.Storage.Endpoint) == "" {
		return ErrStorageEndpointRequired
	}
	if cfg.Storage.SignedURLTTL <= 0 {
		return ErrSignedURLTTLInvalid
	}

	switch normalize(cfg.Email.Provider) {
	case "", "noop":
	case "resend":
		if cfg.Features.Notifications && strings.TrimSpace(cfg.Email.APIKey) == "" {
			return ErrEmailAPIKeyRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrEmailProviderUnknown, cfg.Email.Provider)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return ErrAuthSecretRequired
	}

	switch normalize(cfg.Logging.Provider) {
	case "gologger", "none":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := normalize(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := normalize(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
