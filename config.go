package sitecms

import "github.com/goliatone/go-sitecms/internal/runtimeconfig"

var (
	ErrDatabaseDriverUnknown   = runtimeconfig.ErrDatabaseDriverUnknown
	ErrDatabaseDSNRequired     = runtimeconfig.ErrDatabaseDSNRequired
	ErrStorageBucketRequired   = runtimeconfig.ErrStorageBucketRequired
	ErrStorageEndpointRequired = runtimeconfig.ErrStorageEndpointRequired
	ErrEmailProviderUnknown    = runtimeconfig.ErrEmailProviderUnknown
	ErrEmailAPIKeyRequired     = runtimeconfig.ErrEmailAPIKeyRequired
	ErrAuthSecretRequired      = runtimeconfig.ErrAuthSecretRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrSignedURLTTLInvalid     = runtimeconfig.ErrSignedURLTTLInvalid
)

type (
	Config            = runtimeconfig.Config
	ServerConfig      = runtimeconfig.ServerConfig
	DatabaseConfig    = runtimeconfig.DatabaseConfig
	StorageConfig     = runtimeconfig.StorageConfig
	EmailConfig       = runtimeconfig.EmailConfig
	AuthConfig        = runtimeconfig.AuthConfig
	CacheConfig       = runtimeconfig.CacheConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
	SubmissionsConfig = runtimeconfig.SubmissionsConfig
	Features          = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads defaults, then optional .env files, then the process
// environment.
func LoadConfig(envFiles ...string) (Config, error) {
	return runtimeconfig.LoadEnv(envFiles...)
}
