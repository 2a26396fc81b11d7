package sitecms_test

import (
	"errors"
	"testing"

	sitecms "github.com/goliatone/go-sitecms"
)

func validConfig() sitecms.Config {
	cfg := sitecms.DefaultConfig()
	cfg.Auth.JWTSecret = "secret"
	return cfg
}

func TestConfigValidateDefaultsWithSecret(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestConfigValidateRequiresSecret(t *testing.T) {
	cfg := sitecms.DefaultConfig()
	if err := cfg.Validate(); !errors.Is(err, sitecms.ErrAuthSecretRequired) {
		t.Fatalf("expected ErrAuthSecretRequired, got %v", err)
	}
}

func TestConfigValidateMinioRequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Provider = "minio"

	if err := cfg.Validate(); !errors.Is(err, sitecms.ErrStorageEndpointRequired) {
		t.Fatalf("expected ErrStorageEndpointRequired, got %v", err)
	}
}

func TestConfigValidateResendRequiresAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Email.Provider = "resend"

	if err := cfg.Validate(); !errors.Is(err, sitecms.ErrEmailAPIKeyRequired) {
		t.Fatalf("expected ErrEmailAPIKeyRequired, got %v", err)
	}

	cfg.Features.Notifications = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected resend without notifications to validate, got %v", err)
	}
}

func TestConfigValidateLoggingProviderUnknown(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Provider = "zap"

	if err := cfg.Validate(); !errors.Is(err, sitecms.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidateSignedURLTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.SignedURLTTL = 0

	if err := cfg.Validate(); !errors.Is(err, sitecms.ErrSignedURLTTLInvalid) {
		t.Fatalf("expected ErrSignedURLTTLInvalid, got %v", err)
	}
}
