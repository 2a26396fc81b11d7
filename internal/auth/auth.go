package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var (
	ErrSecretRequired = errors.New("auth: signing secret is required")
	ErrMissingToken   = errors.New("auth: bearer token missing")
	ErrInvalidToken   = errors.New("auth: token invalid")
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrForbidden      = errors.New("auth: admin role required")
)

// Principal is the authenticated caller.
type Principal struct {
	UserID uuid.UUID
	Email  string
}

type principalKey struct{}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller stored by the middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Claims are the JWT claims accepted by the admin API. The subject carries
// the user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

func WithIssuer(issuer string) VerifierOption {
	return func(v *Verifier) {
		v.issuer = strings.TrimSpace(issuer)
	}
}

// WithLeeway tolerates clock skew when checking exp and nbf.
func WithLeeway(leeway time.Duration) VerifierOption {
	return func(v *Verifier) {
		if leeway > 0 {
			v.leeway = leeway
		}
	}
}

func WithClock(clock func() time.Time) VerifierOption {
	return func(v *Verifier) {
		if clock != nil {
			v.now = clock
		}
	}
}

func NewVerifier(secret string, opts ...VerifierOption) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretRequired
	}
	v := &Verifier{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify parses raw and returns the principal it names.
func (v *Verifier) Verify(raw string) (Principal, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "\"'")
	if raw == "" {
		return Principal{}, unauthorized(ErrMissingToken)
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}); err != nil {
		return Principal{}, unauthorized(fmt.Errorf("%w: %v", ErrInvalidToken, err))
	}

	now := v.now()
	if !claims.VerifyExpiresAt(now.Add(-v.leeway), true) {
		return Principal{}, unauthorized(ErrTokenExpired)
	}
	if !claims.VerifyNotBefore(now.Add(v.leeway), false) {
		return Principal{}, unauthorized(fmt.Errorf("%w: not yet valid", ErrInvalidToken))
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return Principal{}, unauthorized(fmt.Errorf("%w: issuer mismatch", ErrInvalidToken))
	}

	userID, err := uuid.Parse(strings.TrimSpace(claims.Subject))
	if err != nil || userID == uuid.Nil {
		return Principal{}, unauthorized(fmt.Errorf("%w: subject is not a user id", ErrInvalidToken))
	}
	return Principal{UserID: userID, Email: claims.Email}, nil
}

// IssueToken signs a token for userID valid for ttl. It backs the CLI and
// tests; end users obtain tokens from the identity provider.
func IssueToken(secret, issuer string, userID uuid.UUID, email string, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", ErrSecretRequired
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func unauthorized(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryAuth, "authentication required").
		WithTextCode("UNAUTHORIZED")
}

func forbidden(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryAuthz, "admin role required").
		WithTextCode("ADMIN_REQUIRED")
}
