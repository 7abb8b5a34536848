// Package auth verifies OpenID Connect bearer tokens and carries the
// caller's identity through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/shoreline/pkg/handlers"
)

var (
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Identity is the verified caller of a protected route.
type Identity struct {
	Subject string `json:"subject"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Verifier turns a raw bearer token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

type identityKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by Middleware, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier discovers the issuer's provider metadata and returns an
// ID token verifier bound to the configured client ID.
func NewVerifier(ctx context.Context, cfg *Config) (Verifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}

	return &oidcVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (v *oidcVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var claims struct {
		Email             string `json:"email"`
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: claims: %w", ErrInvalidToken, err)
	}

	name := claims.Name
	if name == "" {
		name = claims.PreferredUsername
	}

	return &Identity{
		Subject: token.Subject,
		Email:   claims.Email,
		Name:    name,
	}, nil
}

// Middleware requires a valid bearer token on every request and stores the
// verified identity in the request context. A nil verifier disables the check.
func Middleware(v Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		if v == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrMissingToken)
				return
			}

			id, err := v.Verify(r.Context(), raw)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
