package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// Identity is the authenticated principal attached to a request context.
// It carries everything a handler may need about the caller and deliberately
// nothing about the credential — no hash ever rides on the context.
type Identity struct {
	ID       string
	Username string
	Name     string
}

// IdentityResolver turns a verified token subject (username) back into a full
// identity. Implemented by service.AuthService; defined here as an interface
// so this package stays independent of the service and repository layers.
type IdentityResolver interface {
	ResolveSubject(ctx context.Context, username string) (*Identity, error)
}

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the identity value.
type contextKey struct{}

var identityKey contextKey

// Authenticate returns the request authentication middleware.
//
// It runs once per request, before any access-policy check, and only ever
// populates context — rejecting unauthenticated requests is the policy's job,
// so this middleware never writes a 401 itself. For each request it:
//
//  1. Extracts the bearer token from the Authorization header. A missing or
//     non-Bearer header means "no token", which is not an error.
//  2. Passes through unchanged when there is no token, or when an identity is
//     already attached (the middleware is idempotent).
//  3. Verifies the token. Any failure — bad signature, expired, malformed —
//     is logged and the request continues unauthenticated.
//  4. Resolves the token subject to a live account. A subject that no longer
//     resolves (account deleted after issuance) also continues
//     unauthenticated.
//  5. Attaches the resolved Identity to the request context.
func Authenticate(tokens *TokenService, resolver IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || hasIdentity(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}

			subject, err := tokens.Verify(token)
			if err != nil {
				logger.Warn("token rejected",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolver.ResolveSubject(r.Context(), subject)
			if err != nil {
				// Valid token for an account that no longer exists.
				logger.Warn("token subject did not resolve",
					slog.String("subject", subject),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity from the request
// context. Returns (nil, false) when the request is anonymous.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}

// ContextWithIdentity returns a context carrying the given identity.
// Exported for tests that exercise policy enforcement directly.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func hasIdentity(ctx context.Context) bool {
	_, ok := IdentityFromContext(ctx)
	return ok
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" for a missing header or any other scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
