// Package admin guards back-office routes. Two layers: a static service token
// for machine access and JWT sessions for humans who logged in with an
// allow-listed email.
package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/platform/httputil"
)

type contextKey struct{}

var adminEmailKey = contextKey{}

// EmailFromContext returns the authenticated admin email, if any.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(adminEmailKey).(string)
	return email
}

// RequireToken admits requests carrying the exact service token. Constant-time
// comparison, same as any other credential check.
func RequireToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				logger.WarnContext(r.Context(), "admin token mismatch", "path", r.URL.Path)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Either admits requests that carry the service token or a valid session.
// Admin routes are mounted behind this so both machines and logged-in humans
// can reach them.
func Either(expectedToken string, sessions *Sessions, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if expectedToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			if raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && sessions != nil {
				if email, err := sessions.Verify(raw); err == nil {
					ctx := context.WithValue(r.Context(), adminEmailKey, email)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			logger.WarnContext(r.Context(), "admin request rejected", "path", r.URL.Path)
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "administrator credentials required"))
		})
	}
}

// Sessions issues and verifies short-lived admin session JWTs. The allow-list
// is explicit configuration, not process-global state.
type Sessions struct {
	signingKey []byte
	allowed    map[string]struct{}
	ttl        time.Duration
}

func NewSessions(signingKey string, allowedEmails []string, ttl time.Duration) *Sessions {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, email := range allowedEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			allowed[email] = struct{}{}
		}
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Sessions{signingKey: []byte(signingKey), allowed: allowed, ttl: ttl}
}

// IsAllowed reports whether the email is on the admin allow-list.
func (s *Sessions) IsAllowed(email string) bool {
	_, ok := s.allowed[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Issue creates a signed session token for an allow-listed email.
func (s *Sessions) Issue(email string) (string, error) {
	if !s.IsAllowed(email) {
		return "", dErrors.New(dErrors.CodeUnauthorized, "email is not an administrator")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strings.ToLower(strings.TrimSpace(email)),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		Issuer:    "sellarte",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign session token")
	}
	return signed, nil
}

// Verify parses a session token and returns the admin email.
func (s *Sessions) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !s.IsAllowed(claims.Subject) {
		return "", dErrors.New(dErrors.CodeUnauthorized, "session is not an administrator")
	}
	return claims.Subject, nil
}

// RequireSession admits requests with a valid Bearer session token.
func (s *Sessions) RequireSession(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "bearer token required"))
				return
			}
			email, err := s.Verify(raw)
			if err != nil {
				logger.WarnContext(r.Context(), "admin session rejected", "path", r.URL.Path)
				httputil.WriteError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), adminEmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
