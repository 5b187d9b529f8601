package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hotelhub/internal/event"
	"hotelhub/internal/model"
	"hotelhub/internal/token"
)

type tokenVerifier interface {
	VerifyAccess(tokenString string) (*token.AccessClaims, error)
	VerifyRefresh(tokenString string) (*token.RefreshClaims, error)
	DecodeRefreshUnverified(tokenString string) (*token.RefreshClaims, error)
}

type tokenRevoker interface {
	FindByID(ctx context.Context, tokenID string, userID string) (model.RefreshTokenRecord, error)
	Invalidate(ctx context.Context, tokenID string) error
}

type userSource interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

type AuthMiddleware struct {
	verifier     tokenVerifier
	tokens       tokenRevoker
	users        userSource
	bus          event.Bus
	cookieName   string
	cookieSecure bool
}

func NewAuthMiddleware(verifier tokenVerifier, tokens tokenRevoker, users userSource, bus event.Bus, cookieName string, cookieSecure bool) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:     verifier,
		tokens:       tokens,
		users:        users,
		bus:          bus,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
	}
}

// RequireAuth gates protected routes. Each request is decided independently
// from its header and cookie; the outcome is one of allow, needs-refresh,
// or redirect-to-login.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			m.redirectToLogin(w)
			return
		}

		raw := strings.TrimSpace(header[len("Bearer "):])
		if !token.BearerShape(raw) {
			m.redirectToLogin(w)
			return
		}

		cookie, err := r.Cookie(m.cookieName)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			m.redirectToLogin(w)
			return
		}

		access, err := m.verifier.VerifyAccess(raw)
		if err != nil {
			// Access token invalid or expired: the client should hit the
			// refresh endpoint and retry.
			writeAuthJSON(w, http.StatusUnauthorized, model.NeedRefreshResponse{NeedRefresh: true})
			return
		}

		if _, err := m.verifier.VerifyRefresh(cookie.Value); err != nil {
			m.revokeInBackground(cookie.Value)
			m.redirectToLogin(w)
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, access)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole loads the caller's user record and checks role membership.
// Roles are not carried in access-token claims, so this costs a lookup.
func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				m.redirectToLogin(w)
				return
			}

			user, err := m.users.FindByID(r.Context(), claims.UserID)
			if err != nil || !user.HasRole(role) {
				writeAuthJSON(w, http.StatusForbidden, model.APIResponse{Error: "insufficient permissions"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// revokeInBackground marks the stored record for a failed refresh cookie
// invalid. Best effort: the response never waits on it and failures are
// logged, not surfaced.
func (m *AuthMiddleware) revokeInBackground(cookieValue string) {
	claims, err := m.verifier.DecodeRefreshUnverified(cookieValue)
	if err != nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := m.tokens.FindByID(ctx, claims.TokenID(), claims.UserID); err != nil {
			if !errors.Is(err, model.ErrTokenNotFound) {
				slog.Warn("refresh token lookup failed during revocation", "token_id", claims.TokenID(), "error", err)
			}
			return
		}

		if err := m.tokens.Invalidate(ctx, claims.TokenID()); err != nil {
			slog.Warn("refresh token revocation failed", "token_id", claims.TokenID(), "error", err)
			m.publish(event.TypeTokenRevokeFailed, claims, err.Error())
			return
		}
		m.publish(event.TypeTokenRevoked, claims, "")
	}()
}

func (m *AuthMiddleware) publish(t event.Type, claims *token.RefreshClaims, errText string) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(event.Event{
		Type:       t,
		ActorID:    claims.UserID,
		ActorEmail: claims.Email,
		Detail:     map[string]any{"token_id": claims.TokenID()},
		Error:      errText,
	})
}

func (m *AuthMiddleware) redirectToLogin(w http.ResponseWriter) {
	clearRefreshCookie(w, m.cookieName, m.cookieSecure)
	writeAuthJSON(w, http.StatusUnauthorized, model.RedirectResponse{Redirect: "/login"})
}

func ClaimsFromContext(ctx context.Context) (*token.AccessClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*token.AccessClaims)
	return claims, ok
}

func clearRefreshCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func writeAuthJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
