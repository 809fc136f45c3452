package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/BradenHooton/tourexpress/internal/models"
	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// AccountContextKey is the key for the authenticated account
	AccountContextKey contextKey = "account"
)

// LoginPath is where unauthenticated requests are redirected.
const LoginPath = "/login"

// SessionAuthenticator resolves a session token to an active account.
// Implementations are expected to bring admin accounts in line with the
// security-key invariant before returning.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Account, error)
}

// Authenticate is the session gate for protected routes. Requests without
// a valid session are sent to the login page with a next parameter.
func Authenticate(authenticator SessionAuthenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionTokenFromRequest(r)
			if token == "" {
				redirectToLogin(w, r)
				return
			}

			account, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				redirectToLogin(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

// RequireAdmin rejects authenticated non-administrators with 403. It must
// run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := AccountFromContext(r.Context())
		if account == nil {
			redirectToLogin(w, r)
			return
		}
		if !account.IsAdmin() {
			pkghttp.WriteForbidden(w, "Access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// WithAccount stores the authenticated account in ctx.
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, AccountContextKey, account)
}

// AccountFromContext returns the authenticated account, or nil.
func AccountFromContext(ctx context.Context) *models.Account {
	account, ok := ctx.Value(AccountContextKey).(*models.Account)
	if !ok {
		return nil
	}
	return account
}
