package middleware

import (
	"net/http"

	"github.com/rioporto/v5-rioporto-sub007/internal/models"
	"github.com/rioporto/v5-rioporto-sub007/internal/policy"
)

// Partial-content gates. Unlike the route guard these never redirect: a
// failed capability check renders the fallback message so the rest of the
// page stays usable.

// RequireRole allows the request through only when the role cookie matches
// one of the given roles.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signals := guardSignals(r)
			if !signals.Authenticated || !allowed[signals.Role] {
				http.Error(w, "Você não tem permissão para ver este conteúdo", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireKYC allows the request through only at or above the given KYC
// level.
func RequireKYC(minLevel int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signals := guardSignals(r)
			if !signals.Authenticated || signals.KYCLevel < minLevel {
				http.Error(w, "Verificação KYC necessária para este conteúdo", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func guardSignals(r *http.Request) policy.Signals {
	return policy.SignalsFromCookies(
		cookieValue(r, AuthTokenCookie),
		cookieValue(r, UserRoleCookie),
		cookieValue(r, KYCLevelCookie),
	)
}
