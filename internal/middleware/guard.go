package middleware

import (
	"net/http"
	"strings"

	"github.com/rioporto/v5-rioporto-sub007/internal/policy"
)

// Cookie names read by the guard. Values are opaque beyond presence and
// basic parsing; nothing here verifies the token.
const (
	AuthTokenCookie = "auth_token"
	UserRoleCookie  = "user_role"
	KYCLevelCookie  = "kyc_level"
)

// Security headers attached to every allowed page response.
const cspValue = "default-src 'self'; script-src 'self' 'unsafe-eval' 'unsafe-inline'; style-src 'self' 'unsafe-inline'"

// Prefixes the guard does not evaluate: API endpoints enforce their own
// checks and static assets are always public.
var skipPrefixes = []string{
	"/api/",
	"/static/",
	"/assets/",
	"/favicon.ico",
	"/health",
}

// Guard intercepts every page navigation, derives the auth signals from
// cookies, and applies the route policy. All outcomes are redirect or
// continue; missing or malformed cookies degrade to the most restrictive
// reading rather than erroring.
func Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		signals := policy.SignalsFromCookies(
			cookieValue(r, AuthTokenCookie),
			cookieValue(r, UserRoleCookie),
			cookieValue(r, KYCLevelCookie),
		)

		decision := policy.Evaluate(path, signals)
		if !decision.Allow {
			http.Redirect(w, r, decision.Location, http.StatusSeeOther)
			return
		}

		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", cspValue)

		next.ServeHTTP(w, r)
	})
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
