// Package policy holds the route classification tables and the pure
// allow/redirect decision applied to every page navigation. It performs no
// I/O and never fails: missing or malformed signals degrade to the most
// restrictive interpretation.
package policy

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rioporto/v5-rioporto-sub007/internal/models"
)

// Signals are the request-derived inputs to a routing decision. The zero
// value means "anonymous visitor": unauthenticated, no role, KYC level 0.
type Signals struct {
	Authenticated bool
	Role          models.Role
	KYCLevel      int
}

// SignalsFromCookies builds Signals from raw cookie values. Any non-empty
// token counts as authenticated; an unparseable KYC value is level 0 and an
// unrecognized role stays unprivileged.
func SignalsFromCookies(token, role, kycLevel string) Signals {
	s := Signals{Authenticated: strings.TrimSpace(token) != ""}
	if r := models.Role(strings.TrimSpace(role)); r.Valid() {
		s.Role = r
	}
	if level, err := strconv.Atoi(strings.TrimSpace(kycLevel)); err == nil {
		s.KYCLevel = models.ClampKYC(level)
	}
	return s
}

// Decision is the outcome of evaluating a navigation. Location is set only
// when Allow is false.
type Decision struct {
	Allow    bool
	Location string
}

func redirect(location string) Decision {
	return Decision{Location: location}
}

// Evaluate applies the ordered guard checks to a request path. The order
// encodes precedence: authentication, then role, then KYC, then the
// login-page bounce. The first failing check wins; paths matching no table
// are allowed through.
func Evaluate(path string, s Signals) Decision {
	if IsProtected(path) && !s.Authenticated {
		return redirect(LoginPath + "?" + RedirectParam + "=" + url.QueryEscape(path))
	}
	if IsAdmin(path) && !s.Role.CanModerate() {
		return redirect(DashboardPath)
	}
	if RequiresKYC(path) && s.KYCLevel < models.KYCBasic {
		return redirect(KYCSetupPath + "?" + KYCRequiredParam + "=true")
	}
	if s.Authenticated && (strings.HasPrefix(path, LoginPath) || strings.HasPrefix(path, RegisterPath)) {
		return redirect(DashboardPath)
	}
	return Decision{Allow: true}
}
