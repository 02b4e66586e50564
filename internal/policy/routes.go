package policy

// Static route classification tables. Matching is by path prefix, so a child
// path inherits its parent's classification. These lists are the single
// source of truth consumed by both the edge middleware and the in-page
// capability gates.

var protectedRoutes = []string{
	"/dashboard",
	"/trade",
	"/portfolio",
	"/wallet",
	"/transactions",
	"/settings",
	"/admin",
}

var adminRoutes = []string{
	"/admin",
}

var kycRoutes = []string{
	"/trade",
	"/p2p",
	"/wallet/withdraw",
}

var publicRoutes = []string{
	"/",
	"/login",
	"/register",
	"/market",
	"/about",
}

// Redirect targets and the query parameters attached to them.
const (
	LoginPath     = "/login"
	RegisterPath  = "/register"
	DashboardPath = "/dashboard"
	KYCSetupPath  = "/settings/kyc"

	RedirectParam    = "redirect"
	KYCRequiredParam = "required"
)

func hasPrefixIn(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// IsProtected reports whether the path requires an authenticated session.
func IsProtected(path string) bool { return hasPrefixIn(path, protectedRoutes) }

// IsAdmin reports whether the path requires an ADMIN or MODERATOR role.
func IsAdmin(path string) bool { return hasPrefixIn(path, adminRoutes) }

// RequiresKYC reports whether the path requires KYC level 1 or above.
func RequiresKYC(path string) bool { return hasPrefixIn(path, kycRoutes) }

// IsPublic reports whether the path is explicitly public.
func IsPublic(path string) bool { return hasPrefixIn(path, publicRoutes) }
