package middleware

import (
	"net/http"

	goSeal "github.com/MrEthical07/goSeal"
	"github.com/MrEthical07/goSeal/permission"
)

// RequirePermission wraps Guard with a single capability check: the
// validated token must hold a permission matching capability, or the request
// is rejected with 403.
func RequirePermission(engine *goSeal.Engine, capability string) func(http.Handler) http.Handler {
	return requireFunc(engine, func(granted []string) bool {
		return permission.Granted(granted, capability)
	})
}

// RequireAny wraps Guard and rejects with 403 unless the token grants at
// least one of the capabilities.
func RequireAny(engine *goSeal.Engine, capabilities ...string) func(http.Handler) http.Handler {
	return requireFunc(engine, func(granted []string) bool {
		return permission.HasAny(granted, capabilities)
	})
}

// RequireAll wraps Guard and rejects with 403 unless the token grants every
// one of the capabilities.
func RequireAll(engine *goSeal.Engine, capabilities ...string) func(http.Handler) http.Handler {
	return requireFunc(engine, func(granted []string) bool {
		return permission.HasAll(granted, capabilities)
	})
}

func requireFunc(engine *goSeal.Engine, allowed func(granted []string) bool) func(http.Handler) http.Handler {
	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		check := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || !allowed(claims.Permissions) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
		return guard(check)
	}
}
