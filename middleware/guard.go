package middleware

import (
	"context"
	"net/http"
	"strings"

	goSeal "github.com/MrEthical07/goSeal"
	"github.com/MrEthical07/goSeal/token"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the claims a guard stored for the request, if any.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(claimsContextKey{}).(*token.Claims)
	return c, ok
}

// Guard returns middleware that validates the request's bearer token through
// the engine and stores the resulting claims in the request context. Requests
// without a well-formed Authorization header, or whose token fails
// validation, are rejected with 401 before the wrapped handler runs.
func Guard(engine *goSeal.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			tok, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := engine.Validate(r.Context(), tok)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	tok := value[len(bearer):]
	if tok == "" {
		return "", false
	}

	return tok, true
}
