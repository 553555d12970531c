package middleware

import (
	"net/http"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
)

// ErrorHandlerFunc writes err as the response.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Authenticate resolves the shop session for the request and stores it in the
// request context. Requests that fail authentication never reach next.
func Authenticate(authenticator auth.Authenticator, onError ErrorHandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := authenticator.Authenticate(r)
			if err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), session)))
		})
	}
}
