package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/shift-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/identity"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := identity.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !caller.IsAdmin {
			response.HandleError(w, identity.ErrAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
