package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/identity"
)

// Headers set by the upstream gateway after it has authenticated the caller.
const (
	HeaderStaffID    = "X-Staff-ID"
	HeaderStaffRole  = "X-Staff-Role"
	HeaderStaffAdmin = "X-Staff-Admin"
)

// RequireStaff puts the caller's identity into the request context.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffID := strings.TrimSpace(r.Header.Get(HeaderStaffID))
		if staffID == "" {
			response.HandleError(w, identity.ErrMissingIdentity)
			return
		}

		role := r.Header.Get(HeaderStaffRole)
		if role != "" && !staff.Role(role).IsValid() {
			response.BadRequest(w, "Invalid staff role", map[string]string{
				"role": "role must be one of: " + strings.Join(staff.RoleValues, ", "),
			})
			return
		}

		isAdmin, _ := strconv.ParseBool(r.Header.Get(HeaderStaffAdmin))

		ctx := identity.WithIdentity(r.Context(), identity.Identity{
			StaffID: staffID,
			Role:    role,
			IsAdmin: isAdmin,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
