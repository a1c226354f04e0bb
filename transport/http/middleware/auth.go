package middleware

import (
	"context"
	"net/http"
	"strings"

	"toolhub/infras/otel"
	"toolhub/shared/constant"
	"toolhub/shared/failure"
	"toolhub/transport/http/response"
)

// Identity reads the caller forwarded by the gateway in front of the API.
// Authentication happens upstream; this layer only trusts and normalizes the headers,
// so the gateway must strip X-User-ID and X-User-Role from client requests.
type Identity interface {
	Identify(next http.Handler) http.Handler
	RequireIdentity(next http.Handler) http.Handler
}

type identityImpl struct {
	otel otel.Otel
}

func NewIdentityMiddleware(otel otel.Otel) Identity {
	return &identityImpl{
		otel: otel,
	}
}

// Identify stores the user id and role in the request context. An unknown role is
// downgraded to a plain user.
func (m *identityImpl) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "identity.middleware")

		userID := strings.TrimSpace(request.Header.Get(constant.RequestHeaderUserID))
		role := normalizeRole(request.Header.Get(constant.RequestHeaderUserRole))

		scope.SetAttributes(map[string]any{
			"middleware.type": "identity",
			"user.id":         userID,
			"user.role":       role,
		})
		scope.End()

		if userID != "" {
			ctx = context.WithValue(ctx, constant.ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)
		}

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RequireIdentity rejects requests that reached the handler without a caller.
func (m *identityImpl) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if userID, _ := request.Context().Value(constant.ContextKeyUserID).(string); userID == "" {
			response.WithError(writer, failure.Forbidden("missing caller identity"))

			return
		}

		next.ServeHTTP(writer, request)
	})
}

func normalizeRole(role string) string {
	switch role = strings.ToLower(strings.TrimSpace(role)); role {
	case constant.RoleAdmin, constant.RoleSuperAdmin:
		return role
	default:
		return constant.RoleUser
	}
}
