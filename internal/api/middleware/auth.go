package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Заголовки аутентификации, проставляемые API-шлюзом
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderUserOrgID = "X-User-Org-ID"
)

const msgMissingUserID = "отсутствует ID пользователя"

type contextKey string

const (
	userIDKey    contextKey = "userID"
	userRoleKey  contextKey = "userRole"
	userOrgIDKey contextKey = "userOrgID"
)

// Auth middleware для аутентификации по заголовкам шлюза
// X-User-ID обязателен; X-User-Role и X-User-Org-ID опциональны
// (роль по умолчанию - visitor)
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)

		role := domain.RequesterRole(r.Header.Get(HeaderUserRole))
		if role == "" {
			role = domain.RoleVisitor
		}
		ctx = context.WithValue(ctx, userRoleKey, role)

		if orgIDStr := r.Header.Get(HeaderUserOrgID); orgIDStr != "" {
			if orgID, err := strconv.ParseInt(orgIDStr, 10, 64); err == nil && orgID > 0 {
				ctx = context.WithValue(ctx, userOrgIDKey, orgID)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetUserRole извлекает роль пользователя из контекста
func GetUserRole(ctx context.Context) (domain.RequesterRole, bool) {
	role, ok := ctx.Value(userRoleKey).(domain.RequesterRole)
	return role, ok
}

// GetUserOrgID извлекает ID организации пользователя из контекста
// Возвращает nil, если заголовок не был передан
func GetUserOrgID(ctx context.Context) *int64 {
	if orgID, ok := ctx.Value(userOrgIDKey).(int64); ok {
		return &orgID
	}
	return nil
}
