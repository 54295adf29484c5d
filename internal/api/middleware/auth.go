package middleware

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey string

const (
	userIDKey  contextKey = "userID"
	isAdminKey contextKey = "isAdmin"

	// HeaderUserID заголовок с ID пользователя, проставляется API-шлюзом
	HeaderUserID = "X-User-ID"
	// HeaderUserRole заголовок с ролью пользователя
	HeaderUserRole = "X-User-Role"

	roleAdmin = "admin"
)

// Auth извлекает пользователя из заголовков и кладёт его в контекст запроса
// Запросы без корректного X-User-ID пропускаются дальше без пользователя
// в контексте - обработчики сами решают, требуется ли аутентификация
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if userIDStr := r.Header.Get(HeaderUserID); userIDStr != "" {
			if userID, err := strconv.ParseInt(userIDStr, 10, 64); err == nil && userID > 0 {
				ctx = context.WithValue(ctx, userIDKey, userID)
			}
		}

		if r.Header.Get(HeaderUserRole) == roleAdmin {
			ctx = context.WithValue(ctx, isAdminKey, true)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// IsAdmin возвращает true, если запрос сделан админом
func IsAdmin(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(isAdminKey).(bool)
	return ok && isAdmin
}

// RequireAdmin пропускает только запросы с ролью админа
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"доступ запрещен"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
