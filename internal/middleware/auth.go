// Package middleware содержит HTTP middleware панели управления рестораном.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mmeshcher/restopanel-system/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// AuthMiddleware сопоставляет bearer-токен запроса активной сессии.
type AuthMiddleware struct {
	store *session.Store
}

// NewAuthMiddleware создаёт middleware аутентификации поверх хранилища сессий.
func NewAuthMiddleware(store *session.Store) *AuthMiddleware {
	return &AuthMiddleware{store: store}
}

// Middleware извлекает токен из заголовка Authorization и кладёт сессию
// в контекст запроса. Запросы с неизвестным или просроченным токеном
// отклоняются; просроченная сессия попутно удаляется из хранилища.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		s, ok := a.store.Get(token)
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if s.Expired(time.Now()) {
			a.store.Delete(token)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken извлекает bearer-токен из заголовка Authorization.
func BearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "

	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(h, prefix))
	return token, token != ""
}

// GetSessionFromContext извлекает сессию пользователя из контекста запроса.
func GetSessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok
}
