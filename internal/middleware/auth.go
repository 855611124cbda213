// Package middleware содержит HTTP middleware для сервиса petcare.
package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// TokenAuth проверяет bearer-токен в заголовке Authorization.
// С пустым токеном пропускает все запросы.
type TokenAuth struct {
	digest []byte
}

// NewTokenAuth создаёт TokenAuth для токена token.
func NewTokenAuth(token string) *TokenAuth {
	if token == "" {
		return &TokenAuth{}
	}
	return &TokenAuth{digest: digest(token)}
}

// Enabled сообщает, требуется ли токен.
func (a *TokenAuth) Enabled() bool {
	return a != nil && len(a.digest) > 0
}

// Middleware отклоняет запросы без верного токена со статусом 401.
func (a *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		// сравниваем дайджесты, чтобы время сравнения не зависело от длины токена
		if !hmac.Equal(digest(strings.TrimPrefix(header, bearerPrefix)), a.digest) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func digest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
