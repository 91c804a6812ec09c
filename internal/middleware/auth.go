// Package middleware содержит HTTP middleware заглушки маркетплейса.
package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmeshcher/artmarket-system/internal/model"
)

type contextKey string

const userIDKey contextKey = "userID"

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// Authenticator выпускает и проверяет подписанные bearer-токены.
// Формат токена: userID.expiryUnix.hexSignature.
type Authenticator struct {
	secretKey []byte
}

// NewAuthenticator создаёт Authenticator с указанным секретным ключом.
// Пустой секрет заменяется случайным ключом.
func NewAuthenticator(secret string) *Authenticator {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &Authenticator{
		secretKey: key,
	}
}

// AccessToken выпускает access-токен для указанного пользователя.
func (a *Authenticator) AccessToken(userID string) string {
	return a.sign(userID, time.Now().Add(accessTokenTTL))
}

// RefreshToken выпускает refresh-токен для указанного пользователя.
func (a *Authenticator) RefreshToken(userID string) string {
	return a.sign(userID, time.Now().Add(refreshTokenTTL))
}

// Parse проверяет подпись и срок действия токена и возвращает идентификатор
// пользователя.
func (a *Authenticator) Parse(token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", false
	}

	userID, expiryStr, signature := parts[0], parts[1], parts[2]

	mac := hmac.New(sha256.New, a.secretKey)
	mac.Write([]byte(userID + "." + expiryStr))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", false
	}

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return "", false
	}
	if time.Now().Unix() > expiry {
		return "", false
	}

	return userID, true
}

// Middleware проверяет заголовок Authorization и добавляет идентификатор
// пользователя в контекст запроса.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			deny(w, http.StatusUnauthorized, "authorization required")
			return
		}

		userID, ok := a.Parse(token)
		if !ok {
			deny(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole пропускает запрос, только если роль пользователя удовлетворяет
// required. Роль разрешается по идентификатору из контекста через roleOf.
func RequireRole(required model.Role, roleOf func(userID string) (model.Role, bool)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "authorization required")
				return
			}

			role, ok := roleOf(userID)
			if !ok || !role.Satisfies(required) {
				deny(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *Authenticator) sign(userID string, expiry time.Time) string {
	payload := userID + "." + strconv.FormatInt(expiry.Unix(), 10)
	mac := hmac.New(sha256.New, a.secretKey)
	mac.Write([]byte(payload))
	return payload + "." + hex.EncodeToString(mac.Sum(nil))
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

// WithUserID кладёт идентификатор пользователя в контекст.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext извлекает идентификатор пользователя из контекста запроса.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}
