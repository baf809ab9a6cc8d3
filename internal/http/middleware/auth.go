package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/satraksha/hazard-backend/internal/service"
)

// Ключи, под которыми идентификатор и роль пользователя
// кладутся в gin.Context после успешной проверки токена.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

const bearerPrefix = "Bearer "

// AuthMiddleware извлекает Bearer access токен из заголовка Authorization,
// проверяет подпись и срок действия и прокидывает userID и роль в контекст.
// Запрос без валидного токена до хэндлера не доходит.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "отсутствует заголовок Authorization с Bearer токеном"})
			return
		}

		raw := strings.TrimPrefix(auth, bearerPrefix)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "отсутствует заголовок Authorization с Bearer токеном"})
			return
		}

		userID, role, err := tokens.ParseAccess(raw)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access токен невалиден или истёк"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}
