package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/satprep-api/internal/config"
	"github.com/yourusername/satprep-api/pkg/auth"
)

// Имя куки с access-токеном
const accessTokenCookie = "access_token"

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	jwtService *auth.JWTService
	cfg        *config.Config
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(jwtService *auth.JWTService, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		cfg:        cfg,
	}
}

// extractToken достает токен из куки или заголовка Authorization
func extractToken(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(accessTokenCookie); err == nil && cookie != "" {
		return cookie, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth проверяет, аутентифицирован ли пользователь
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("is_admin", m.cfg.Admin.IsAdminEmail(claims.Email))

		c.Next()
	}
}

// OptionalAuth извлекает личность пользователя, если токен предъявлен,
// но пропускает запрос и без него. Используется публичным потоком ревью.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := m.jwtService.ParseToken(token)
		if err != nil {
			// Битый токен на публичном маршруте трактуем как анонимный запрос
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// AdminOnly проверяет, входит ли email пользователя в allow-list админов.
// Должен применяться ПОСЛЕ RequireAuth.
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user_id"); !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		isAdmin, exists := c.Get("is_admin")
		if !exists || !isAdmin.(bool) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin rights required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOrAPIKey пропускает либо админскую сессию, либо Bearer API-ключ из
// allow-list конфигурации. Используется endpoint'ами генерации, которые
// дергают и админка, и batch-скрипты.
func (m *AuthMiddleware) AdminOrAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Сначала пробуем API-ключ: batch-клиенты не имеют сессии
		authHeader := c.GetHeader("Authorization")
		if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
			if m.cfg.Admin.IsValidAPIKey(parts[1]) {
				c.Set("is_admin", true)
				c.Next()
				return
			}
		}

		token, ok := extractToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			c.Abort()
			return
		}
		if !m.cfg.Admin.IsAdminEmail(claims.Email) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin rights or a valid API key required"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("is_admin", true)
		c.Next()
	}
}
