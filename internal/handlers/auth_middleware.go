package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/services"
)

const (
	sessionName     = "academy_session"
	sessionTokenKey = "token"
)

// Authenticator resolves the caller of a request and stores it in the gin context
type Authenticator interface {
	AuthMiddleware() gin.HandlerFunc
}

// NewSessionStore builds the cookie store carrying the session token
func NewSessionStore(key string, maxAgeSeconds int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// TokenAuthMiddleware authenticates with the service's own tokens, read from
// the Authorization header or the session cookie
type TokenAuthMiddleware struct {
	auth  services.AuthService
	store sessions.Store
}

func NewTokenAuthMiddleware(auth services.AuthService, store sessions.Store) *TokenAuthMiddleware {
	return &TokenAuthMiddleware{auth: auth, store: store}
}

func (m *TokenAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}
		if token == "" {
			token = m.sessionToken(c)
		}
		if token == "" {
			abortUnauthorized(c, "authentication required")
			return
		}

		claims, err := m.auth.ParseToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired session")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

func (m *TokenAuthMiddleware) sessionToken(c *gin.Context) string {
	if m.store == nil {
		return ""
	}
	session, err := m.store.Get(c.Request, sessionName)
	if err != nil {
		return ""
	}
	token, _ := session.Values[sessionTokenKey].(string)
	return token
}

// bearerToken returns "" when no Authorization header is sent
func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", nil
	}
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return "", fmt.Errorf("invalid authorization header format")
	}
	return tokenParts[1], nil
}

func abortUnauthorized(c *gin.Context, details string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Message: services.ErrUnauthorized.Error(),
		Details: details,
	})
}

// RequireRoleMiddleware checks if user has required role. ADMIN always passes.
func RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRoleFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: services.ErrForbidden.Error(),
				Details: err.Error(),
			})
			return
		}

		if role == models.RoleAdmin {
			c.Next()
			return
		}
		for _, requiredRole := range requiredRoles {
			if role == requiredRole {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: services.ErrForbidden.Error(),
			Details: fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
		})
	}
}

// GetUserIDFromContext extracts user ID from Gin context
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}

// GetUserRoleFromContext extracts user role from Gin context
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get("user_role")
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}

	return role, nil
}
