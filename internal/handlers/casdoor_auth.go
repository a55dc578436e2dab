package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
	"github.com/SAP-F-2025/academy-service/internal/repositories/casdoor"
	"github.com/SAP-F-2025/academy-service/internal/services"
)

// tokenParser is the part of the Casdoor SDK client the middleware needs
type tokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// CasdoorAuthMiddleware authenticates Casdoor-issued tokens and maps the
// identity onto a local account
type CasdoorAuthMiddleware struct {
	client    tokenParser
	auth      services.AuthService
	directory repositories.IdentityDirectory
	logger    *slog.Logger
}

func NewCasdoorAuthMiddleware(client *casdoorsdk.Client, auth services.AuthService, directory repositories.IdentityDirectory, logger *slog.Logger) *CasdoorAuthMiddleware {
	return &CasdoorAuthMiddleware{
		client:    client,
		auth:      auth,
		directory: directory,
		logger:    logger,
	}
}

func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}
		if token == "" {
			abortUnauthorized(c, "authorization header missing")
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			abortUnauthorized(c, fmt.Sprintf("invalid token: %v", err))
			return
		}

		user, err := cam.extractUserFromClaims(c.Request.Context(), claims)
		if err != nil {
			abortUnauthorized(c, fmt.Sprintf("failed to extract user info: %v", err))
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role)
		c.Next()
	}
}

// extractUserFromClaims resolves the local account of the token subject.
// Tokens issued without an email are completed from the Casdoor directory.
func (cam *CasdoorAuthMiddleware) extractUserFromClaims(ctx context.Context, claims *casdoorsdk.Claims) (*models.User, error) {
	identity := casdoor.FromCasdoorUser(&claims.User)
	if identity == nil || identity.ExternalID == "" {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	if identity.Email == "" && cam.directory != nil {
		full, err := cam.directory.GetByID(ctx, identity.ExternalID)
		if err != nil {
			cam.logger.Warn("Failed to complete identity from directory",
				"external_id", identity.ExternalID,
				"error", err)
		} else {
			identity = full
		}
	}

	return cam.auth.ResolveExternal(ctx, identity)
}
