package casdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
)

// ErrIdentityNotFound is returned when Casdoor has no such user
var ErrIdentityNotFound = errors.New("identity not found")

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// userClient is the subset of the Casdoor SDK used by the directory
type userClient interface {
	GetUserByUserId(userId string) (*casdoorsdk.User, error)
	GetUserByEmail(email string) (*casdoorsdk.User, error)
}

type IdentityCasdoor struct {
	client userClient
	redis  *redis.Client

	// Cache settings
	cachePrefix string
	cacheTTL    time.Duration
}

// NewClient builds the Casdoor SDK client shared by the directory and the token middleware
func NewClient(config CasdoorConfig) *casdoorsdk.Client {
	return casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)
}

func NewIdentityCasdoor(client *casdoorsdk.Client, redisClient *redis.Client) repositories.IdentityDirectory {
	return newIdentityCasdoor(client, redisClient)
}

func newIdentityCasdoor(client userClient, redisClient *redis.Client) *IdentityCasdoor {
	return &IdentityCasdoor{
		client:      client,
		redis:       redisClient,
		cachePrefix: "identity:",
		cacheTTL:    15 * time.Minute,
	}
}

// ===== CACHE METHODS =====

func (i *IdentityCasdoor) getCacheKey(key string) string {
	return fmt.Sprintf("%s%s", i.cachePrefix, key)
}

// getFromCache returns nil without error on a miss or when redis is absent
func (i *IdentityCasdoor) getFromCache(ctx context.Context, key string) (*repositories.ExternalIdentity, error) {
	if i.redis == nil {
		return nil, nil
	}

	data, err := i.redis.Get(ctx, i.getCacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var identity repositories.ExternalIdentity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached identity: %w", err)
	}
	return &identity, nil
}

func (i *IdentityCasdoor) setCache(ctx context.Context, identity *repositories.ExternalIdentity) {
	if i.redis == nil {
		return
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return
	}

	pipe := i.redis.Pipeline()
	pipe.Set(ctx, i.getCacheKey("id:"+identity.ExternalID), data, i.cacheTTL)
	if identity.Email != "" {
		pipe.Set(ctx, i.getCacheKey("email:"+strings.ToLower(identity.Email)), data, i.cacheTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to cache identity", "error", err, "external_id", identity.ExternalID)
	}
}

// ===== CONVERSION =====

// FromCasdoorUser converts a Casdoor user, as found in token claims or API responses
func FromCasdoorUser(user *casdoorsdk.User) *repositories.ExternalIdentity {
	if user == nil {
		return nil
	}

	name := user.DisplayName
	if name == "" {
		name = user.Name
	}

	return &repositories.ExternalIdentity{
		ExternalID: user.Id,
		Name:       name,
		Email:      user.Email,
		Role:       MapRoles(user),
		Avatar:     user.Avatar,
	}
}

// MapRoles picks the academy role for a Casdoor user. Admin wins over any other role.
func MapRoles(user *casdoorsdk.User) models.UserRole {
	if user.IsAdmin {
		return models.RoleAdmin
	}

	var roles []models.UserRole
	for _, role := range user.Roles {
		if role == nil {
			continue
		}
		mapped := mapSingleRole(role.Name)
		if !slices.Contains(roles, mapped) {
			roles = append(roles, mapped)
		}
	}

	if slices.Contains(roles, models.RoleAdmin) {
		return models.RoleAdmin
	}
	if len(roles) == 0 {
		return models.RoleStudent
	}
	return roles[0]
}

func mapSingleRole(name string) models.UserRole {
	switch strings.ToLower(name) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "gestor", "manager":
		return models.RoleGestor
	case "vendedor", "seller", "sales":
		return models.RoleVendedor
	default:
		return models.RoleStudent
	}
}

// ===== READ OPERATIONS =====

func (i *IdentityCasdoor) GetByID(ctx context.Context, externalID string) (*repositories.ExternalIdentity, error) {
	if cached, err := i.getFromCache(ctx, "id:"+externalID); err == nil && cached != nil {
		return cached, nil
	}

	user, err := i.client.GetUserByUserId(externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", externalID, ErrIdentityNotFound)
	}

	identity := FromCasdoorUser(user)
	i.setCache(ctx, identity)
	return identity, nil
}

func (i *IdentityCasdoor) GetByEmail(ctx context.Context, email string) (*repositories.ExternalIdentity, error) {
	key := "email:" + strings.ToLower(email)
	if cached, err := i.getFromCache(ctx, key); err == nil && cached != nil {
		return cached, nil
	}

	user, err := i.client.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email from Casdoor: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", email, ErrIdentityNotFound)
	}

	identity := FromCasdoorUser(user)
	i.setCache(ctx, identity)
	return identity, nil
}
