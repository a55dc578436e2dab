package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

const tokenIssuer = "academy-service"

// JWTClaims is the payload of a session token
type JWTClaims struct {
	Role models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// HashPassword hashes a password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// ===== LOCAL LOGIN =====

func (s *authService) Login(ctx context.Context, req *validator.LoginRequest) (*LoginResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.User().GetByEmail(ctx, s.db, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("Login rejected", "email", email)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ===== TOKENS =====

func (s *authService) IssueToken(user *models.User) (string, time.Time, error) {
	role := user.Role
	if role == "" {
		role = models.RoleStudent
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *authService) ParseToken(tokenString string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	role := claims.Role
	if role == "" {
		role = models.RoleStudent
	}
	return &TokenClaims{UserID: claims.Subject, Role: role}, nil
}

// ===== EXTERNAL IDENTITIES =====

func (s *authService) ResolveExternal(ctx context.Context, identity *repositories.ExternalIdentity) (*models.User, error) {
	if identity == nil || identity.ExternalID == "" {
		return nil, ErrUnauthorized
	}
	role := identity.Role
	if !role.IsValid() {
		role = models.RoleStudent
	}

	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.User().GetByExternalID(ctx, tx, identity.ExternalID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return err
		}

		if existing == nil && identity.Email != "" {
			existing, err = s.repo.User().GetByEmail(ctx, tx, strings.ToLower(identity.Email))
			if err != nil && !repositories.IsNotFoundError(err) {
				return err
			}
		}

		if existing == nil {
			user = &models.User{
				Name:       identity.Name,
				Email:      strings.ToLower(identity.Email),
				Role:       role,
				ExternalID: &identity.ExternalID,
			}
			if identity.Avatar != "" {
				user.Image = &identity.Avatar
			}
			return s.repo.User().Create(ctx, tx, user)
		}

		changed := existing.ExternalID == nil || *existing.ExternalID != identity.ExternalID || existing.Role != role
		if identity.Name != "" && existing.Name != identity.Name {
			existing.Name = identity.Name
			changed = true
		}
		existing.ExternalID = &identity.ExternalID
		existing.Role = role
		user = existing
		if !changed {
			return nil
		}
		return s.repo.User().Update(ctx, tx, existing)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve external user: %w", err)
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account or promotes an existing one
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.repo.User().GetByEmail(ctx, s.db, email)
	if err != nil && !repositories.IsNotFoundError(err) {
		return fmt.Errorf("failed to get admin: %w", err)
	}
	if existing != nil {
		if existing.Role == models.RoleAdmin {
			return nil
		}
		existing.Role = models.RoleAdmin
		return s.repo.User().Update(ctx, s.db, existing)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Name:         "Admin",
		Email:        email,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}
	if err := s.repo.User().Create(ctx, s.db, admin); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("Admin account created", "email", email)
	return nil
}
