package repositories

import "context"

// IdentityDirectory reads users from the external identity provider
type IdentityDirectory interface {
	GetByID(ctx context.Context, externalID string) (*ExternalIdentity, error)
	GetByEmail(ctx context.Context, email string) (*ExternalIdentity, error)
}
