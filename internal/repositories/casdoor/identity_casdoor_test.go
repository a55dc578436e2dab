package casdoor

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/academy-service/internal/models"
)

type fakeClient struct {
	users map[string]*casdoorsdk.User
	calls int
}

func (f *fakeClient) GetUserByUserId(id string) (*casdoorsdk.User, error) {
	f.calls++
	return f.users[id], nil
}

func (f *fakeClient) GetUserByEmail(email string) (*casdoorsdk.User, error) {
	f.calls++
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func TestMapRoles(t *testing.T) {
	tests := []struct {
		name string
		user *casdoorsdk.User
		want models.UserRole
	}{
		{"no roles", &casdoorsdk.User{}, models.RoleStudent},
		{"admin flag", &casdoorsdk.User{IsAdmin: true}, models.RoleAdmin},
		{"seller", &casdoorsdk.User{Roles: []*casdoorsdk.Role{{Name: "Vendedor"}}}, models.RoleVendedor},
		{"admin wins", &casdoorsdk.User{Roles: []*casdoorsdk.Role{{Name: "gestor"}, {Name: "admin"}}}, models.RoleAdmin},
		{"first mapped", &casdoorsdk.User{Roles: []*casdoorsdk.Role{{Name: "manager"}, {Name: "sales"}}}, models.RoleGestor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapRoles(tt.user))
		})
	}
}

func TestIdentityCasdoor_GetByID_Cached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	client := &fakeClient{users: map[string]*casdoorsdk.User{
		"ext-1": {Id: "ext-1", Name: "ana", DisplayName: "Ana", Email: "ana@corp.com"},
	}}
	dir := newIdentityCasdoor(client, rdb)
	ctx := context.Background()

	identity, err := dir.GetByID(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", identity.Name)
	assert.Equal(t, models.RoleStudent, identity.Role)

	_, err = dir.GetByID(ctx, "ext-1")
	require.NoError(t, err)
	byEmail, err := dir.GetByEmail(ctx, "ANA@corp.com")
	require.NoError(t, err)
	assert.Equal(t, "ext-1", byEmail.ExternalID)
	assert.Equal(t, 1, client.calls)
}

func TestIdentityCasdoor_NotFound(t *testing.T) {
	dir := newIdentityCasdoor(&fakeClient{users: map[string]*casdoorsdk.User{}}, nil)

	_, err := dir.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}
