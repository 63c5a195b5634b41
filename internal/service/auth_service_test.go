package service

import (
	"context"
	"testing"

	"pulse-chat-be/internal/dto"
	"pulse-chat-be/internal/model"
	"pulse-chat-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byId    map[uuid.UUID]*model.User
	byEmail map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byId:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.byId[user.Id] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) FindById(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return f.byId[id], nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) delete(id uuid.UUID) {
	if u, ok := f.byId[id]; ok {
		delete(f.byEmail, u.Email)
		delete(f.byId, id)
	}
}

func newAuthFixture(t *testing.T) (IAuthService, *fakeUserRepo) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newFakeUserRepo()
	return NewAuthService(repo, memory.NewIdentityCache()), repo
}

func registerAndLogin(t *testing.T, svc IAuthService) *dto.LoginResponse {
	t.Helper()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "alice@example.com",
		FullName: "Alice Demo",
		Password: "password123",
	})
	require.NoError(t, err)

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return login
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "new@example.com",
			FullName: "New User",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resp.Id)
		assert.Equal(t, "new@example.com", resp.Email)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "new@example.com",
			FullName: "Other User",
			Password: "password123",
		})
		assert.Error(t, err)
	})

	t.Run("validation rejects short password", func(t *testing.T) {
		_, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "short@example.com",
			FullName: "Short Pass",
			Password: "abc",
		})
		assert.Error(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	login := registerAndLogin(t, svc)
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "alice@example.com", login.User.Email)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong-password",
		})
		assert.Error(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})
		assert.Error(t, err)
	})
}

func TestAuthService_Verify(t *testing.T) {
	t.Run("valid token resolves the identity", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		login := registerAndLogin(t, svc)

		identity, err := svc.Verify(context.Background(), login.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, login.User.Id, identity.Id)
		assert.Equal(t, "Alice Demo", identity.FullName)
	})

	t.Run("cache serves repeat verifications", func(t *testing.T) {
		svc, repo := newAuthFixture(t)
		login := registerAndLogin(t, svc)

		_, err := svc.Verify(context.Background(), login.AccessToken)
		require.NoError(t, err)

		// Even with the user gone from the store, the cached identity
		// still resolves until it expires.
		repo.delete(login.User.Id)
		identity, err := svc.Verify(context.Background(), login.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, login.User.Id, identity.Id)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.Verify(context.Background(), "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("empty token", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.Verify(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("token for an unknown user", func(t *testing.T) {
		svc, repo := newAuthFixture(t)
		login := registerAndLogin(t, svc)

		repo.delete(login.User.Id)
		_, err := svc.Verify(context.Background(), login.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		login := registerAndLogin(t, svc)

		t.Setenv("JWT_SECRET", "rotated-secret")
		_, err := svc.Verify(context.Background(), login.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})
}
