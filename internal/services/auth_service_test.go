package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartclinic-server/internal/cache"
	"smartclinic-server/internal/config"
	"smartclinic-server/internal/models"
	"smartclinic-server/internal/repository"
	"smartclinic-server/internal/testutil"
	"smartclinic-server/internal/utils"
)

type authFixture struct {
	svc    *AuthService
	tokens *utils.TokenService
	users  *repository.UserRepository
	now    time.Time
}

func newAuthFixture(t *testing.T, withDenylist bool) *authFixture {
	t.Helper()

	f := &authFixture{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }

	tokens, err := utils.NewTokenService(config.JWTConfig{Secret: "secret", Algorithm: "HS256", ExpirationHours: 24})
	require.NoError(t, err)
	f.tokens = tokens.WithClock(clock)
	f.users = repository.NewUserRepository(testutil.NewDB(t))

	var denylist Denylist
	if withDenylist {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { client.Close() })
		denylist = cache.NewRedisDenylist(client)
	}

	f.svc = NewAuthService(f.users, f.tokens, denylist, zap.NewNop())
	f.svc.now = clock
	return f
}

func registration(email string) RegisterRequest {
	return RegisterRequest{Email: email, Password: "TestPass123!", FullName: "Dr. Test"}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()

	first, err := f.svc.Register(ctx, registration("doc@clinic.test"))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, RegisterRequest{Email: "DOC@clinic.test ", Password: "another-pass", FullName: "Impostor"})
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	login, err := f.svc.Authenticate(ctx, LoginRequest{Email: "doc@clinic.test", Password: "TestPass123!"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, login.User.ID)
	assert.Equal(t, "Dr. Test", login.User.FullName)
}

func TestAuthService_RegisterDefaultsAndResponse(t *testing.T) {
	f := newAuthFixture(t, false)

	res, err := f.svc.Register(context.Background(), registration("new@clinic.test"))
	require.NoError(t, err)

	assert.Equal(t, "bearer", res.TokenType)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, models.RoleDoctor, res.User.Role)
	assert.Equal(t, "new@clinic.test", res.User.Email)
	assert.True(t, res.User.CreatedAt.Equal(f.now))

	claims, err := f.tokens.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.AccountID())

	stored, err := f.users.FindByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "TestPass123!", stored.Password)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "nope", Password: "TestPass123!", FullName: "X"}},
		{"short password", RegisterRequest{Email: "a@b.test", Password: "short", FullName: "X"}},
		{"unknown role", RegisterRequest{Email: "a@b.test", Password: "TestPass123!", FullName: "X", Role: "janitor"}},
		{"missing name", RegisterRequest{Email: "a@b.test", Password: "TestPass123!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_AuthenticateFailures(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registration("nurse@clinic.test"))
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, LoginRequest{Email: "nurse@clinic.test", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Authenticate(ctx, LoginRequest{Email: "ghost@clinic.test", Password: "TestPass123!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ResolveToken(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, registration("doc@clinic.test"))
	require.NoError(t, err)

	session, err := f.svc.ResolveToken(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, session.User.ID)

	_, err = f.svc.ResolveToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	f.now = f.now.Add(25 * time.Hour)
	_, err = f.svc.ResolveToken(ctx, res.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthService_DeletedAccountTokenIsUnknown(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, registration("temp@clinic.test"))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAccount(ctx, res.User.ID))
	_, err = f.svc.ResolveToken(ctx, res.AccessToken)
	assert.ErrorIs(t, err, ErrUnknownAccount)

	assert.ErrorIs(t, f.svc.DeleteAccount(ctx, res.User.ID), ErrNotFound)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, registration("doc@clinic.test"))
	require.NoError(t, err)

	session, err := f.svc.ResolveToken(ctx, res.AccessToken)
	require.NoError(t, err)

	revoked, err := f.svc.Logout(ctx, session)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = f.svc.ResolveToken(ctx, res.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	again, err := f.svc.Authenticate(ctx, LoginRequest{Email: "doc@clinic.test", Password: "TestPass123!"})
	require.NoError(t, err)
	_, err = f.svc.ResolveToken(ctx, again.AccessToken)
	assert.NoError(t, err)
}

func TestAuthService_LogoutWithoutDenylist(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, registration("doc@clinic.test"))
	require.NoError(t, err)
	session, err := f.svc.ResolveToken(ctx, res.AccessToken)
	require.NoError(t, err)

	revoked, err := f.svc.Logout(ctx, session)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAuthService_ListAccounts(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registration("a@clinic.test"))
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)
	_, err = f.svc.Register(ctx, RegisterRequest{Email: "b@clinic.test", Password: "TestPass123!", FullName: "Admin", Role: "admin"})
	require.NoError(t, err)

	accounts, err := f.svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "a@clinic.test", accounts[0].Email)
	assert.Equal(t, models.RoleAdmin, accounts[1].Role)
}
