package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/token"
)

type memoryBlacklist struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func (b *memoryBlacklist) Add(_ context.Context, tokenString string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[tokenString] = struct{}{}
	return nil
}

func (b *memoryBlacklist) Contains(_ context.Context, tokenString string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.tokens[tokenString]
	return ok, nil
}

type userFixture struct {
	svc       UserService
	users     repository.UserRepository
	levels    repository.MemberLevelRepository
	blacklist *memoryBlacklist
	jwt       *token.JWTManager
}

func newUserFixture(t *testing.T) *userFixture {
	db := setupTestDB(t)
	f := &userFixture{
		users:     repository.NewUserRepository(db),
		levels:    repository.NewMemberLevelRepository(db),
		blacklist: &memoryBlacklist{tokens: map[string]struct{}{}},
		jwt:       token.NewJWTManager("test-secret", 1, 1),
	}
	f.svc = NewUserService(f.users, f.levels, f.blacklist, f.jwt)
	return f
}

func TestUserService_RegisterAttachesDefaultLevel(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	level := &model.MemberLevel{Name: "普通会员", Discount: 100, IsDefault: true, Status: model.StatusEnabled}
	require.NoError(t, f.levels.Create(ctx, level))

	u, err := f.svc.Register(ctx, "alice", "s3cret!")
	require.NoError(t, err)
	require.NotNil(t, u.MemberLevelID)
	assert.Equal(t, level.ID, *u.MemberLevelID)
	assert.NotEqual(t, "s3cret!", u.Password)

	_, err = f.svc.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUserService_Login(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	u, err := f.svc.Register(ctx, "bob", "pa55word")
	require.NoError(t, err)

	_, _, err = f.svc.Login(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, _, err = f.svc.Login(ctx, "nobody", "pa55word")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	access, refresh, err := f.svc.Login(ctx, "bob", "pa55word")
	require.NoError(t, err)
	claims, err := f.jwt.VerifyTokenOfType(access, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	_, err = f.jwt.VerifyTokenOfType(refresh, token.TypeRefresh)
	require.NoError(t, err)

	u.Status = model.StatusDisabled
	require.NoError(t, f.users.Update(ctx, u))
	_, _, err = f.svc.Login(ctx, "bob", "pa55word")
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestUserService_RefreshRotatesToken(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "carol", "pa55word")
	require.NoError(t, err)
	access, refresh, err := f.svc.Login(ctx, "carol", "pa55word")
	require.NoError(t, err)

	// access token 不能用来续期
	_, _, err = f.svc.RefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, newRefresh, err := f.svc.RefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.NotEqual(t, refresh, newRefresh)

	// 旧 refresh token 已被拉黑，新的仍然可用
	_, _, err = f.svc.RefreshToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, _, err = f.svc.RefreshToken(ctx, newRefresh)
	assert.NoError(t, err)
}

func TestUserService_LogoutBlacklistsToken(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "dave", "pa55word")
	require.NoError(t, err)
	access, _, err := f.svc.Login(ctx, "dave", "pa55word")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, access))
	revoked, err := f.blacklist.Contains(ctx, access)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = f.svc.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
