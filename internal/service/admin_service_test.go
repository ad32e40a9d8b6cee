package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-admin-go/internal/config"
	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
)

type adminFixture struct {
	svc   AdminService
	users repository.UserRepository
	roles repository.RoleRepository
	depts DepartmentService
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	db := setupTestDB(t)
	f := &adminFixture{
		users: repository.NewUserRepository(db),
		roles: repository.NewRoleRepository(db),
		depts: newDepartmentService(db, config.TreeKindConfig{}),
	}
	f.svc = NewAdminService(f.users, f.roles, repository.NewMemberLevelRepository(db), f.depts)
	return f
}

func (f *adminFixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Password: "x", Status: model.StatusEnabled}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func TestAdmin_ListUsersByDepartmentSubtree(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	root, mid, leaf := seedDepartments(t, f.depts)

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	require.NoError(t, f.svc.AssignDepartment(ctx, alice.ID, leaf.ID))
	require.NoError(t, f.svc.AssignDepartment(ctx, bob.ID, mid.ID))
	require.NoError(t, f.svc.AssignDepartment(ctx, carol.ID, root.ID))

	res, err := f.svc.ListUsers(ctx, UserListQuery{DeptID: mid.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.TotalElements)
	require.Len(t, res.Content, 2)
	assert.Equal(t, "alice", res.Content[0].Username)
	assert.Equal(t, "总部 / 研发部 / 后端组", res.Content[0].DeptPath)
	assert.Equal(t, "总部 / 研发部", res.Content[1].DeptPath)

	page, err := f.svc.ListUsers(ctx, UserListQuery{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "carol", page.Content[0].Username)
}

func TestAdmin_AssignValidatesTargets(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	u := f.user(t, "dave")

	missingRole := uint(42)
	assert.ErrorIs(t, f.svc.AssignRole(ctx, u.ID, &missingRole), ErrInvalidArgument)
	assert.ErrorIs(t, f.svc.AssignDepartment(ctx, u.ID, "missing"), ErrInvalidArgument)
	missingLevel := uint(7)
	assert.ErrorIs(t, f.svc.AssignMemberLevel(ctx, u.ID, &missingLevel), ErrInvalidArgument)
	assert.ErrorIs(t, f.svc.AssignRole(ctx, 999, nil), ErrNotFound)

	role := &model.Role{Name: "运营", Code: "ops", Status: model.StatusEnabled}
	require.NoError(t, f.roles.Create(ctx, role))
	require.NoError(t, f.svc.AssignRole(ctx, u.ID, &role.ID))
	got, err := f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ops", got.RoleCode())

	require.NoError(t, f.svc.AssignRole(ctx, u.ID, nil))
	got, err = f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RoleID)
}

func TestAdmin_SetStatus(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	u := f.user(t, "erin")

	assert.ErrorIs(t, f.svc.SetStatus(ctx, u.ID, 3), ErrInvalidArgument)
	require.NoError(t, f.svc.SetStatus(ctx, u.ID, model.StatusDisabled))

	disabled := model.StatusDisabled
	res, err := f.svc.ListUsers(ctx, UserListQuery{Status: &disabled})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.Equal(t, u.ID, res.Content[0].UserID)
}
