package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envspace/envspace/pkg/model"
	"github.com/envspace/envspace/pkg/store"
)

func TestRoleWithNoMembersHasEmptyList(t *testing.T) {
	gdb := testStore(t)
	roles := store.NewRoles(gdb)

	_, err := roles.Create(roleNamed("ops"))
	require.NoError(t, err)

	found, err := roles.FindByName("ops")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ops", found.Data.Name)

	// The outer join emits a null placeholder for a memberless role; the
	// list must come back empty, not as a user with null identity.
	assert.NotNil(t, found.Data.Users)
	assert.Empty(t, found.Data.Users)
}

func TestRoleFindAbsent(t *testing.T) {
	gdb := testStore(t)
	roles := store.NewRoles(gdb)

	found, err := roles.FindByName("nope")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRoleCreateDuplicate(t *testing.T) {
	gdb := testStore(t)
	roles := store.NewRoles(gdb)

	_, err := roles.Create(roleNamed("ops"))
	require.NoError(t, err)

	_, err = roles.Create(roleNamed("ops"))
	require.Error(t, err)
	assert.True(t, store.IsConstraintViolation(err))
}

func TestRoleAddUserUpdatesBothMirrors(t *testing.T) {
	gdb := testStore(t)
	roles := store.NewRoles(gdb)
	users := store.NewUsers(gdb)

	role, err := roles.Create(roleNamed("ops"))
	require.NoError(t, err)
	user, err := users.Create(model.User{Email: "dev@example.com", Password: "digest"})
	require.NoError(t, err)

	require.NoError(t, role.AddUser(user))

	require.Len(t, role.Data.Users, 1)
	assert.Equal(t, "dev@example.com", role.Data.Users[0].Email)
	require.Len(t, user.Data.Roles, 1)
	assert.Equal(t, "ops", user.Data.Roles[0].Name)

	// and the join row is durable
	found, err := roles.FindByName("ops")
	require.NoError(t, err)
	require.Len(t, found.Data.Users, 1)
	assert.Equal(t, "dev@example.com", found.Data.Users[0].Email)
}

func TestRoleRemoveUserUpdatesBothMirrors(t *testing.T) {
	gdb := testStore(t)
	roles := store.NewRoles(gdb)
	users := store.NewUsers(gdb)

	role, err := roles.Create(roleNamed("ops"))
	require.NoError(t, err)
	user, err := users.Create(model.User{Email: "dev@example.com", Password: "digest"})
	require.NoError(t, err)

	require.NoError(t, role.AddUser(user))
	require.NoError(t, role.RemoveUser(user))

	assert.Empty(t, role.Data.Users)
	assert.Empty(t, user.Data.Roles)
	assert.Equal(t, 0, countRows(t, gdb, `SELECT COUNT(*) FROM UserRoles`))
}

func TestRoleAddUserDuplicatePair(t *testing.T) {
	gdb := testStore(t)
	roles := store.NewRoles(gdb)
	users := store.NewUsers(gdb)

	role, err := roles.Create(roleNamed("ops"))
	require.NoError(t, err)
	user, err := users.Create(model.User{Email: "dev@example.com", Password: "digest"})
	require.NoError(t, err)

	require.NoError(t, role.AddUser(user))

	err = role.AddUser(user)
	require.Error(t, err)
	assert.True(t, store.IsConstraintViolation(err))

	// failed insert patched neither mirror
	assert.Len(t, role.Data.Users, 1)
	assert.Len(t, user.Data.Roles, 1)
}

func TestRoleDeleteDoesNotCascade(t *testing.T) {
	gdb := testStore(t)
	roles := store.NewRoles(gdb)
	users := store.NewUsers(gdb)

	role, err := roles.Create(roleNamed("ops"))
	require.NoError(t, err)
	user, err := users.Create(model.User{Email: "dev@example.com", Password: "digest"})
	require.NoError(t, err)
	require.NoError(t, role.AddUser(user))

	err = role.Delete()
	require.Error(t, err)
	assert.True(t, store.IsConstraintViolation(err))

	require.NoError(t, role.RemoveUser(user))
	require.NoError(t, role.Delete())
}
