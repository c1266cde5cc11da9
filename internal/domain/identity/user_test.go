package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	agencyID := uuid.New()

	t.Run("creates active user", func(t *testing.T) {
		user, err := NewUser(agencyID, "jamie@acme.example", "Jamie Doe", "passw0rd123", RoleManager)

		require.NoError(t, err)
		assert.Equal(t, agencyID, user.AgencyID)
		assert.Equal(t, "jamie@acme.example", user.Email)
		assert.Equal(t, "Jamie Doe", user.Name)
		assert.Equal(t, RoleManager, user.Role)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.True(t, user.VerifyPassword("passw0rd123"))
		assert.False(t, user.VerifyPassword("wrong"))
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("lowercases email", func(t *testing.T) {
		user, err := NewUser(agencyID, "Jamie@Acme.Example", "Jamie", "passw0rd123", RoleOwner)

		require.NoError(t, err)
		assert.Equal(t, "jamie@acme.example", user.Email)
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		user, err := NewUser(agencyID, "not-an-email", "Jamie", "passw0rd123", RoleOwner)

		assert.Error(t, err)
		assert.Nil(t, user)
	})

	t.Run("fails with weak password", func(t *testing.T) {
		user, err := NewUser(agencyID, "jamie@acme.example", "Jamie", "short", RoleOwner)

		assert.Error(t, err)
		assert.Nil(t, user)
	})

	t.Run("fails with password missing a number", func(t *testing.T) {
		user, err := NewUser(agencyID, "jamie@acme.example", "Jamie", "passwordonly", RoleOwner)

		assert.Error(t, err)
		assert.Nil(t, user)
	})

	t.Run("fails with unknown role", func(t *testing.T) {
		user, err := NewUser(agencyID, "jamie@acme.example", "Jamie", "passw0rd123", Role("ADMIN"))

		assert.Error(t, err)
		assert.Nil(t, user)
	})
}

func TestUser_ChangeRole(t *testing.T) {
	t.Run("changes role and records event", func(t *testing.T) {
		user, _ := NewUser(uuid.New(), "jamie@acme.example", "Jamie", "passw0rd123", RoleCollaborator)
		user.ClearDomainEvents()

		err := user.ChangeRole(RoleManager)

		require.NoError(t, err)
		assert.Equal(t, RoleManager, user.Role)
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("fails when role unchanged", func(t *testing.T) {
		user, _ := NewUser(uuid.New(), "jamie@acme.example", "Jamie", "passw0rd123", RoleManager)

		err := user.ChangeRole(RoleManager)

		assert.Error(t, err)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	t.Run("changes password with correct current password", func(t *testing.T) {
		user, _ := NewUser(uuid.New(), "jamie@acme.example", "Jamie", "passw0rd123", RoleOwner)

		err := user.ChangePassword("passw0rd123", "n3wpassword")

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("n3wpassword"))
		assert.False(t, user.VerifyPassword("passw0rd123"))
	})

	t.Run("fails with wrong current password", func(t *testing.T) {
		user, _ := NewUser(uuid.New(), "jamie@acme.example", "Jamie", "passw0rd123", RoleOwner)

		err := user.ChangePassword("wrong", "n3wpassword")

		assert.Error(t, err)
		assert.True(t, user.VerifyPassword("passw0rd123"))
	})
}

func TestUser_ActivateDeactivate(t *testing.T) {
	user, _ := NewUser(uuid.New(), "jamie@acme.example", "Jamie", "passw0rd123", RoleManager)

	require.NoError(t, user.Deactivate())
	assert.False(t, user.CanLogin())

	assert.Error(t, user.Deactivate())

	require.NoError(t, user.Activate())
	assert.True(t, user.CanLogin())

	assert.Error(t, user.Activate())
}

func TestRolePermissions(t *testing.T) {
	t.Run("owner permissions are a superset of manager", func(t *testing.T) {
		for _, perm := range PermissionsForRole(RoleManager) {
			assert.True(t, RoleHasPermission(RoleOwner, perm), "owner missing %s", perm)
		}
	})

	t.Run("manager permissions are a superset of collaborator", func(t *testing.T) {
		for _, perm := range PermissionsForRole(RoleCollaborator) {
			assert.True(t, RoleHasPermission(RoleManager, perm), "manager missing %s", perm)
		}
	})

	t.Run("collaborator cannot manage billing or members", func(t *testing.T) {
		assert.False(t, RoleHasPermission(RoleCollaborator, PermBillingManage))
		assert.False(t, RoleHasPermission(RoleCollaborator, PermUsersWrite))
		assert.False(t, RoleHasPermission(RoleCollaborator, PermPostsPublish))
	})

	t.Run("manager cannot manage billing", func(t *testing.T) {
		assert.False(t, RoleHasPermission(RoleManager, PermBillingManage))
		assert.True(t, RoleHasPermission(RoleManager, PermBillingRead))
	})

	t.Run("unknown role has no permissions", func(t *testing.T) {
		assert.Nil(t, PermissionsForRole(Role("ADMIN")))
	})
}
