package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-graph/internal/domain"
)

func TestUserCreateCmd(t *testing.T) {
	dbPath := testDBPath(t)

	out, err := runCLI(t, "--db", dbPath, "user", "create",
		"--email", "sam@example.com", "--name", "Sam", "--role", domain.RoleSupplier)
	require.NoError(t, err)

	var u domain.User
	require.NoError(t, json.Unmarshal([]byte(out), &u))
	assert.Positive(t, u.ID)
	assert.Equal(t, "sam@example.com", u.Email)
	assert.Equal(t, "Sam", u.Name)
	assert.Equal(t, domain.RoleSupplier, u.Role)
	assert.True(t, u.Active)
}

func TestUserCreateCmd_DuplicateEmail(t *testing.T) {
	dbPath := testDBPath(t)

	_, err := runCLI(t, "--db", dbPath, "user", "create",
		"--email", "sam@example.com", "--name", "Sam")
	require.NoError(t, err)

	_, err = runCLI(t, "--db", dbPath, "user", "create",
		"--email", "sam@example.com", "--name", "Other Sam")
	require.Error(t, err)
}

func TestUserCreateCmd_InvalidRole(t *testing.T) {
	_, err := runCLI(t, "--db", testDBPath(t), "user", "create",
		"--email", "sam@example.com", "--name", "Sam", "--role", "OWNER")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role")
}

func TestUserCreateCmd_RequiresEmail(t *testing.T) {
	_, err := runCLI(t, "--db", testDBPath(t), "user", "create", "--name", "Sam")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestUserListCmd(t *testing.T) {
	dbPath := testDBPath(t)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := runCLI(t, "--db", dbPath, "user", "create",
			"--email", email, "--name", "User "+email)
		require.NoError(t, err)
	}

	out, err := runCLI(t, "--db", dbPath, "user", "list")
	require.NoError(t, err)

	var users []domain.User
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	assert.Len(t, users, 2)
}

func TestMigrateCmd(t *testing.T) {
	out, err := runCLI(t, "--db", testDBPath(t), "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")
}
