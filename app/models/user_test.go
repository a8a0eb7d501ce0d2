package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("Jordan Smith", "jordan@example.com", "sup3rsecret")
	require.NoError(t, err)

	assert.Equal(t, "Jordan Smith", u.Name)
	assert.Equal(t, ROLE_STUDENT, u.Role)
	assert.Equal(t, STATUS_INACTIVE, u.Status)
	assert.NotEqual(t, "sup3rsecret", u.Password)
	assert.True(t, u.CheckPassword("sup3rsecret"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("Jo", "jordan@example.com", "sup3rsecret")
	assert.Error(t, err, "names shorter than 3 characters are rejected")

	_, err = CreateUser("Jordan Smith", "not-an-email", "sup3rsecret")
	assert.Error(t, err)
}

func TestGenerateActivationToken(t *testing.T) {
	u := &User{}
	require.NoError(t, u.GenerateActivationToken())

	assert.Len(t, u.ActivationToken, 32)
	assert.NotNil(t, u.ActivationSentAt)

	first := u.ActivationToken
	require.NoError(t, u.GenerateActivationToken())
	assert.NotEqual(t, first, u.ActivationToken)
}

func TestSetPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("newpassw0rd"))

	assert.True(t, u.CheckPassword("newpassw0rd"))
}

func TestUserRoles(t *testing.T) {
	assert.False(t, (&User{Role: ROLE_STUDENT}).IsAdmin())
	assert.False(t, (&User{Role: ROLE_STAFF}).IsAdmin())
	assert.True(t, (&User{Role: ROLE_ADMIN}).IsAdmin())
}
