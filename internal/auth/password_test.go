package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordManager_HashAndVerify(t *testing.T) {
	pm := NewPasswordManager()

	hash, err := pm.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	ok, err := pm.VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordManager_VerifyWrongPassword(t *testing.T) {
	pm := NewPasswordManager()

	hash, err := pm.HashPassword("pw1")
	require.NoError(t, err)

	ok, err := pm.VerifyPassword(hash, "pw2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordManager_HashesAreSalted(t *testing.T) {
	pm := NewPasswordManager()

	hash1, err := pm.HashPassword("same password")
	require.NoError(t, err)
	hash2, err := pm.HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}
