package authsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordDeterministic(t *testing.T) {
	salt, err := newSalt()
	require.NoError(t, err)
	assert.Len(t, salt, 32)

	h1 := hashPassword("secret-password", salt)
	h2 := hashPassword("secret-password", salt)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, hashPassword("secret-password", "othersalt"))
	assert.NotEqual(t, h1, hashPassword("other-password", salt))
}

func TestVerifyPassword(t *testing.T) {
	salt, err := newSalt()
	require.NoError(t, err)
	stored := hashPassword("secret-password", salt)

	assert.True(t, verifyPassword("secret-password", salt, stored))
	assert.False(t, verifyPassword("wrong-password", salt, stored))
	assert.False(t, verifyPassword("secret-password", salt, ""))
}

func TestNewSaltUnique(t *testing.T) {
	s1, err := newSalt()
	require.NoError(t, err)
	s2, err := newSalt()
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}
