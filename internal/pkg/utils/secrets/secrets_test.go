package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	phc, err := HashPassword("hunter2hunter2", "pepper")
	require.NoError(t, err)
	assert.Contains(t, phc, "$argon2id$")

	ok, err := VerifyPassword("hunter2hunter2", "pepper", phc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("hunter2hunter2", "other-pepper", phc)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = VerifyPassword("wrong password", "pepper", phc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_RejectsShort(t *testing.T) {
	_, err := HashPassword("short", "pepper")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestHashPassword_SaltsAreUnique(t *testing.T) {
	a, err := HashPassword("same password", "pepper")
	require.NoError(t, err)
	b, err := HashPassword("same password", "pepper")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_RejectsForeignFormats(t *testing.T) {
	_, err := VerifyPassword("whatever1", "pepper", "$2b$10$bcrypthash")
	assert.Error(t, err)
}
