package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret12")
	require.NoError(t, err)
	assert.NotEqual(t, "secret12", hash)

	assert.True(t, CheckPassword(hash, "secret12"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
