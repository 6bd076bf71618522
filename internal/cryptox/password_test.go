package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := HashPassword("pw1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))
	assert.NotContains(t, encoded, "pw1")

	assert.True(t, VerifyPassword(encoded, "pw1"))
	assert.False(t, VerifyPassword(encoded, "pw2"))
	assert.False(t, VerifyPassword(encoded, ""))
}

func TestHashUsesFreshSalt(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("", "pw"))
	assert.False(t, VerifyPassword("not-a-hash", "pw"))
	assert.False(t, VerifyPassword("$argon2id$v=19$m=65536,t=1,p=4$bad!$bad!", "pw"))
}
