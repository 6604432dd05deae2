package auth

import (
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	v := NewBcryptVerifier(string(hash))
	assert.True(t, v.Verify("secret"))
	assert.False(t, v.Verify("Secret"))
	assert.False(t, v.Verify(""))
}

func TestBcryptVerifierEscapedHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	escaped := cfg.EscapeHash(string(hash))
	assert.NotContains(t, escaped, "$")

	assert.True(t, NewBcryptVerifier(cfg.UnescapeHash(escaped)).Verify("secret"))
	assert.False(t, NewBcryptVerifier(escaped).Verify("secret"))
}

func TestBcryptVerifierInvalidHash(t *testing.T) {
	assert.False(t, NewBcryptVerifier("").Verify("secret"))
	assert.False(t, NewBcryptVerifier("not-a-hash").Verify("secret"))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.True(t, NewBcryptVerifier(hash).Verify("secret"))
}
