package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)
	assert.True(t, strings.HasPrefix(digest, "$2a$"))

	assert.True(t, h.Verify("secret1", digest))
	assert.False(t, h.Verify("wrong", digest))
}

func TestBcryptHasher_UniqueSalts(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_MalformedDigestDoesNotMatch(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	for _, digest := range []string{"", "plaintext", "$2a$10$short", "$argon2id$v=19$m=1,t=1,p=1$x$y"} {
		assert.False(t, h.Verify("anything", digest), "digest %q", digest)
	}
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	h, err := NewBcryptHasher(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultHashCost, h.cost)

	_, err = NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
	_, err = NewBcryptHasher(1)
	assert.Error(t, err)
}
