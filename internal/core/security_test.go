// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	t.Parallel()

	for _, scheme := range []string{SchemeArgon2id, SchemeBcrypt, SchemePBKDF2SHA256} {
		t.Run(scheme, func(t *testing.T) {
			t.Parallel()

			h, err := NewPasswordHasher(scheme)
			require.NoError(t, err)
			assert.Equal(t, scheme, h.Scheme())

			encoded, err := h.Hash("monstera deliciosa")
			require.NoError(t, err)
			assert.NotContains(t, encoded, "monstera")

			ok, err := h.Verify("monstera deliciosa", encoded)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Verify("monstera adansonii", encoded)
			require.NoError(t, err)
			assert.False(t, ok)

			again, err := h.Hash("monstera deliciosa")
			require.NoError(t, err)
			assert.NotEqual(t, encoded, again, "salt must differ per hash")
		})
	}
}

func TestPasswordHasherFormats(t *testing.T) {
	t.Parallel()

	argon, err := NewPasswordHasher(SchemeArgon2id)
	require.NoError(t, err)
	encoded, err := argon.Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	pbkdf, err := NewPasswordHasher(SchemePBKDF2SHA256)
	require.NoError(t, err)
	encoded, err = pbkdf.Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$pbkdf2-sha256$29000$"))
	assert.NotContains(t, encoded, "+")
}

func TestPasswordHasherMalformedHash(t *testing.T) {
	t.Parallel()

	for _, scheme := range []string{SchemeArgon2id, SchemeBcrypt, SchemePBKDF2SHA256} {
		h, err := NewPasswordHasher(scheme)
		require.NoError(t, err)

		ok, err := h.Verify("pw", "not-a-hash")
		assert.Error(t, err, scheme)
		assert.False(t, ok, scheme)
	}
}

func TestBcryptTruncatesLongPasswords(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(SchemeBcrypt)
	require.NoError(t, err)

	base := strings.Repeat("a", 72)
	encoded, err := h.Hash(base + "tail")
	require.NoError(t, err)

	ok, err := h.Verify(base+"different", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewPasswordHasherUnknownScheme(t *testing.T) {
	t.Parallel()

	_, err := NewPasswordHasher("md5")
	assert.Error(t, err)
}

func TestTimingSafeVerifier(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(SchemePBKDF2SHA256)
	require.NoError(t, err)
	v, err := NewTimingSafeVerifier(h)
	require.NoError(t, err)

	ok, err := v.Verify("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	empty := ""
	ok, err = v.Verify("anything", &empty)
	require.NoError(t, err)
	assert.False(t, ok)

	encoded, err := h.Hash("fiddle leaf")
	require.NoError(t, err)
	ok, err = v.Verify("fiddle leaf", &encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConstantTimeEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, ConstantTimeEqual("key", "key"))
	assert.False(t, ConstantTimeEqual("key", "kez"))
	assert.False(t, ConstantTimeEqual("key", "keys"))
}
