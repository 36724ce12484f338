package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/password"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		hash, err := password.Hash("Passw0rd!")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"))
		assert.True(t, password.Verify("Passw0rd!", hash))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		t.Parallel()

		hash, err := password.Hash("Passw0rd!")
		require.NoError(t, err)
		assert.False(t, password.Verify("passw0rd!", hash))
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		t.Parallel()

		h1, err := password.Hash("Passw0rd!")
		require.NoError(t, err)
		h2, err := password.Hash("Passw0rd!")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2, "bcrypt salts must differ")
	})

	t.Run("malformed hash reports false", func(t *testing.T) {
		t.Parallel()

		assert.False(t, password.Verify("anything", "not-a-bcrypt-hash"))
		assert.False(t, password.Verify("anything", ""))
	})
}

func TestHashWithCost(t *testing.T) {
	t.Parallel()

	t.Run("low cost for tests", func(t *testing.T) {
		t.Parallel()

		hash, err := password.HashWithCost("Passw0rd!", 4)
		require.NoError(t, err)
		assert.True(t, password.Verify("Passw0rd!", hash))
	})

	t.Run("cost out of range", func(t *testing.T) {
		t.Parallel()

		_, err := password.HashWithCost("Passw0rd!", 99)
		assert.Error(t, err)
	})
}
