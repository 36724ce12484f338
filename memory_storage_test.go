package authkit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storageUser(email string) *User {
	now := time.Now()
	return &User{ID: uuid.New(), Email: email, CreatedAt: now, UpdatedAt: now}
}

func storageAccount(userID uuid.UUID, provider, externalID string) *Account {
	return &Account{
		ID:                uuid.New(),
		UserID:            userID,
		Method:            MethodOAuth,
		Provider:          provider,
		ProviderAccountID: externalID,
		CreatedAt:         time.Now(),
	}
}

func storageSession(userID uuid.UUID, token, refreshToken string) *Session {
	now := time.Now()
	return &Session{
		Token:            token,
		UserID:           userID,
		ExpiresAt:        now.Add(time.Hour),
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(24 * time.Hour),
		CreatedAt:        now,
	}
}

func TestMemoryStorage_Users(t *testing.T) {
	t.Parallel()

	t.Run("create and fetch", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))

		byID, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)

		byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		require.NoError(t, s.CreateUser(ctx, storageUser("alice@example.com")))

		err := s.CreateUser(ctx, storageUser("alice@example.com"))
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("unknown lookups", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()

		_, err := s.GetUser(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
		_, err = s.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("update maintains email index", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))

		user.Email = "alice.new@example.com"
		require.NoError(t, s.UpdateUser(ctx, user))

		_, err := s.GetUserByEmail(ctx, "alice@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
		found, err := s.GetUserByEmail(ctx, "alice.new@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("update to taken email", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		require.NoError(t, s.CreateUser(ctx, storageUser("bob@example.com")))
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))

		user.Email = "bob@example.com"
		err := s.UpdateUser(ctx, user)
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("update unknown user", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		err := s.UpdateUser(ctx, storageUser("ghost@example.com"))
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		verifiedAt := time.Now()
		user := storageUser("alice@example.com")
		user.EmailVerifiedAt = &verifiedAt
		require.NoError(t, s.CreateUser(ctx, user))

		got, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		got.Name = "Mutated"
		*got.EmailVerifiedAt = time.Time{}

		fresh, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, fresh.Name)
		assert.WithinDuration(t, verifiedAt, *fresh.EmailVerifiedAt, time.Second)
	})

	t.Run("delete cascades accounts and sessions", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))
		require.NoError(t, s.LinkAccount(ctx, storageAccount(user.ID, "google", "g-1")))
		require.NoError(t, s.CreateSession(ctx, storageSession(user.ID, "sess-1", "ref-1")))

		require.NoError(t, s.DeleteUser(ctx, user.ID))

		_, err := s.GetUser(ctx, user.ID)
		assert.ErrorIs(t, err, ErrUserNotFound)
		_, err = s.GetAccountByProvider(ctx, "google", "g-1")
		assert.ErrorIs(t, err, ErrAccountNotFound)
		_, _, err = s.GetSessionWithUser(ctx, "sess-1")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = s.GetSessionByRefreshToken(ctx, "ref-1")
		assert.ErrorIs(t, err, ErrSessionNotFound)

		// The email is free again.
		assert.NoError(t, s.CreateUser(ctx, storageUser("alice@example.com")))
	})
}

func TestMemoryStorage_TokenLookups(t *testing.T) {
	t.Parallel()

	s := NewMemoryStorage()
	ctx := context.Background()

	expiry := time.Now().Add(time.Hour)
	user := storageUser("alice@example.com")
	user.ResetToken = "reset-tok"
	user.ResetTokenExpiresAt = &expiry
	user.VerificationToken = "verify-tok"
	user.VerificationTokenExpiresAt = &expiry
	require.NoError(t, s.CreateUser(ctx, user))

	// A user without pending tokens must never match the empty string.
	require.NoError(t, s.CreateUser(ctx, storageUser("bob@example.com")))

	t.Run("reset token", func(t *testing.T) {
		found, err := s.GetUserByResetToken(ctx, "reset-tok")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = s.GetUserByResetToken(ctx, "wrong")
		assert.ErrorIs(t, err, ErrUserNotFound)
		_, err = s.GetUserByResetToken(ctx, "")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("verification token", func(t *testing.T) {
		found, err := s.GetUserByVerificationToken(ctx, "verify-tok")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = s.GetUserByVerificationToken(ctx, "wrong")
		assert.ErrorIs(t, err, ErrUserNotFound)
		_, err = s.GetUserByVerificationToken(ctx, "")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestMemoryStorage_Accounts(t *testing.T) {
	t.Parallel()

	t.Run("link and fetch", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))

		account := storageAccount(user.ID, "google", "g-1")
		require.NoError(t, s.LinkAccount(ctx, account))

		byProvider, err := s.GetAccountByProvider(ctx, "google", "g-1")
		require.NoError(t, err)
		assert.Equal(t, account.ID, byProvider.ID)

		byUser, err := s.GetAccountByUserAndProvider(ctx, user.ID, "google")
		require.NoError(t, err)
		assert.Equal(t, account.ID, byUser.ID)

		accounts, err := s.ListUserAccounts(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, accounts, 1)
	})

	t.Run("provider identity is unique", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		alice := storageUser("alice@example.com")
		bob := storageUser("bob@example.com")
		require.NoError(t, s.CreateUser(ctx, alice))
		require.NoError(t, s.CreateUser(ctx, bob))
		require.NoError(t, s.LinkAccount(ctx, storageAccount(alice.ID, "google", "g-1")))

		err := s.LinkAccount(ctx, storageAccount(bob.ID, "google", "g-1"))
		assert.ErrorIs(t, err, ErrAccountAlreadyLinked)
	})

	t.Run("one account per provider per user", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))
		require.NoError(t, s.LinkAccount(ctx, storageAccount(user.ID, "google", "g-1")))

		err := s.LinkAccount(ctx, storageAccount(user.ID, "google", "g-2"))
		assert.ErrorIs(t, err, ErrAccountAlreadyLinked)
	})

	t.Run("update keeps provider identity", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))
		account := storageAccount(user.ID, ProviderCredentials, user.ID.String())
		account.Method = MethodCredentials
		account.PasswordHash = "old-hash"
		require.NoError(t, s.LinkAccount(ctx, account))

		account.PasswordHash = "new-hash"
		account.ProviderAccountID = "tampered"
		require.NoError(t, s.UpdateAccount(ctx, account))

		stored, err := s.GetAccountByUserAndProvider(ctx, user.ID, ProviderCredentials)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", stored.PasswordHash)
		assert.Equal(t, user.ID.String(), stored.ProviderAccountID)
	})

	t.Run("update unknown account", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		err := s.UpdateAccount(ctx, storageAccount(uuid.New(), "google", "g-1"))
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("unlink", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))
		require.NoError(t, s.LinkAccount(ctx, storageAccount(user.ID, "google", "g-1")))

		require.NoError(t, s.UnlinkAccount(ctx, user.ID, "google"))

		_, err := s.GetAccountByProvider(ctx, "google", "g-1")
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.ErrorIs(t, s.UnlinkAccount(ctx, user.ID, "google"), ErrAccountNotFound)

		// The identity can be claimed again after unlinking.
		assert.NoError(t, s.LinkAccount(ctx, storageAccount(user.ID, "google", "g-1")))
	})
}

func TestMemoryStorage_Sessions(t *testing.T) {
	t.Parallel()

	t.Run("create and fetch with user", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))
		require.NoError(t, s.CreateSession(ctx, storageSession(user.ID, "sess-1", "ref-1")))

		session, sessionUser, err := s.GetSessionWithUser(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, "ref-1", session.RefreshToken)
		assert.Equal(t, user.ID, sessionUser.ID)

		byRefresh, err := s.GetSessionByRefreshToken(ctx, "ref-1")
		require.NoError(t, err)
		assert.Equal(t, "sess-1", byRefresh.Token)
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		_, _, err := s.GetSessionWithUser(ctx, "nope")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = s.GetSessionByRefreshToken(ctx, "nope")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("session without user", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		require.NoError(t, s.CreateSession(ctx, storageSession(uuid.New(), "orphan", "ref-orphan")))

		_, _, err := s.GetSessionWithUser(ctx, "orphan")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("empty refresh token never matches", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))
		// A session without a refresh token stores the empty string.
		require.NoError(t, s.CreateSession(ctx, storageSession(user.ID, "sess-1", "")))

		_, err := s.GetSessionByRefreshToken(ctx, "")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = s.RotateSessionRefreshToken(ctx, "", "ref-new",
			time.Now().Add(time.Hour), time.Now().Add(24*time.Hour))
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("update reindexes refresh token", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))
		session := storageSession(user.ID, "sess-1", "ref-1")
		require.NoError(t, s.CreateSession(ctx, session))

		session.RefreshToken = "ref-2"
		require.NoError(t, s.UpdateSession(ctx, session))

		_, err := s.GetSessionByRefreshToken(ctx, "ref-1")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		found, err := s.GetSessionByRefreshToken(ctx, "ref-2")
		require.NoError(t, err)
		assert.Equal(t, "sess-1", found.Token)
	})

	t.Run("delete removes refresh index", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))
		require.NoError(t, s.CreateSession(ctx, storageSession(user.ID, "sess-1", "ref-1")))

		require.NoError(t, s.DeleteSession(ctx, "sess-1"))

		_, _, err := s.GetSessionWithUser(ctx, "sess-1")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = s.GetSessionByRefreshToken(ctx, "ref-1")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.ErrorIs(t, s.DeleteSession(ctx, "sess-1"), ErrSessionNotFound)
	})

	t.Run("rotation swaps the refresh token", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))
		require.NoError(t, s.CreateSession(ctx, storageSession(user.ID, "sess-1", "ref-1")))

		expiresAt := time.Now().Add(2 * time.Hour)
		refreshExpiresAt := time.Now().Add(48 * time.Hour)
		rotated, err := s.RotateSessionRefreshToken(ctx, "ref-1", "ref-2", expiresAt, refreshExpiresAt)
		require.NoError(t, err)
		assert.Equal(t, "sess-1", rotated.Token)
		assert.Equal(t, "ref-2", rotated.RefreshToken)
		assert.Equal(t, expiresAt, rotated.ExpiresAt)
		assert.Equal(t, refreshExpiresAt, rotated.RefreshExpiresAt)

		_, err = s.GetSessionByRefreshToken(ctx, "ref-1")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		found, err := s.GetSessionByRefreshToken(ctx, "ref-2")
		require.NoError(t, err)
		assert.Equal(t, "sess-1", found.Token)

		// The redeemed token cannot rotate twice.
		_, err = s.RotateSessionRefreshToken(ctx, "ref-1", "ref-3", expiresAt, refreshExpiresAt)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("concurrent rotation has a single winner", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		user := storageUser("alice@example.com")
		require.NoError(t, s.CreateUser(ctx, user))
		require.NoError(t, s.CreateSession(ctx, storageSession(user.ID, "sess-1", "ref-old")))

		const racers = 10
		var wg sync.WaitGroup
		results := make(chan error, racers)
		expiresAt := time.Now().Add(time.Hour)
		refreshExpiresAt := time.Now().Add(24 * time.Hour)

		for i := range racers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				newToken := fmt.Sprintf("ref-new-%d", i)
				_, err := s.RotateSessionRefreshToken(ctx, "ref-old", newToken, expiresAt, refreshExpiresAt)
				results <- err
			}(i)
		}
		wg.Wait()
		close(results)

		var wins, losses int
		for err := range results {
			if err == nil {
				wins++
				continue
			}
			assert.ErrorIs(t, err, ErrSessionNotFound)
			losses++
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, racers-1, losses)
	})

	t.Run("delete user sessions counts", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStorage()
		ctx := context.Background()
		alice := storageUser("alice@example.com")
		bob := storageUser("bob@example.com")
		require.NoError(t, s.CreateUser(ctx, alice))
		require.NoError(t, s.CreateUser(ctx, bob))
		require.NoError(t, s.CreateSession(ctx, storageSession(alice.ID, "a-1", "ar-1")))
		require.NoError(t, s.CreateSession(ctx, storageSession(alice.ID, "a-2", "ar-2")))
		require.NoError(t, s.CreateSession(ctx, storageSession(bob.ID, "b-1", "br-1")))

		count, err := s.DeleteUserSessions(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		_, _, err = s.GetSessionWithUser(ctx, "a-1")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, _, err = s.GetSessionWithUser(ctx, "b-1")
		assert.NoError(t, err)

		count, err = s.DeleteUserSessions(ctx, alice.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
