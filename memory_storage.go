package authkit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing; a single mutex makes every
// operation, including refresh token rotation, atomic.
type MemoryStorage struct {
	mu sync.RWMutex

	users        map[uuid.UUID]*User
	usersByEmail map[string]uuid.UUID // normalized email -> user ID

	accountsByProvider map[string]*Account               // provider/external ID -> account
	accountsByUser     map[uuid.UUID]map[string]*Account // user ID -> provider -> account

	sessions          map[string]*Session // session token -> session
	sessionsByRefresh map[string]string   // refresh token -> session token
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:              make(map[uuid.UUID]*User),
		usersByEmail:       make(map[string]uuid.UUID),
		accountsByProvider: make(map[string]*Account),
		accountsByUser:     make(map[uuid.UUID]map[string]*Account),
		sessions:           make(map[string]*Session),
		sessionsByRefresh:  make(map[string]string),
	}
}

func providerKey(provider, providerAccountID string) string {
	return provider + "\x00" + providerAccountID
}

func (s *MemoryStorage) CreateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[user.Email]; exists {
		return ErrEmailAlreadyExists
	}

	s.users[user.ID] = copyUser(user)
	s.usersByEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryStorage) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	return copyUser(user), nil
}

func (s *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.usersByEmail[email]
	if !exists {
		return nil, ErrUserNotFound
	}
	return copyUser(s.users[id]), nil
}

func (s *MemoryStorage) GetUserByResetToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUserNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ResetToken == token {
			return copyUser(user), nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStorage) GetUserByVerificationToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUserNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.VerificationToken == token {
			return copyUser(user), nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStorage) UpdateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.users[user.ID]
	if !exists {
		return ErrUserNotFound
	}

	if stored.Email != user.Email {
		if _, taken := s.usersByEmail[user.Email]; taken {
			return ErrEmailAlreadyExists
		}
		delete(s.usersByEmail, stored.Email)
		s.usersByEmail[user.Email] = user.ID
	}

	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *MemoryStorage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return ErrUserNotFound
	}

	delete(s.users, id)
	delete(s.usersByEmail, user.Email)

	for provider, account := range s.accountsByUser[id] {
		delete(s.accountsByProvider, providerKey(provider, account.ProviderAccountID))
	}
	delete(s.accountsByUser, id)

	for token, session := range s.sessions {
		if session.UserID == id {
			delete(s.sessions, token)
			delete(s.sessionsByRefresh, session.RefreshToken)
		}
	}
	return nil
}

func (s *MemoryStorage) LinkAccount(ctx context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := providerKey(account.Provider, account.ProviderAccountID)
	if _, exists := s.accountsByProvider[key]; exists {
		return ErrAccountAlreadyLinked
	}
	if _, exists := s.accountsByUser[account.UserID][account.Provider]; exists {
		return ErrAccountAlreadyLinked
	}

	stored := copyAccount(account)
	s.accountsByProvider[key] = stored
	if s.accountsByUser[account.UserID] == nil {
		s.accountsByUser[account.UserID] = make(map[string]*Account)
	}
	s.accountsByUser[account.UserID][account.Provider] = stored
	return nil
}

func (s *MemoryStorage) GetAccountByProvider(ctx context.Context, provider, providerAccountID string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accountsByProvider[providerKey(provider, providerAccountID)]
	if !exists {
		return nil, ErrAccountNotFound
	}
	return copyAccount(account), nil
}

func (s *MemoryStorage) GetAccountByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accountsByUser[userID][provider]
	if !exists {
		return nil, ErrAccountNotFound
	}
	return copyAccount(account), nil
}

func (s *MemoryStorage) ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*Account, 0, len(s.accountsByUser[userID]))
	for _, account := range s.accountsByUser[userID] {
		accounts = append(accounts, copyAccount(account))
	}
	return accounts, nil
}

func (s *MemoryStorage) UpdateAccount(ctx context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.accountsByUser[account.UserID][account.Provider]
	if !exists {
		return ErrAccountNotFound
	}

	// Provider identity is immutable; only payload fields change.
	updated := copyAccount(account)
	updated.ProviderAccountID = stored.ProviderAccountID
	s.accountsByUser[account.UserID][account.Provider] = updated
	s.accountsByProvider[providerKey(stored.Provider, stored.ProviderAccountID)] = updated
	return nil
}

func (s *MemoryStorage) UnlinkAccount(ctx context.Context, userID uuid.UUID, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.accountsByUser[userID][provider]
	if !exists {
		return ErrAccountNotFound
	}

	delete(s.accountsByUser[userID], provider)
	delete(s.accountsByProvider, providerKey(provider, account.ProviderAccountID))
	return nil
}

func (s *MemoryStorage) CreateSession(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.Token] = copySession(session)
	if session.RefreshToken != "" {
		s.sessionsByRefresh[session.RefreshToken] = session.Token
	}
	return nil
}

func (s *MemoryStorage) GetSessionWithUser(ctx context.Context, sessionToken string) (*Session, *User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionToken]
	if !exists {
		return nil, nil, ErrSessionNotFound
	}
	user, exists := s.users[session.UserID]
	if !exists {
		return nil, nil, ErrSessionNotFound
	}
	return copySession(session), copyUser(user), nil
}

func (s *MemoryStorage) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	// Sessions without refresh tokens store the empty string, so an empty
	// lookup must fail instead of matching one of them.
	if refreshToken == "" {
		return nil, ErrSessionNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	token, exists := s.sessionsByRefresh[refreshToken]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return copySession(s.sessions[token]), nil
}

func (s *MemoryStorage) UpdateSession(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.sessions[session.Token]
	if !exists {
		return ErrSessionNotFound
	}

	if stored.RefreshToken != session.RefreshToken {
		delete(s.sessionsByRefresh, stored.RefreshToken)
		if session.RefreshToken != "" {
			s.sessionsByRefresh[session.RefreshToken] = session.Token
		}
	}
	s.sessions[session.Token] = copySession(session)
	return nil
}

func (s *MemoryStorage) RotateSessionRefreshToken(ctx context.Context, oldToken, newToken string, expiresAt, refreshExpiresAt time.Time) (*Session, error) {
	if oldToken == "" {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The compare-and-swap lives in this index lookup: once a rotation
	// removes oldToken, concurrent rotations of the same token miss here.
	sessionToken, exists := s.sessionsByRefresh[oldToken]
	if !exists {
		return nil, ErrSessionNotFound
	}

	session := s.sessions[sessionToken]
	session.RefreshToken = newToken
	session.ExpiresAt = expiresAt
	session.RefreshExpiresAt = refreshExpiresAt

	delete(s.sessionsByRefresh, oldToken)
	s.sessionsByRefresh[newToken] = sessionToken

	return copySession(session), nil
}

func (s *MemoryStorage) DeleteSession(ctx context.Context, sessionToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionToken]
	if !exists {
		return ErrSessionNotFound
	}

	delete(s.sessions, sessionToken)
	delete(s.sessionsByRefresh, session.RefreshToken)
	return nil
}

func (s *MemoryStorage) DeleteUserSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
			delete(s.sessionsByRefresh, session.RefreshToken)
			count++
		}
	}
	return count, nil
}

// Copies prevent callers from mutating stored records through returned
// pointers.

func copyUser(u *User) *User {
	c := *u
	c.EmailVerifiedAt = copyTime(u.EmailVerifiedAt)
	c.ResetTokenExpiresAt = copyTime(u.ResetTokenExpiresAt)
	c.VerificationTokenExpiresAt = copyTime(u.VerificationTokenExpiresAt)
	return &c
}

func copyAccount(a *Account) *Account {
	c := *a
	return &c
}

func copySession(s *Session) *Session {
	c := *s
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Compile-time interface assertion
var _ Storage = (*MemoryStorage)(nil)
