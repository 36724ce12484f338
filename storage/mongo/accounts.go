package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/authkit"
)

type accountDoc struct {
	ID                string    `bson:"_id"`
	UserID            string    `bson:"user_id"`
	Method            string    `bson:"method"`
	Provider          string    `bson:"provider"`
	ProviderAccountID string    `bson:"provider_account_id"`
	PasswordHash      string    `bson:"password_hash"`
	CreatedAt         time.Time `bson:"created_at"`
}

func toAccountDoc(a *authkit.Account) accountDoc {
	return accountDoc{
		ID:                a.ID.String(),
		UserID:            a.UserID.String(),
		Method:            a.Method,
		Provider:          a.Provider,
		ProviderAccountID: a.ProviderAccountID,
		PasswordHash:      a.PasswordHash,
		CreatedAt:         a.CreatedAt,
	}
}

func (d accountDoc) toAccount() (*authkit.Account, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse account id: %w", err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse account user id: %w", err)
	}
	return &authkit.Account{
		ID:                id,
		UserID:            userID,
		Method:            d.Method,
		Provider:          d.Provider,
		ProviderAccountID: d.ProviderAccountID,
		PasswordHash:      d.PasswordHash,
		CreatedAt:         d.CreatedAt,
	}, nil
}

func (s *Storage) findAccount(ctx context.Context, filter bson.M) (*authkit.Account, error) {
	var doc accountDoc
	if err := s.accounts.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, authkit.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toAccount()
}

func (s *Storage) LinkAccount(ctx context.Context, account *authkit.Account) error {
	if _, err := s.accounts.InsertOne(ctx, toAccountDoc(account)); err != nil {
		// Either unique index may fire: one owner per provider identity, or
		// one account per provider per user.
		if mongo.IsDuplicateKeyError(err) {
			return authkit.ErrAccountAlreadyLinked
		}
		return fmt.Errorf("link account: %w", err)
	}
	return nil
}

func (s *Storage) GetAccountByProvider(ctx context.Context, provider, providerAccountID string) (*authkit.Account, error) {
	return s.findAccount(ctx, bson.M{"provider": provider, "provider_account_id": providerAccountID})
}

func (s *Storage) GetAccountByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*authkit.Account, error) {
	return s.findAccount(ctx, bson.M{"user_id": userID.String(), "provider": provider})
}

func (s *Storage) ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]*authkit.Account, error) {
	cursor, err := s.accounts.Find(ctx, bson.M{"user_id": userID.String()})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	var docs []accountDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	accounts := make([]*authkit.Account, 0, len(docs))
	for _, doc := range docs {
		account, err := doc.toAccount()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (s *Storage) UpdateAccount(ctx context.Context, account *authkit.Account) error {
	// Provider identity is immutable; only payload fields change.
	res, err := s.accounts.UpdateOne(ctx,
		bson.M{"user_id": account.UserID.String(), "provider": account.Provider},
		bson.M{"$set": bson.M{
			"method":        account.Method,
			"password_hash": account.PasswordHash,
		}},
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return authkit.ErrAccountNotFound
	}
	return nil
}

func (s *Storage) UnlinkAccount(ctx context.Context, userID uuid.UUID, provider string) error {
	res, err := s.accounts.DeleteOne(ctx, bson.M{"user_id": userID.String(), "provider": provider})
	if err != nil {
		return fmt.Errorf("unlink account: %w", err)
	}
	if res.DeletedCount == 0 {
		return authkit.ErrAccountNotFound
	}
	return nil
}
