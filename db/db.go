package db

import (
	"context"

	"github.com/mww/fantasy_query/auth"
)

// DB persists Yahoo authorization state. Tokens are stored by name so that
// one database can hold the tokens of several Yahoo apps or users.
type DB interface {
	GetToken(ctx context.Context, name string) (*auth.StoredToken, error)
	SaveToken(ctx context.Context, name string, t *auth.StoredToken) error
	DeleteToken(ctx context.Context, name string) error
	Close()
}

// TokenStore adapts a DB to auth.TokenStore for a single named token.
type TokenStore struct {
	db   DB
	name string
}

func NewTokenStore(db DB, name string) *TokenStore {
	return &TokenStore{db: db, name: name}
}

func (s *TokenStore) Load(ctx context.Context) (*auth.StoredToken, error) {
	t, err := s.db.GetToken(ctx, s.name)
	if err == ErrTokenNotFound {
		return nil, auth.ErrNoToken
	}
	return t, err
}

func (s *TokenStore) Save(ctx context.Context, t *auth.StoredToken) error {
	return s.db.SaveToken(ctx, s.name, t)
}
