package mockdb

import (
	"context"

	"github.com/mww/fantasy_query/auth"
	"github.com/stretchr/testify/mock"
)

type DB struct {
	mock.Mock
}

func (db *DB) GetToken(ctx context.Context, name string) (*auth.StoredToken, error) {
	args := db.Called(ctx, name)

	var t *auth.StoredToken
	if args.Get(0) != nil {
		t = args.Get(0).(*auth.StoredToken)
	}

	return t, args.Error(1)
}

func (db *DB) SaveToken(ctx context.Context, name string, t *auth.StoredToken) error {
	args := db.Called(ctx, name, t)
	return args.Error(0)
}

func (db *DB) DeleteToken(ctx context.Context, name string) error {
	args := db.Called(ctx, name)
	return args.Error(0)
}

func (db *DB) Close() {
	db.Called()
}
