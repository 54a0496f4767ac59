package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mww/fantasy_query/auth"
)

var (
	ErrTokenNotFound error = errors.New("token not found")
)

//go:embed schema.sql
var schema string

func New(ctx context.Context, connString string, clock clock.Clock) (DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return &postgresDB{pool: pool, clock: clock}, nil
}

type postgresDB struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func (db *postgresDB) GetToken(ctx context.Context, name string) (*auth.StoredToken, error) {
	const query = `SELECT consumer_key, consumer_secret, access_token, refresh_token,
						token_type, expiry, guid
					FROM yahoo_tokens WHERE name=@name`

	args := pgx.NamedArgs{
		"name": name,
	}
	row := db.pool.QueryRow(ctx, query, args)
	t, err := scanToken(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("error scanning token %s: %w", name, err)
	}
	return t, nil
}

func (db *postgresDB) SaveToken(ctx context.Context, name string, t *auth.StoredToken) error {
	const query = `INSERT INTO yahoo_tokens (name, consumer_key, consumer_secret, access_token,
						refresh_token, token_type, expiry, guid, created, updated)
					VALUES (@name, @consumerKey, @consumerSecret, @accessToken,
						@refreshToken, @tokenType, @expiry, @guid, @now, @now)
					ON CONFLICT (name) DO UPDATE SET
						consumer_key=EXCLUDED.consumer_key,
						consumer_secret=EXCLUDED.consumer_secret,
						access_token=EXCLUDED.access_token,
						refresh_token=EXCLUDED.refresh_token,
						token_type=EXCLUDED.token_type,
						expiry=EXCLUDED.expiry,
						guid=EXCLUDED.guid,
						updated=EXCLUDED.updated`

	expiry := pgtype.Timestamptz{Time: t.Expiry, Valid: !t.Expiry.IsZero()}
	args := pgx.NamedArgs{
		"name":           name,
		"consumerKey":    t.ConsumerKey,
		"consumerSecret": t.ConsumerSecret,
		"accessToken":    nullString(t.AccessToken),
		"refreshToken":   nullString(t.RefreshToken),
		"tokenType":      nullString(t.TokenType),
		"expiry":         expiry,
		"guid":           nullString(t.GUID),
		"now":            db.clock.Now().UTC(),
	}
	if _, err := db.pool.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("error saving token %s: %w", name, err)
	}
	return nil
}

func (db *postgresDB) DeleteToken(ctx context.Context, name string) error {
	const query = `DELETE FROM yahoo_tokens WHERE name=@name`

	tag, err := db.pool.Exec(ctx, query, pgx.NamedArgs{"name": name})
	if err != nil {
		return fmt.Errorf("error deleting token %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (db *postgresDB) Close() {
	db.pool.Close()
}

func scanToken(row pgx.Row) (*auth.StoredToken, error) {
	var result auth.StoredToken
	var accessToken, refreshToken, tokenType, guid sql.NullString
	var expiry pgtype.Timestamptz
	err := row.Scan(
		&result.ConsumerKey,
		&result.ConsumerSecret,
		&accessToken,
		&refreshToken,
		&tokenType,
		&expiry,
		&guid)

	if err != nil {
		return nil, err
	}

	result.AccessToken = valueOrEmpty(accessToken)
	result.RefreshToken = valueOrEmpty(refreshToken)
	result.TokenType = valueOrEmpty(tokenType)
	result.GUID = valueOrEmpty(guid)
	if expiry.Valid {
		result.Expiry = expiry.Time.UTC()
	}
	return &result, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func valueOrEmpty(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}
