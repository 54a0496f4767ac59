package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mww/fantasy_query/auth"
	"github.com/mww/fantasy_query/containers"
)

var (
	// A test global db instance to use for all of the tests instead of setting up a new one each time.
	testDB DB
)

// TestMain starts one postgres container shared by every test in the package.
func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := containers.NewDBContainer(ctx)
	if err != nil {
		fmt.Printf("error starting db container: %v\n", err)
		os.Exit(-1)
	}

	code := func() int {
		defer func() {
			if err := container.Shutdown(ctx); err != nil {
				fmt.Println(err)
			}
		}()

		connStr, err := container.ConnectionString(ctx)
		if err != nil {
			fmt.Printf("error getting connection string: %v\n", err)
			return -1
		}
		testDB, err = New(ctx, connStr, clock.New())
		if err != nil {
			fmt.Printf("error connecting to db: %v\n", err)
			return -1
		}
		defer testDB.Close()

		return m.Run()
	}()
	os.Exit(code)
}

func TestDB_saveAndLoad(t *testing.T) {
	ctx := context.Background()
	tok := getToken()

	err := testDB.SaveToken(ctx, "saveAndLoad", tok)
	assertFatalf(t, err == nil, "error saving token: %v", err)

	res, err := testDB.GetToken(ctx, "saveAndLoad")
	assertFatalf(t, err == nil, "error retreiving token: %v", err)

	assertEquals(t, "ConsumerKey", tok.ConsumerKey, res.ConsumerKey)
	assertEquals(t, "ConsumerSecret", tok.ConsumerSecret, res.ConsumerSecret)
	assertEquals(t, "AccessToken", tok.AccessToken, res.AccessToken)
	assertEquals(t, "RefreshToken", tok.RefreshToken, res.RefreshToken)
	assertEquals(t, "TokenType", tok.TokenType, res.TokenType)
	assertEquals(t, "GUID", tok.GUID, res.GUID)
	assertTrue(t, "Expiry", tok.Expiry.Equal(res.Expiry))

	// Now update the token and make sure it replaces the old one.
	tok.AccessToken = "new_access_token"
	tok.Expiry = tok.Expiry.Add(time.Hour)
	err = testDB.SaveToken(ctx, "saveAndLoad", tok)
	assertFatalf(t, err == nil, "error saving token after update: %v", err)

	res2, err := testDB.GetToken(ctx, "saveAndLoad")
	assertFatalf(t, err == nil, "error getting updated token: %v", err)
	assertEquals(t, "AccessToken", "new_access_token", res2.AccessToken)
	assertTrue(t, "Expiry", tok.Expiry.Equal(res2.Expiry))
}

func TestDB_credentialsOnly(t *testing.T) {
	ctx := context.Background()
	tok := &auth.StoredToken{ConsumerKey: "key", ConsumerSecret: "secret"}

	err := testDB.SaveToken(ctx, "credentialsOnly", tok)
	assertFatalf(t, err == nil, "error saving token: %v", err)

	res, err := testDB.GetToken(ctx, "credentialsOnly")
	assertFatalf(t, err == nil, "error retreiving token: %v", err)
	assertEquals(t, "ConsumerKey", "key", res.ConsumerKey)
	assertEquals(t, "HasToken", false, res.HasToken())
	assertTrue(t, "Expiry", res.Expiry.IsZero())
}

func TestDB_notFound(t *testing.T) {
	ctx := context.Background()

	res, err := testDB.GetToken(ctx, "doesNotExist")
	assertFatalf(t, err != nil, "should have had an error getting a missing token")
	assertEquals(t, "error type", true, errors.Is(err, ErrTokenNotFound))
	if res != nil {
		t.Errorf("expected res to be nil, but was %v", res)
	}

	err = testDB.DeleteToken(ctx, "doesNotExist")
	assertEquals(t, "error type", true, errors.Is(err, ErrTokenNotFound))
}

func TestDB_delete(t *testing.T) {
	ctx := context.Background()

	err := testDB.SaveToken(ctx, "delete", getToken())
	assertFatalf(t, err == nil, "error saving token: %v", err)

	err = testDB.DeleteToken(ctx, "delete")
	assertFatalf(t, err == nil, "error deleting token: %v", err)

	_, err = testDB.GetToken(ctx, "delete")
	assertEquals(t, "error type", true, errors.Is(err, ErrTokenNotFound))
}

func TestTokenStore_againstDB(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(testDB, "tokenStore")

	_, err := store.Load(ctx)
	assertEquals(t, "error type", true, errors.Is(err, auth.ErrNoToken))

	err = store.Save(ctx, getToken())
	assertFatalf(t, err == nil, "error saving token: %v", err)

	res, err := store.Load(ctx)
	assertFatalf(t, err == nil, "error loading token: %v", err)
	assertEquals(t, "AccessToken", "access_token", res.AccessToken)
}

func getToken() *auth.StoredToken {
	return &auth.StoredToken{
		ConsumerKey:    "dj0yJmk9consumerkey",
		ConsumerSecret: "consumersecret",
		AccessToken:    "access_token",
		RefreshToken:   "refresh_token",
		TokenType:      "bearer",
		Expiry:         time.Date(2024, time.September, 10, 13, 0, 0, 0, time.UTC),
		GUID:           "FAKEGUID1234",
	}
}

func assertFatalf(t *testing.T, c bool, f string, args ...any) {
	if !c {
		t.Fatalf(f, args...)
	}
}

func assertEquals(t *testing.T, field string, expected, actual any) {
	if expected != actual {
		t.Errorf("%s - expected: '%v', got: '%v'", field, expected, actual)
	}
}

func assertTrue(t *testing.T, field string, cond bool) {
	if !cond {
		t.Errorf("%s - expected to be true but it was false", field)
	}
}
