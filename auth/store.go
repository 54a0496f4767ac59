package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// StoredToken is the persisted authorization state: the app credentials the
// token was issued to and the token itself. Only the credentials are set
// until the first handshake completes.
type StoredToken struct {
	ConsumerKey    string    `json:"consumer_key"`
	ConsumerSecret string    `json:"consumer_secret"`
	AccessToken    string    `json:"access_token,omitempty"`
	RefreshToken   string    `json:"refresh_token,omitempty"`
	TokenType      string    `json:"token_type,omitempty"`
	Expiry         time.Time `json:"expiry"`
	GUID           string    `json:"guid,omitempty"`
}

// HasToken reports whether a handshake has completed for this state.
func (s *StoredToken) HasToken() bool {
	return s.RefreshToken != "" || s.AccessToken != ""
}

func (s *StoredToken) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Expiry:       s.Expiry,
	}
}

// setToken copies t into s. A refresh response may omit the refresh token and
// guid, in which case the previous ones are kept.
func (s *StoredToken) setToken(t *oauth2.Token) {
	s.AccessToken = t.AccessToken
	if t.RefreshToken != "" {
		s.RefreshToken = t.RefreshToken
	}
	s.TokenType = t.TokenType
	s.Expiry = t.Expiry
	if guid, ok := t.Extra("xoauth_yahoo_guid").(string); ok && guid != "" {
		s.GUID = guid
	}
}

// TokenStore persists the authorization state between runs.
type TokenStore interface {
	// Load returns ErrNoToken when nothing has been saved yet.
	Load(ctx context.Context) (*StoredToken, error)
	Save(ctx context.Context, t *StoredToken) error
}

// FileTokenStore keeps the state in a JSON file, token.json by default.
type FileTokenStore struct {
	Path string
}

func NewFileTokenStore(dir string) *FileTokenStore {
	return &FileTokenStore{Path: filepath.Join(dir, TokenFile)}
}

func (s *FileTokenStore) Load(ctx context.Context) (*StoredToken, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("error reading %s: %w", s.Path, err)
	}

	var t StoredToken
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", s.Path, err)
	}
	return &t, nil
}

func (s *FileTokenStore) Save(ctx context.Context, t *StoredToken) error {
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding token: %w", err)
	}
	if err := os.WriteFile(s.Path, b, 0o600); err != nil {
		return fmt.Errorf("error writing %s: %w", s.Path, err)
	}
	return nil
}
