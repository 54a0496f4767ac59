package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

const (
	CredentialsFile = "private.json"
	TokenFile       = "token.json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Credentials identify the Yahoo developer app.
type Credentials struct {
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
}

// LoadCredentials reads private.json from dir.
func LoadCredentials(dir string) (*Credentials, error) {
	path := filepath.Join(dir, CredentialsFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCredentialFileMissing, path)
		}
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return nil, fmt.Errorf("%s must contain consumer_key and consumer_secret", path)
	}
	return &c, nil
}
