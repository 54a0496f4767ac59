// Package auth bootstraps and maintains the OAuth2 session used to call the
// Yahoo Fantasy API.
package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"golang.org/x/oauth2"
)

const (
	// Yahoo shows the verifier code to the user instead of redirecting.
	OutOfBandRedirect = "oob"

	// Tokens this close to expiring are refreshed before use.
	expiryDelta = time.Minute
)

var YahooEndpoint = oauth2.Endpoint{
	AuthURL:   "https://api.login.yahoo.com/oauth2/request_auth",
	TokenURL:  "https://api.login.yahoo.com/oauth2/get_token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// Prompter asks the user to authorize the app at authURL and returns the
// verifier code Yahoo displayed.
type Prompter interface {
	Verifier(authURL string) (string, error)
}

// TerminalPrompter prints the authorization URL and reads the code from a line
// of input.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p TerminalPrompter) Verifier(authURL string) (string, error) {
	fmt.Fprintf(p.Out, "Visit the following URL to authorize access to your Yahoo Fantasy data:\n\n\t%s\n\nEnter the verifier code: ", authURL)
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("error reading verifier code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return "", errors.New("no verifier code entered")
	}
	return code, nil
}

type Options struct {
	// Credentials seed the store the first time. They may be nil when the
	// store already holds them.
	Credentials *Credentials
	Store       TokenStore
	// Prompter is only used when no token has been stored yet.
	Prompter Prompter
	Clock    clock.Clock
	// Endpoint defaults to YahooEndpoint.
	Endpoint   oauth2.Endpoint
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Session owns the authorization state. It refreshes the access token when it
// expires and persists every new token to its store.
type Session struct {
	config     *oauth2.Config
	store      TokenStore
	clock      clock.Clock
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.Mutex
	state *StoredToken
}

// NewSession loads the stored authorization state, initializing it from the
// credentials when nothing was stored, and makes sure it holds a valid token:
// a missing token starts the three-legged handshake and an expired one is
// refreshed.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, errors.New("a token store is required")
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Endpoint.TokenURL == "" {
		opts.Endpoint = YahooEndpoint
	}

	state, err := opts.Store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoToken):
		if opts.Credentials == nil {
			return nil, fmt.Errorf("%w: no stored token to fall back on", ErrCredentialFileMissing)
		}
		state = &StoredToken{
			ConsumerKey:    opts.Credentials.ConsumerKey,
			ConsumerSecret: opts.Credentials.ConsumerSecret,
		}
		if err := opts.Store.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("error initializing token store: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("error loading token: %w", err)
	}

	if state.ConsumerKey == "" && opts.Credentials != nil {
		state.ConsumerKey = opts.Credentials.ConsumerKey
		state.ConsumerSecret = opts.Credentials.ConsumerSecret
	}
	if state.ConsumerKey == "" {
		return nil, fmt.Errorf("%w: stored token has no consumer key", ErrCredentialFileMissing)
	}

	s := &Session{
		config: &oauth2.Config{
			ClientID:     state.ConsumerKey,
			ClientSecret: state.ConsumerSecret,
			Endpoint:     opts.Endpoint,
			RedirectURL:  OutOfBandRedirect,
		},
		store:      opts.Store,
		clock:      opts.Clock,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		state:      state,
	}

	if !state.HasToken() {
		if err := s.authorize(ctx, opts.Prompter); err != nil {
			return nil, err
		}
		return s, nil
	}
	if _, err := s.Token(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// GUID is the Yahoo user id the token was issued to, when Yahoo sent one.
func (s *Session) GUID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GUID
}

// Token returns a valid access token, refreshing and saving it first when it
// has expired.
func (s *Session) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired() {
		if err := s.refresh(ctx); err != nil {
			return nil, err
		}
	}
	return s.state.Token(), nil
}

// Client returns an HTTP client that authorizes its requests with the current
// access token. Call it again for later requests so expired tokens are
// refreshed.
func (s *Session) Client(ctx context.Context) (*http.Client, error) {
	t, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(s.context(ctx), oauth2.StaticTokenSource(t)), nil
}

func (s *Session) expired() bool {
	if s.state.AccessToken == "" {
		return true
	}
	if s.state.Expiry.IsZero() {
		return false
	}
	return !s.clock.Now().Before(s.state.Expiry.Add(-expiryDelta))
}

// refresh must be called with s.mu held. The token source is seeded with the
// refresh token only, so the oauth2 package always asks for a new token and
// hands it back to be saved.
func (s *Session) refresh(ctx context.Context) error {
	if s.state.RefreshToken == "" {
		return fmt.Errorf("%w: no refresh token stored", ErrTokenRefresh)
	}

	s.logger.Info("refreshing yahoo access token", "expiry", s.state.Expiry)
	t, err := s.config.TokenSource(s.context(ctx), &oauth2.Token{RefreshToken: s.state.RefreshToken}).Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenRefresh, err)
	}

	s.state.setToken(t)
	if err := s.store.Save(ctx, s.state); err != nil {
		return fmt.Errorf("error saving refreshed token: %w", err)
	}
	return nil
}

func (s *Session) authorize(ctx context.Context, p Prompter) error {
	if p == nil {
		return fmt.Errorf("%w: authorization requires a prompter", ErrNoToken)
	}

	code, err := p.Verifier(s.config.AuthCodeURL("yahoo"))
	if err != nil {
		return err
	}

	t, err := s.config.Exchange(s.context(ctx), code)
	if err != nil {
		return fmt.Errorf("error exchanging verifier code: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.setToken(t)
	if err := s.store.Save(ctx, s.state); err != nil {
		return fmt.Errorf("error saving token: %w", err)
	}
	s.logger.Info("yahoo authorization complete", "guid", s.state.GUID)
	return nil
}

func (s *Session) context(ctx context.Context) context.Context {
	if s.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}
