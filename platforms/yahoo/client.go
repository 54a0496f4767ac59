package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mww/fantasy_query/metrics"
	"github.com/mww/fantasy_query/model"
	"github.com/mww/fantasy_query/unpack"
)

const (
	YahooURL        = "https://fantasysports.yahooapis.com"
	DefaultGameCode = "nfl"

	// Every resource lives below this path, and every payload below this key.
	apiPath     = "/fantasy/v2"
	envelopeKey = "fantasy_content"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Session hands out an HTTP client that authenticates requests to Yahoo.
// auth.Session is the production implementation.
type Session interface {
	Client(ctx context.Context) (*http.Client, error)
}

// StaticSession uses the same HTTP client for every request.
type StaticSession struct {
	HTTPClient *http.Client
}

func (s StaticSession) Client(ctx context.Context) (*http.Client, error) {
	if s.HTTPClient == nil {
		return http.DefaultClient, nil
	}
	return s.HTTPClient, nil
}

type Config struct {
	LeagueID string
	GameID   string // empty selects the current season of GameCode
	GameCode string // defaults to nfl
	Offline  bool
}

// Response is the result of a query: the unpacked data, the URL it was
// requested from and the raw sub-document the data was unpacked from.
type Response[T any] struct {
	Data T      `json:"data"`
	URL  string `json:"url"`
	Raw  any    `json:"raw"`
}

type Client struct {
	url     string
	cfg     Config
	session Session
	logger  *slog.Logger
	metrics *metrics.Collector

	mu        sync.Mutex
	leagueKey string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.url = u }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client. session may be nil for an offline client.
func New(session Session, cfg Config, opts ...Option) (*Client, error) {
	if !cfg.Offline && session == nil {
		return nil, fmt.Errorf("a session is required unless running offline")
	}
	if cfg.GameCode == "" {
		cfg.GameCode = DefaultGameCode
	}

	c := &Client{
		url:     YahooURL,
		cfg:     cfg,
		session: session,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Query fetches url, descends the payload along keyPath and unpacks the
// result. When responseType is set it builds the top level of the result.
func (c *Client) Query(ctx context.Context, url string, keyPath []string, responseType unpack.Constructor) (*Response[any], error) {
	build := func(v any) any { return v }
	if responseType != nil {
		build = responseType
	}
	return query(ctx, c, "query", url, keyPath, build)
}

func query[T any](ctx context.Context, c *Client, endpoint, url string, keyPath []string, build func(any) T) (resp *Response[T], err error) {
	if c.metrics != nil {
		start := time.Now()
		defer func() { c.metrics.Observe(endpoint, result(err), time.Since(start)) }()
	}

	content, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	raw, err := extract(content, keyPath)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("yahoo data extracted", "url", url, "key_path", keyPath, "raw", raw)

	unpacked := unpack.Unpack(raw, model.Registry())
	data := build(unpacked)
	c.logger.Debug("yahoo data unpacked", "url", url, "type", fmt.Sprintf("%T", data))

	return &Response[T]{Data: data, URL: url, Raw: raw}, nil
}

// fetch issues the authenticated GET and returns the fantasy_content payload.
func (c *Client) fetch(ctx context.Context, rawURL string) (any, error) {
	if c.cfg.Offline {
		return nil, ErrOfflineMode
	}

	httpClient, err := c.session.Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting authenticated client: %w", err)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	q := u.Query()
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: fmt.Errorf("error creating yahoo http request: %w", err)}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: fmt.Errorf("error sending yahoo http request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var yerr struct {
			Error struct {
				Description string `json:"description"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&yerr); err != nil {
			c.logger.Debug("yahoo error response has no readable description", "url", rawURL, "status", resp.StatusCode, "error", err)
		}
		return nil, &TransportError{URL: rawURL, StatusCode: resp.StatusCode, Message: yerr.Error.Description}
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, &TransportError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("error parsing response from yahoo: %w", err)}
	}
	c.logger.Debug("yahoo response", "url", rawURL, "json", doc)

	content, ok := doc[envelopeKey]
	if !ok {
		return nil, &TransportError{URL: rawURL, StatusCode: resp.StatusCode, Message: "response has no " + envelopeKey}
	}
	return content, nil
}

// extract follows keyPath from v. The mapping fragments of a sequence are
// merged before the key is looked up, which is how Yahoo lays out resources
// ("league": [{"league_key": ...}, {"standings": ...}]). A key the fragments
// lack may still index the sequence by position.
func extract(v any, keyPath []string) (any, error) {
	cur := v
	for i, key := range keyPath {
		var ok bool
		switch t := cur.(type) {
		case map[string]any:
			cur, ok = t[key]
		case []any:
			if cur, ok = unpack.Flatten(t)[key]; !ok {
				if idx, err := strconv.Atoi(key); err == nil && idx >= 0 && idx < len(t) {
					cur, ok = t[idx], true
				}
			}
		}
		if !ok {
			return nil, &KeyPathError{Path: keyPath, Index: i}
		}
	}
	return cur, nil
}

func (c *Client) resource(path string, args ...any) string {
	return c.ResourceURL(fmt.Sprintf(path, args...))
}

// ResourceURL returns the URL of a resource path below /fantasy/v2, e.g.
// "/league/449.l.431/standings".
func (c *Client) ResourceURL(path string) string {
	return c.url + apiPath + path
}
