// Package cli exposes every Yahoo query as a cobra command. Each command
// prints the {data, url, raw} response as indented JSON. The serve command
// makes the same queries available over HTTP.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/itbasis/go-clock"
	"github.com/spf13/cobra"

	"github.com/mww/fantasy_query/auth"
	"github.com/mww/fantasy_query/config"
	"github.com/mww/fantasy_query/db"
	"github.com/mww/fantasy_query/logging"
	"github.com/mww/fantasy_query/metrics"
	"github.com/mww/fantasy_query/platforms/yahoo"
)

func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what the commands share. It is filled in by the root command's
// PersistentPreRunE, after flags are parsed.
type app struct {
	configPath  string
	leagueID    string
	gameID      string
	authDir     string
	offline     bool
	selectExpr  string
	showMetrics bool
	debug       bool

	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
	client  *yahoo.Client
	closers []func()
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "yahoo-fantasy",
		Short:        "Query the Yahoo Fantasy Sports API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.ErrOrStderr())
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "YAML config file (optional)")
	f.StringVar(&a.leagueID, "league-id", "", "Yahoo league id")
	f.StringVar(&a.gameID, "game-id", "", "Yahoo game id, defaults to the current season")
	f.StringVar(&a.authDir, "auth-dir", "", "directory holding private.json and token.json")
	f.BoolVar(&a.offline, "offline", false, "fail every query without network access")
	f.StringVar(&a.selectExpr, "select", "", "JSONPath expression applied to the raw response, e.g. $.0.team_standings")
	f.BoolVar(&a.showMetrics, "metrics", false, "print query metrics to stderr when done")
	f.BoolVar(&a.debug, "debug", false, "log at debug level")

	for _, c := range queryCommands(a) {
		cmd.AddCommand(c)
	}
	cmd.AddCommand(serveCommand(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("league-id") {
		cfg.LeagueID = a.leagueID
	}
	if f.Changed("game-id") {
		cfg.GameID = a.gameID
	}
	if f.Changed("auth-dir") {
		cfg.AuthDir = a.authDir
	}
	if f.Changed("offline") {
		cfg.Offline = a.offline
	}
	if a.debug {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	a.logger = logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})

	a.metrics, err = metrics.NewCollector(nil)
	if err != nil {
		return fmt.Errorf("error creating metrics: %w", err)
	}
	return nil
}

func (a *app) teardown(w io.Writer) error {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil

	if a.showMetrics {
		return a.metrics.WriteText(w)
	}
	return nil
}

// yahooClient builds the client on first use so that commands that fail
// flag validation never touch the token store.
func (a *app) yahooClient(cmd *cobra.Command) (*yahoo.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	yc := yahoo.Config{
		LeagueID: a.cfg.LeagueID,
		GameID:   a.cfg.GameID,
		GameCode: a.cfg.GameCode,
		Offline:  a.cfg.Offline,
	}
	opts := []yahoo.Option{
		yahoo.WithBaseURL(a.cfg.BaseURL),
		yahoo.WithLogger(a.logger),
		yahoo.WithMetrics(a.metrics),
	}

	var session yahoo.Session
	if !a.cfg.Offline {
		s, err := a.session(cmd)
		if err != nil {
			return nil, err
		}
		session = s
	}

	c, err := yahoo.New(session, yc, opts...)
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

func (a *app) session(cmd *cobra.Command) (*auth.Session, error) {
	ctx := cmd.Context()

	store, err := a.tokenStore(ctx)
	if err != nil {
		return nil, err
	}

	creds, err := auth.LoadCredentials(a.cfg.AuthDir)
	if err != nil && !errors.Is(err, auth.ErrCredentialFileMissing) {
		return nil, err
	}

	return auth.NewSession(ctx, auth.Options{
		Credentials: creds,
		Store:       store,
		Prompter:    auth.TerminalPrompter{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()},
		Clock:       clock.New(),
		HTTPClient:  &http.Client{Timeout: a.cfg.Timeout},
		Logger:      a.logger,
	})
}

func (a *app) tokenStore(ctx context.Context) (auth.TokenStore, error) {
	if a.cfg.TokenStore != config.TokenStorePostgres {
		return auth.NewFileTokenStore(a.cfg.AuthDir), nil
	}

	d, err := db.New(ctx, a.cfg.PostgresConnString, clock.New())
	if err != nil {
		return nil, fmt.Errorf("cannot connect to DB: %w", err)
	}
	a.closers = append(a.closers, d.Close)
	return db.NewTokenStore(d, a.cfg.TokenName), nil
}
