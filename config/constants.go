package config

import "time"

const (
	envAuthDir         = "YAHOO_AUTH_DIR"
	envLeagueID        = "YAHOO_LEAGUE_ID"
	envGameID          = "YAHOO_GAME_ID"
	envGameCode        = "YAHOO_GAME_CODE"
	envOffline         = "YAHOO_OFFLINE"
	envBaseURL         = "YAHOO_BASE_URL"
	envTimeout         = "YAHOO_TIMEOUT"
	envServeAddr       = "YAHOO_SERVE_ADDR"
	envTokenStore      = "YAHOO_TOKEN_STORE"
	envTokenName       = "YAHOO_TOKEN_NAME"
	envPostgresConnStr = "POSTGRES_CONN_STR"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"

	defaultAuthDir   = "."
	defaultGameCode  = "nfl"
	defaultBaseURL   = "https://fantasysports.yahooapis.com"
	defaultTimeout   = 30 * time.Second
	defaultServeAddr = ":8080"
	defaultTokenName = "default"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)
