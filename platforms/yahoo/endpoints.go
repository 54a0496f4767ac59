package yahoo

import (
	"context"
	"fmt"

	"github.com/mww/fantasy_query/model"
)

// endpoint is a resource path template and the key path that leads from
// fantasy_content to the data of interest.
type endpoint struct {
	name    string
	path    string
	keyPath []string
}

var (
	currentGameEndpoint = endpoint{"current_game", "/game/%s", []string{"game"}}
	gameEndpoint        = endpoint{"game", "/game/%s", []string{"game"}}
	userGamesEndpoint   = endpoint{"user_games", "/users;use_login=1/games;codes=%s/", []string{"users", "0", "user"}}
	userLeaguesEndpoint = endpoint{"user_leagues", "/users;use_login=1/games;codes=%s/leagues/", []string{"users", "0", "user"}}
	overviewEndpoint    = endpoint{"overview", "/league/%s/", []string{"league"}}
	standingsEndpoint   = endpoint{"standings", "/league/%s/standings", []string{"league", "standings"}}
	settingsEndpoint    = endpoint{"settings", "/league/%s/settings", []string{"league", "settings"}}
	teamsEndpoint       = endpoint{"teams", "/league/%s/teams", []string{"league", "teams"}}
	matchupsEndpoint    = endpoint{"matchups", "/league/%s/scoreboard;week=%d", []string{"league", "scoreboard", "0", "matchups"}}
	rosterEndpoint      = endpoint{"roster", "/team/%s/roster;week=%d/players/stats", []string{"team", "roster", "0", "players"}}
	playerStatsEndpoint = endpoint{"player_stats", "/league/%s/players;player_keys=%s/stats;type=week;week=%d", []string{"league", "players", "0", "player"}}
)

func get[T any](ctx context.Context, c *Client, ep endpoint, build func(any) T, args ...any) (*Response[T], error) {
	return query(ctx, c, ep.name, c.resource(ep.path, args...), ep.keyPath, build)
}

func untyped(v any) any {
	return v
}

// GetCurrentGame returns the game of the current season for the configured
// game code.
func (c *Client) GetCurrentGame(ctx context.Context) (*Response[*model.Game], error) {
	return get(ctx, c, currentGameEndpoint, model.NewGame, c.cfg.GameCode)
}

// GetGame returns the game with the given id (one id per season).
func (c *Client) GetGame(ctx context.Context, gameID string) (*Response[*model.Game], error) {
	return get(ctx, c, gameEndpoint, model.NewGame, gameID)
}

// GetLeagueKey returns the league key "<game_key>.l.<league_id>". The game is
// the configured one, or the current season's when none is configured. The
// key is resolved once per client.
func (c *Client) GetLeagueKey(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.leagueKey != "" {
		return c.leagueKey, nil
	}

	var (
		resp *Response[*model.Game]
		err  error
	)
	if c.cfg.GameID != "" {
		resp, err = c.GetGame(ctx, c.cfg.GameID)
	} else {
		c.logger.Warn("no yahoo game id provided, defaulting to the current season", "game_code", c.cfg.GameCode)
		resp, err = c.GetCurrentGame(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("error resolving league key: %w", err)
	}
	if resp.Data.GameKey == "" {
		return "", fmt.Errorf("error resolving league key: game has no game_key")
	}

	c.leagueKey = fmt.Sprintf("%s.l.%s", resp.Data.GameKey, c.cfg.LeagueID)
	return c.leagueKey, nil
}

// GetUserGameHistory returns the logged in user with every game they played.
func (c *Client) GetUserGameHistory(ctx context.Context) (*Response[*model.User], error) {
	return get(ctx, c, userGamesEndpoint, model.NewUser, c.cfg.GameCode)
}

// GetUserLeagueHistory returns the logged in user with the leagues of every
// game they played.
func (c *Client) GetUserLeagueHistory(ctx context.Context) (*Response[*model.User], error) {
	return get(ctx, c, userLeaguesEndpoint, model.NewUser, c.cfg.GameCode)
}

func (c *Client) GetOverview(ctx context.Context) (*Response[*model.League], error) {
	lk, err := c.GetLeagueKey(ctx)
	if err != nil {
		return nil, err
	}
	return get(ctx, c, overviewEndpoint, model.NewLeague, lk)
}

func (c *Client) GetStandings(ctx context.Context) (*Response[*model.Standings], error) {
	lk, err := c.GetLeagueKey(ctx)
	if err != nil {
		return nil, err
	}
	return get(ctx, c, standingsEndpoint, model.NewStandings, lk)
}

func (c *Client) GetSettings(ctx context.Context) (*Response[*model.Settings], error) {
	lk, err := c.GetLeagueKey(ctx)
	if err != nil {
		return nil, err
	}
	return get(ctx, c, settingsEndpoint, model.NewSettings, lk)
}

// GetTeams returns the league's teams as unpacked, see model.Teams.
func (c *Client) GetTeams(ctx context.Context) (*Response[any], error) {
	lk, err := c.GetLeagueKey(ctx)
	if err != nil {
		return nil, err
	}
	return get(ctx, c, teamsEndpoint, untyped, lk)
}

// GetMatchups returns the scoreboard of a week as unpacked, see model.Matchups.
func (c *Client) GetMatchups(ctx context.Context, week int) (*Response[any], error) {
	lk, err := c.GetLeagueKey(ctx)
	if err != nil {
		return nil, err
	}
	return get(ctx, c, matchupsEndpoint, untyped, lk, week)
}

// GetTeamRoster returns the players, with their weekly stats, on a team's
// roster for a week. teamID is the team's number within the league.
func (c *Client) GetTeamRoster(ctx context.Context, teamID string, week int) (*Response[any], error) {
	lk, err := c.GetLeagueKey(ctx)
	if err != nil {
		return nil, err
	}
	teamKey := fmt.Sprintf("%s.t.%s", lk, teamID)
	return get(ctx, c, rosterEndpoint, untyped, teamKey, week)
}

// GetPlayerStats returns a player's stats for a week, e.g. playerKey "449.p.33395".
func (c *Client) GetPlayerStats(ctx context.Context, playerKey string, week int) (*Response[*model.Player], error) {
	lk, err := c.GetLeagueKey(ctx)
	if err != nil {
		return nil, err
	}
	return get(ctx, c, playerStatsEndpoint, model.NewPlayer, lk, playerKey, week)
}
