package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mww/fantasy_query/platforms/yahoo"
)

// run executes one query with the configured timeout and prints its response.
func run[T any](a *app, fn func(ctx context.Context, c *yahoo.Client) (*yahoo.Response[T], error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		c, err := a.yahooClient(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Timeout)
		defer cancel()

		resp, err := fn(ctx, c)
		if err != nil {
			return err
		}
		return printResponse(cmd.OutOrStdout(), resp, a.selectExpr)
	}
}

func queryCommands(a *app) []*cobra.Command {
	var (
		week      int
		teamID    string
		playerKey string
	)

	game := &cobra.Command{
		Use:   "game [game-id]",
		Short: "Show the current season's game, or the game with the given id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return run(a, func(ctx context.Context, c *yahoo.Client) (*yahoo.Response[any], error) {
					resp, err := c.GetGame(ctx, args[0])
					return untyped(resp, err)
				})(cmd, args)
			}
			return run(a, func(ctx context.Context, c *yahoo.Client) (*yahoo.Response[any], error) {
				resp, err := c.GetCurrentGame(ctx)
				return untyped(resp, err)
			})(cmd, args)
		},
	}

	leagueKey := &cobra.Command{
		Use:   "league-key",
		Short: "Print the league key <game_key>.l.<league_id>",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.yahooClient(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Timeout)
			defer cancel()

			lk, err := c.GetLeagueKey(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), lk)
			return nil
		},
	}

	matchups := &cobra.Command{
		Use:   "matchups",
		Short: "Show the scoreboard of a week",
		Args:  cobra.NoArgs,
		RunE: run(a, func(ctx context.Context, c *yahoo.Client) (*yahoo.Response[any], error) {
			return c.GetMatchups(ctx, week)
		}),
	}
	matchups.Flags().IntVar(&week, "week", 1, "week number")

	roster := &cobra.Command{
		Use:   "roster",
		Short: "Show a team's roster and player stats for a week",
		Args:  cobra.NoArgs,
		RunE: run(a, func(ctx context.Context, c *yahoo.Client) (*yahoo.Response[any], error) {
			return c.GetTeamRoster(ctx, teamID, week)
		}),
	}
	roster.Flags().StringVar(&teamID, "team", "", "team number within the league")
	roster.Flags().IntVar(&week, "week", 1, "week number")
	roster.MarkFlagRequired("team")

	playerStats := &cobra.Command{
		Use:   "player-stats",
		Short: "Show a player's stats for a week",
		Args:  cobra.NoArgs,
		RunE: run(a, func(ctx context.Context, c *yahoo.Client) (*yahoo.Response[any], error) {
			resp, err := c.GetPlayerStats(ctx, playerKey, week)
			return untyped(resp, err)
		}),
	}
	playerStats.Flags().StringVar(&playerKey, "player", "", "player key, e.g. 449.p.33395")
	playerStats.Flags().IntVar(&week, "week", 1, "week number")
	playerStats.MarkFlagRequired("player")

	query := &cobra.Command{
		Use:   "query <path> [key...]",
		Short: "Query any resource path below /fantasy/v2 and descend the given key path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/" + strings.TrimPrefix(args[0], "/")
			return run(a, func(ctx context.Context, c *yahoo.Client) (*yahoo.Response[any], error) {
				return c.Query(ctx, c.ResourceURL(path), args[1:], nil)
			})(cmd, args)
		},
	}

	return []*cobra.Command{
		game,
		leagueKey,
		simple(a, "user-games", "Show the logged in user's game history", (*yahoo.Client).GetUserGameHistory),
		simple(a, "user-leagues", "Show the logged in user's league history", (*yahoo.Client).GetUserLeagueHistory),
		simple(a, "overview", "Show the league overview", (*yahoo.Client).GetOverview),
		simple(a, "standings", "Show the league standings", (*yahoo.Client).GetStandings),
		simple(a, "settings", "Show the league settings", (*yahoo.Client).GetSettings),
		simple(a, "teams", "Show the league's teams", (*yahoo.Client).GetTeams),
		matchups,
		roster,
		playerStats,
		query,
	}
}

// simple builds a command for a query without arguments.
func simple[T any](a *app, use, short string, fn func(*yahoo.Client, context.Context) (*yahoo.Response[T], error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: run(a, func(ctx context.Context, c *yahoo.Client) (*yahoo.Response[T], error) {
			return fn(c, ctx)
		}),
	}
}

func untyped[T any](resp *yahoo.Response[T], err error) (*yahoo.Response[any], error) {
	if err != nil {
		return nil, err
	}
	return &yahoo.Response[any]{Data: resp.Data, URL: resp.URL, Raw: resp.Raw}, nil
}
