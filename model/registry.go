package model

import (
	"sync"

	"github.com/mww/fantasy_query/unpack"
)

var (
	registryOnce sync.Once
	registry     unpack.Registry
)

// Registry returns the constructors of every typed model, keyed by type name.
// Payload keys are matched against it by the unpacker ("team_standings"
// resolves to "TeamStandings").
func Registry() unpack.Registry {
	registryOnce.Do(func() {
		registry = unpack.Registry{
			"Game":                ctor(NewGame),
			"User":                ctor(NewUser),
			"League":              ctor(NewLeague),
			"Settings":            ctor(NewSettings),
			"RosterPosition":      ctor(NewRosterPosition),
			"StatCategories":      ctor(NewStatCategories),
			"StatModifiers":       ctor(NewStatModifiers),
			"Stat":                ctor(NewStat),
			"Team":                ctor(NewTeam),
			"Manager":             ctor(NewManager),
			"TeamLogo":            ctor(NewTeamLogo),
			"TeamPoints":          ctor(NewTeamPoints),
			"TeamProjectedPoints": ctor(NewTeamProjectedPoints),
			"TeamStandings":       ctor(NewTeamStandings),
			"OutcomeTotals":       ctor(NewOutcomeTotals),
			"Standings":           ctor(NewStandings),
			"Matchup":             ctor(NewMatchup),
			"Roster":              ctor(NewRoster),
			"Player":              ctor(NewPlayer),
			"Name":                ctor(NewName),
			"Headshot":            ctor(NewHeadshot),
			"ByeWeeks":            ctor(NewByeWeeks),
			"SelectedPosition":    ctor(NewSelectedPosition),
			"PlayerStats":         ctor(NewPlayerStats),
			"PlayerPoints":        ctor(NewPlayerPoints),
		}
	})
	return registry
}

func ctor[T Object](fn func(any) T) unpack.Constructor {
	return func(v any) any {
		return fn(v)
	}
}

// Teams collects the teams of an unpacked teams collection.
func Teams(v any) []*Team {
	return collect[*Team](v, "team")
}

// Matchups collects the matchups of an unpacked scoreboard.
func Matchups(v any) []*Matchup {
	return collect[*Matchup](v, "matchup")
}

// Players collects the players of an unpacked players collection or roster.
func Players(v any) []*Player {
	return collect[*Player](v, "player")
}
