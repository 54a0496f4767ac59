package model

type Team struct {
	Base

	TeamKey             string               `json:"team_key"`
	TeamID              string               `json:"team_id"`
	Name                string               `json:"name"`
	URL                 string               `json:"url"`
	TeamLogos           []*TeamLogo          `json:"team_logos,omitempty"`
	WaiverPriority      int                  `json:"waiver_priority"`
	FAABBalance         int                  `json:"faab_balance,omitempty"`
	NumberOfMoves       int                  `json:"number_of_moves"`
	NumberOfTrades      int                  `json:"number_of_trades"`
	ClinchedPlayoffs    bool                 `json:"clinched_playoffs,omitempty"`
	Managers            []*Manager           `json:"managers,omitempty"`
	TeamPoints          *TeamPoints          `json:"team_points,omitempty"`
	TeamProjectedPoints *TeamProjectedPoints `json:"team_projected_points,omitempty"`
	TeamStandings       *TeamStandings       `json:"team_standings,omitempty"`
	Roster              *Roster              `json:"roster,omitempty"`
	WinProbability      float64              `json:"win_probability,omitempty"`
}

func NewTeam(v any) *Team {
	t := &Team{Base: newBase("Team", v)}
	t.TeamKey = t.str("team_key")
	t.TeamID = t.str("team_id")
	t.Name = t.str("name")
	t.URL = t.str("url")
	t.TeamLogos = collect[*TeamLogo](t.Fields["team_logos"], "team_logo")
	t.WaiverPriority = t.num("waiver_priority")
	t.FAABBalance = t.num("faab_balance")
	t.NumberOfMoves = t.num("number_of_moves")
	t.NumberOfTrades = t.num("number_of_trades")
	t.ClinchedPlayoffs = t.flag("clinched_playoffs")
	t.Managers = collect[*Manager](t.Fields["managers"], "manager")
	t.TeamPoints = child[*TeamPoints](&t.Base, "team_points")
	t.TeamProjectedPoints = child[*TeamProjectedPoints](&t.Base, "team_projected_points")
	t.TeamStandings = child[*TeamStandings](&t.Base, "team_standings")
	t.Roster = child[*Roster](&t.Base, "roster")
	t.WinProbability = t.float("win_probability")
	return t
}

type Manager struct {
	Base

	ManagerID      string `json:"manager_id"`
	Nickname       string `json:"nickname"`
	GUID           string `json:"guid"`
	IsCommissioner bool   `json:"is_commissioner,omitempty"`
	IsCurrentLogin bool   `json:"is_current_login,omitempty"`
	Email          string `json:"email,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
}

func NewManager(v any) *Manager {
	m := &Manager{Base: newBase("Manager", v)}
	m.ManagerID = m.str("manager_id")
	m.Nickname = m.str("nickname")
	m.GUID = m.str("guid")
	m.IsCommissioner = m.flag("is_commissioner")
	m.IsCurrentLogin = m.flag("is_current_login")
	m.Email = m.str("email")
	m.ImageURL = m.str("image_url")
	return m
}

type TeamLogo struct {
	Base

	Size string `json:"size"`
	URL  string `json:"url"`
}

func NewTeamLogo(v any) *TeamLogo {
	tl := &TeamLogo{Base: newBase("TeamLogo", v)}
	tl.Size = tl.str("size")
	tl.URL = tl.str("url")
	return tl
}

type TeamPoints struct {
	Base

	CoverageType string  `json:"coverage_type"`
	Week         int     `json:"week,omitempty"`
	Season       int     `json:"season,omitempty"`
	Total        float64 `json:"total"`
}

func NewTeamPoints(v any) *TeamPoints {
	tp := &TeamPoints{Base: newBase("TeamPoints", v)}
	tp.CoverageType = tp.str("coverage_type")
	tp.Week = tp.num("week")
	tp.Season = tp.num("season")
	tp.Total = tp.float("total")
	return tp
}

type TeamProjectedPoints struct {
	Base

	CoverageType string  `json:"coverage_type"`
	Week         int     `json:"week,omitempty"`
	Total        float64 `json:"total"`
}

func NewTeamProjectedPoints(v any) *TeamProjectedPoints {
	tp := &TeamProjectedPoints{Base: newBase("TeamProjectedPoints", v)}
	tp.CoverageType = tp.str("coverage_type")
	tp.Week = tp.num("week")
	tp.Total = tp.float("total")
	return tp
}

type TeamStandings struct {
	Base

	Rank          int            `json:"rank"`
	PlayoffSeed   int            `json:"playoff_seed,omitempty"`
	OutcomeTotals *OutcomeTotals `json:"outcome_totals,omitempty"`
	PointsFor     float64        `json:"points_for"`
	PointsAgainst float64        `json:"points_against"`
}

func NewTeamStandings(v any) *TeamStandings {
	ts := &TeamStandings{Base: newBase("TeamStandings", v)}
	ts.Rank = ts.num("rank")
	ts.PlayoffSeed = ts.num("playoff_seed")
	ts.OutcomeTotals = child[*OutcomeTotals](&ts.Base, "outcome_totals")
	ts.PointsFor = ts.float("points_for")
	ts.PointsAgainst = ts.float("points_against")
	return ts
}

type OutcomeTotals struct {
	Base

	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Ties       int     `json:"ties"`
	Percentage float64 `json:"percentage"`
}

func NewOutcomeTotals(v any) *OutcomeTotals {
	ot := &OutcomeTotals{Base: newBase("OutcomeTotals", v)}
	ot.Wins = ot.num("wins")
	ot.Losses = ot.num("losses")
	ot.Ties = ot.num("ties")
	ot.Percentage = ot.float("percentage")
	return ot
}

// Standings wraps the standings sequence of a league. Yahoo returns it as a
// one element list holding the teams, which is kept in Items.
type Standings struct {
	Base

	Teams []*Team `json:"teams"`
}

func NewStandings(v any) *Standings {
	s := &Standings{Base: newBase("Standings", v)}
	s.Teams = collect[*Team](s.Fields["teams"], "team")
	return s
}

// Matchup is one head to head game of a scoreboard week. Yahoo nests the
// two teams under the key "0".
type Matchup struct {
	Base

	Week          int     `json:"week"`
	WeekStart     string  `json:"week_start,omitempty"`
	WeekEnd       string  `json:"week_end,omitempty"`
	Status        string  `json:"status"`
	IsPlayoffs    bool    `json:"is_playoffs"`
	IsConsolation bool    `json:"is_consolation"`
	IsTied        bool    `json:"is_tied"`
	WinnerTeamKey string  `json:"winner_team_key,omitempty"`
	Teams         []*Team `json:"teams"`
}

func NewMatchup(v any) *Matchup {
	m := &Matchup{Base: newBase("Matchup", v)}
	m.Week = m.num("week")
	m.WeekStart = m.str("week_start")
	m.WeekEnd = m.str("week_end")
	m.Status = m.str("status")
	m.IsPlayoffs = m.flag("is_playoffs")
	m.IsConsolation = m.flag("is_consolation")
	m.IsTied = m.flag("is_tied")
	m.WinnerTeamKey = m.str("winner_team_key")
	m.Teams = collect[*Team](nested(&m.Base, "0", "teams"), "team")
	return m
}

// Roster is a team's weekly roster. The players are nested under "0".
type Roster struct {
	Base

	CoverageType string    `json:"coverage_type"`
	Week         int       `json:"week,omitempty"`
	IsEditable   bool      `json:"is_editable"`
	Players      []*Player `json:"players"`
}

func NewRoster(v any) *Roster {
	r := &Roster{Base: newBase("Roster", v)}
	r.CoverageType = r.str("coverage_type")
	r.Week = r.num("week")
	r.IsEditable = r.flag("is_editable")
	r.Players = collect[*Player](nested(&r.Base, "0", "players"), "player")
	return r
}

// nested follows keys through plain mappings below b.
func nested(b *Base, keys ...string) any {
	var cur any = b.Fields
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}
