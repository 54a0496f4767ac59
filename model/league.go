package model

// League is the league overview. Sub-resources (standings, settings, teams)
// are only present when they were requested.
type League struct {
	Base

	LeagueKey       string     `json:"league_key"`
	LeagueID        string     `json:"league_id"`
	Name            string     `json:"name"`
	URL             string     `json:"url"`
	LogoURL         string     `json:"logo_url,omitempty"`
	DraftStatus     string     `json:"draft_status"`
	NumTeams        int        `json:"num_teams"`
	ScoringType     string     `json:"scoring_type"`
	LeagueType      string     `json:"league_type"`
	Renew           string     `json:"renew,omitempty"`
	Renewed         string     `json:"renewed,omitempty"`
	CurrentWeek     int        `json:"current_week"`
	StartWeek       int        `json:"start_week"`
	StartDate       string     `json:"start_date"`
	EndWeek         int        `json:"end_week"`
	EndDate         string     `json:"end_date"`
	GameCode        string     `json:"game_code"`
	Season          int        `json:"season"`
	IsFinished      bool       `json:"is_finished"`
	Standings       *Standings `json:"standings,omitempty"`
	Settings        *Settings  `json:"settings,omitempty"`
	Teams           []*Team    `json:"teams,omitempty"`
}

func NewLeague(v any) *League {
	l := &League{Base: newBase("League", v)}
	l.LeagueKey = l.str("league_key")
	l.LeagueID = l.str("league_id")
	l.Name = l.str("name")
	l.URL = l.str("url")
	l.LogoURL = l.str("logo_url")
	l.DraftStatus = l.str("draft_status")
	l.NumTeams = l.num("num_teams")
	l.ScoringType = l.str("scoring_type")
	l.LeagueType = l.str("league_type")
	l.Renew = l.str("renew")
	l.Renewed = l.str("renewed")
	l.CurrentWeek = l.num("current_week")
	l.StartWeek = l.num("start_week")
	l.StartDate = l.str("start_date")
	l.EndWeek = l.num("end_week")
	l.EndDate = l.str("end_date")
	l.GameCode = l.str("game_code")
	l.Season = l.num("season")
	l.IsFinished = l.flag("is_finished")
	l.Standings = child[*Standings](&l.Base, "standings")
	l.Settings = child[*Settings](&l.Base, "settings")
	l.Teams = collect[*Team](l.Fields["teams"], "team")
	return l
}

// Settings are the league's draft, waiver, roster and scoring rules.
type Settings struct {
	Base

	DraftType        string            `json:"draft_type"`
	IsAuctionDraft   bool              `json:"is_auction_draft"`
	ScoringType      string            `json:"scoring_type"`
	UsesPlayoff      bool              `json:"uses_playoff"`
	PlayoffStartWeek int               `json:"playoff_start_week"`
	NumPlayoffTeams  int               `json:"num_playoff_teams"`
	MaxTeams         int               `json:"max_teams"`
	UsesFAAB         bool              `json:"uses_faab"`
	WaiverType       string            `json:"waiver_type"`
	WaiverRule       string            `json:"waiver_rule"`
	TradeEndDate     string            `json:"trade_end_date"`
	RosterPositions  []*RosterPosition `json:"roster_positions,omitempty"`
	StatCategories   *StatCategories   `json:"stat_categories,omitempty"`
	StatModifiers    *StatModifiers    `json:"stat_modifiers,omitempty"`
}

func NewSettings(v any) *Settings {
	s := &Settings{Base: newBase("Settings", v)}
	s.DraftType = s.str("draft_type")
	s.IsAuctionDraft = s.flag("is_auction_draft")
	s.ScoringType = s.str("scoring_type")
	s.UsesPlayoff = s.flag("uses_playoff")
	s.PlayoffStartWeek = s.num("playoff_start_week")
	s.NumPlayoffTeams = s.num("num_playoff_teams")
	s.MaxTeams = s.num("max_teams")
	s.UsesFAAB = s.flag("uses_faab")
	s.WaiverType = s.str("waiver_type")
	s.WaiverRule = s.str("waiver_rule")
	s.TradeEndDate = s.str("trade_end_date")
	s.RosterPositions = collect[*RosterPosition](s.Fields["roster_positions"], "roster_position")
	s.StatCategories = child[*StatCategories](&s.Base, "stat_categories")
	s.StatModifiers = child[*StatModifiers](&s.Base, "stat_modifiers")
	return s
}

// Starters expands the roster positions into one slot per starting spot,
// skipping bench and injured reserve.
func (s *Settings) Starters() []Position {
	result := make([]Position, 0, len(s.RosterPositions))
	for _, rp := range s.RosterPositions {
		pos := ParsePosition(rp.Position)
		if !pos.IsStarter() {
			continue
		}
		for i := 0; i < rp.Count; i++ {
			result = append(result, pos)
		}
	}
	return result
}

type RosterPosition struct {
	Base

	Position     string `json:"position"`
	PositionType string `json:"position_type,omitempty"`
	Count        int    `json:"count"`
}

func NewRosterPosition(v any) *RosterPosition {
	rp := &RosterPosition{Base: newBase("RosterPosition", v)}
	rp.Position = rp.str("position")
	rp.PositionType = rp.str("position_type")
	rp.Count = rp.num("count")
	return rp
}

type StatCategories struct {
	Base

	Stats []*Stat `json:"stats"`
}

func NewStatCategories(v any) *StatCategories {
	sc := &StatCategories{Base: newBase("StatCategories", v)}
	sc.Stats = collect[*Stat](sc.Fields["stats"], "stat")
	return sc
}

// StatModifiers holds the points awarded per unit of each stat.
type StatModifiers struct {
	Base

	Stats []*Stat `json:"stats"`
}

func NewStatModifiers(v any) *StatModifiers {
	sm := &StatModifiers{Base: newBase("StatModifiers", v)}
	sm.Stats = collect[*Stat](sm.Fields["stats"], "stat")
	return sm
}

// Modifier returns the point value for a stat id, and whether one is set.
func (sm *StatModifiers) Modifier(statID int) (float64, bool) {
	for _, s := range sm.Stats {
		if s.StatID == statID {
			return s.Value, true
		}
	}
	return 0, false
}

// Stat is shared by stat categories (name, enabled), stat modifiers and
// player stats (value).
type Stat struct {
	Base

	StatID       int     `json:"stat_id"`
	Name         string  `json:"name,omitempty"`
	DisplayName  string  `json:"display_name,omitempty"`
	Enabled      bool    `json:"enabled,omitempty"`
	SortOrder    int     `json:"sort_order,omitempty"`
	PositionType string  `json:"position_type,omitempty"`
	Value        float64 `json:"value"`
}

func NewStat(v any) *Stat {
	s := &Stat{Base: newBase("Stat", v)}
	s.StatID = s.num("stat_id")
	s.Name = s.str("name")
	s.DisplayName = s.str("display_name")
	s.Enabled = s.flag("enabled")
	s.SortOrder = s.num("sort_order")
	s.PositionType = s.str("position_type")
	s.Value = s.float("value")
	return s
}
