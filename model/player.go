package model

type Player struct {
	Base

	PlayerKey             string            `json:"player_key"`
	PlayerID              string            `json:"player_id"`
	Name                  *Name             `json:"name,omitempty"`
	Status                string            `json:"status,omitempty"`
	EditorialPlayerKey    string            `json:"editorial_player_key,omitempty"`
	EditorialTeamKey      string            `json:"editorial_team_key,omitempty"`
	EditorialTeamFullName string            `json:"editorial_team_full_name,omitempty"`
	EditorialTeamAbbr     string            `json:"editorial_team_abbr,omitempty"`
	ByeWeeks              *ByeWeeks         `json:"bye_weeks,omitempty"`
	UniformNumber         string            `json:"uniform_number,omitempty"`
	DisplayPosition       string            `json:"display_position"`
	PrimaryPosition       string            `json:"primary_position"`
	PositionType          string            `json:"position_type,omitempty"`
	EligiblePositions     []string          `json:"eligible_positions,omitempty"`
	Headshot              *Headshot         `json:"headshot,omitempty"`
	ImageURL              string            `json:"image_url,omitempty"`
	IsUndroppable         bool              `json:"is_undroppable,omitempty"`
	SelectedPosition      *SelectedPosition `json:"selected_position,omitempty"`
	PlayerStats           *PlayerStats      `json:"player_stats,omitempty"`
	PlayerPoints          *PlayerPoints     `json:"player_points,omitempty"`
}

func NewPlayer(v any) *Player {
	p := &Player{Base: newBase("Player", v)}
	p.PlayerKey = p.str("player_key")
	p.PlayerID = p.str("player_id")
	p.Name = child[*Name](&p.Base, "name")
	p.Status = p.str("status")
	p.EditorialPlayerKey = p.str("editorial_player_key")
	p.EditorialTeamKey = p.str("editorial_team_key")
	p.EditorialTeamFullName = p.str("editorial_team_full_name")
	p.EditorialTeamAbbr = p.str("editorial_team_abbr")
	p.ByeWeeks = child[*ByeWeeks](&p.Base, "bye_weeks")
	p.UniformNumber = p.str("uniform_number")
	p.DisplayPosition = p.str("display_position")
	p.PrimaryPosition = p.str("primary_position")
	p.PositionType = p.str("position_type")
	p.EligiblePositions = positions(p.Fields["eligible_positions"])
	p.Headshot = child[*Headshot](&p.Base, "headshot")
	p.ImageURL = p.str("image_url")
	p.IsUndroppable = p.flag("is_undroppable")
	p.SelectedPosition = child[*SelectedPosition](&p.Base, "selected_position")
	p.PlayerStats = child[*PlayerStats](&p.Base, "player_stats")
	p.PlayerPoints = child[*PlayerPoints](&p.Base, "player_points")
	return p
}

// Position is the player's primary position.
func (p *Player) Position() Position {
	return ParsePosition(p.PrimaryPosition)
}

// eligible_positions unpacks to [{"position": "QB"}, ...].
func positions(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			if pos := toString(m["position"]); pos != "" {
				result = append(result, pos)
			}
		}
	}
	return result
}

type Name struct {
	Base

	Full       string `json:"full"`
	First      string `json:"first"`
	Last       string `json:"last"`
	ASCIIFirst string `json:"ascii_first,omitempty"`
	ASCIILast  string `json:"ascii_last,omitempty"`
}

func NewName(v any) *Name {
	n := &Name{Base: newBase("Name", v)}
	n.Full = n.str("full")
	n.First = n.str("first")
	n.Last = n.str("last")
	n.ASCIIFirst = n.str("ascii_first")
	n.ASCIILast = n.str("ascii_last")
	return n
}

type Headshot struct {
	Base

	URL  string `json:"url"`
	Size string `json:"size"`
}

func NewHeadshot(v any) *Headshot {
	h := &Headshot{Base: newBase("Headshot", v)}
	h.URL = h.str("url")
	h.Size = h.str("size")
	return h
}

type ByeWeeks struct {
	Base

	Week int `json:"week"`
}

func NewByeWeeks(v any) *ByeWeeks {
	b := &ByeWeeks{Base: newBase("ByeWeeks", v)}
	b.Week = b.num("week")
	return b
}

type SelectedPosition struct {
	Base

	CoverageType string `json:"coverage_type"`
	Week         int    `json:"week,omitempty"`
	Position     string `json:"position"`
}

func NewSelectedPosition(v any) *SelectedPosition {
	sp := &SelectedPosition{Base: newBase("SelectedPosition", v)}
	sp.CoverageType = sp.str("coverage_type")
	sp.Week = sp.num("week")
	sp.Position = sp.str("position")
	return sp
}

type PlayerStats struct {
	Base

	CoverageType string  `json:"coverage_type"`
	Week         int     `json:"week,omitempty"`
	Season       int     `json:"season,omitempty"`
	Stats        []*Stat `json:"stats"`
}

func NewPlayerStats(v any) *PlayerStats {
	ps := &PlayerStats{Base: newBase("PlayerStats", v)}
	ps.CoverageType = ps.str("coverage_type")
	ps.Week = ps.num("week")
	ps.Season = ps.num("season")
	ps.Stats = collect[*Stat](ps.Fields["stats"], "stat")
	return ps
}

// Value returns the value recorded for a stat id, and whether it was present.
func (ps *PlayerStats) Value(statID int) (float64, bool) {
	for _, s := range ps.Stats {
		if s.StatID == statID {
			return s.Value, true
		}
	}
	return 0, false
}

type PlayerPoints struct {
	Base

	CoverageType string  `json:"coverage_type"`
	Week         int     `json:"week,omitempty"`
	Total        float64 `json:"total"`
}

func NewPlayerPoints(v any) *PlayerPoints {
	pp := &PlayerPoints{Base: newBase("PlayerPoints", v)}
	pp.CoverageType = pp.str("coverage_type")
	pp.Week = pp.num("week")
	pp.Total = pp.float("total")
	return pp
}
