package model

// Game is a fantasy game for one sport and season, e.g. nfl 2024.
type Game struct {
	Base

	GameKey            string    `json:"game_key"`
	GameID             string    `json:"game_id"`
	Name               string    `json:"name"`
	Code               string    `json:"code"`
	Type               string    `json:"type"`
	URL                string    `json:"url"`
	Season             int       `json:"season"`
	IsRegistrationOver bool      `json:"is_registration_over"`
	IsGameOver         bool      `json:"is_game_over"`
	IsOffseason        bool      `json:"is_offseason"`
	Leagues            []*League `json:"leagues,omitempty"`
}

func NewGame(v any) *Game {
	g := &Game{Base: newBase("Game", v)}
	g.GameKey = g.str("game_key")
	g.GameID = g.str("game_id")
	g.Name = g.str("name")
	g.Code = g.str("code")
	g.Type = g.str("type")
	g.URL = g.str("url")
	g.Season = g.num("season")
	g.IsRegistrationOver = g.flag("is_registration_over")
	g.IsGameOver = g.flag("is_game_over")
	g.IsOffseason = g.flag("is_offseason")
	g.Leagues = collect[*League](g.Fields["leagues"], "league")
	return g
}

// User is the logged in Yahoo user together with their game or league history.
type User struct {
	Base

	GUID  string  `json:"guid"`
	Games []*Game `json:"games,omitempty"`
}

func NewUser(v any) *User {
	u := &User{Base: newBase("User", v)}
	u.GUID = u.str("guid")
	u.Games = collect[*Game](u.Fields["games"], "game")
	return u
}
