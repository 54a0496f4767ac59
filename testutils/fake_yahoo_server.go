package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

const (
	YahooLeagueID   = "431"
	YahooGameKey    = "449"
	YahooLeagueKey  = "449.l.431"
	YahooPastGameID = "423"
)

//go:embed yahoodata
var yahoodata embed.FS

// FakeYahooServer serves the fixtures in yahoodata/ at the same paths as
// the Yahoo Fantasy API. It counts requests by path.
type FakeYahooServer struct {
	s *httptest.Server

	mu     sync.Mutex
	hits   map[string]int
	bearer string
}

func NewFakeYahooServer() *FakeYahooServer {
	f := &FakeYahooServer{hits: make(map[string]int)}

	r := chi.NewRouter()
	r.Use(f.count, f.checkRequest)
	// https://fantasysports.yahooapis.com/fantasy/v2/league/449.l.431/standings
	r.Route("/fantasy/v2", func(r chi.Router) {
		r.Get("/game/{gameID}", gameHandler)
		r.Get("/users;use_login=1/games;codes={code}/", fileHandler("users_games.json"))
		r.Get("/users;use_login=1/games;codes={code}/leagues/", fileHandler("users_leagues.json"))

		r.Route("/league/{leagueKey}", func(r chi.Router) {
			r.Use(leagueOnly)
			r.Get("/", fileHandler("league_metadata.json"))
			r.Get("/settings", fileHandler("settings.json"))
			r.Get("/standings", fileHandler("standings.json"))
			r.Get("/teams", fileHandler("teams.json"))
			r.Get("/scoreboard;week={week}", weekHandler("scoreboard_week%s.json"))
			r.Get("/players;player_keys={playerKey}/stats;type=week;week={week}", playerStatsHandler)
		})

		r.Get("/team/{teamKey}/roster;week={week}/players/stats", rosterHandler)
	})

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeYahooServer) Close() {
	f.s.Close()
}

func (f *FakeYahooServer) URL() string {
	return f.s.URL
}

// RequireBearer makes the server reject requests that are not authorized
// with the given access token.
func (f *FakeYahooServer) RequireBearer(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bearer = token
}

// Hits returns how many requests were made for path, e.g. "/fantasy/v2/game/nfl".
func (f *FakeYahooServer) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *FakeYahooServer) TotalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.hits {
		total += n
	}
	return total
}

func (f *FakeYahooServer) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeYahooServer) checkRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" {
			writeYahooError(w, http.StatusBadRequest, "only json responses are served by this server")
			return
		}

		f.mu.Lock()
		bearer := f.bearer
		f.mu.Unlock()
		if bearer != "" && r.Header.Get("Authorization") != "Bearer "+bearer {
			writeYahooError(w, http.StatusUnauthorized, "Please provide valid credentials. OAuth oauth_problem=\"token_rejected\", realm=\"yahooapis.com\"")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func leagueOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "leagueKey") != YahooLeagueKey {
			writeYahooError(w, http.StatusForbidden, "You are not allowed to view this page because you are not in this league.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func gameHandler(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "gameID") {
	case "nfl", YahooGameKey:
		serveYahooFile(w, "game_nfl.json")
	case YahooPastGameID:
		serveYahooFile(w, "game_423.json")
	default:
		writeYahooError(w, http.StatusBadRequest, "Invalid game key provided")
	}
}

func rosterHandler(w http.ResponseWriter, r *http.Request) {
	teamKey := chi.URLParam(r, "teamKey")
	if !strings.HasPrefix(teamKey, YahooLeagueKey+".t.") {
		writeYahooError(w, http.StatusForbidden, "You are not allowed to view this page because you are not in this league.")
		return
	}
	team := strings.TrimPrefix(teamKey, YahooLeagueKey+".t.")
	serveYahooFile(w, fmt.Sprintf("roster_team%s_week%s.json", team, chi.URLParam(r, "week")))
}

func playerStatsHandler(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "playerKey") != "449.p.33395" {
		writeYahooError(w, http.StatusBadRequest, "Invalid player key")
		return
	}
	serveYahooFile(w, fmt.Sprintf("player_stats_week%s.json", chi.URLParam(r, "week")))
}

func fileHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveYahooFile(w, name)
	}
}

func weekHandler(pattern string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveYahooFile(w, fmt.Sprintf(pattern, chi.URLParam(r, "week")))
	}
}

func serveYahooFile(w http.ResponseWriter, name string) {
	b, err := yahoodata.ReadFile(fmt.Sprintf("yahoodata/%s", name))
	if err != nil {
		log.Printf("error reading yahoodata/%s: %v", name, err)
		writeYahooError(w, http.StatusNotFound, "resource not found")
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func writeYahooError(w http.ResponseWriter, status int, description string) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":{"xml:lang":"en-us","yahoo:uri":"","description":%q,"detail":""}}`, description)
}
