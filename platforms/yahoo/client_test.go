package yahoo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/mww/fantasy_query/metrics"
	"github.com/mww/fantasy_query/model"
	"github.com/mww/fantasy_query/testutils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, url string, opts ...Option) *Client {
	t.Helper()
	return newTestClientWithConfig(t, url, Config{LeagueID: testutils.YahooLeagueID}, opts...)
}

func newTestClientWithConfig(t *testing.T, url string, cfg Config, opts ...Option) *Client {
	t.Helper()
	c, err := New(StaticSession{HTTPClient: http.DefaultClient}, cfg, append([]Option{WithBaseURL(url)}, opts...)...)
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	return c
}

// serveJSON starts a server that answers every request with body.
func serveJSON(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func standingsCtor(v any) any {
	return model.NewStandings(v)
}

func TestQuery_standings(t *testing.T) {
	s := serveJSON(http.StatusOK, `{"fantasy_content": {"league": {"standings": {"0": {"team_standings": {"rank": 1}}, "count": 1}}}}`)
	defer s.Close()

	c := newTestClient(t, s.URL)
	url := s.URL + "/fantasy/v2/league/449.l.431/standings"

	resp, err := c.Query(context.Background(), url, []string{"league", "standings"}, standingsCtor)
	if err != nil {
		t.Fatalf("unexpected error querying standings: %v", err)
	}

	expectedRaw := map[string]any{
		"0":     map[string]any{"team_standings": map[string]any{"rank": 1.0}},
		"count": 1.0,
	}
	if !reflect.DeepEqual(expectedRaw, resp.Raw) {
		t.Errorf("expected raw %v, got %v", expectedRaw, resp.Raw)
	}
	if resp.URL != url {
		t.Errorf("expected url %s, got %s", url, resp.URL)
	}

	standings, ok := resp.Data.(*model.Standings)
	if !ok {
		t.Fatalf("expected *model.Standings, got %T", resp.Data)
	}
	if len(standings.Items) != 1 {
		t.Fatalf("expected standings to wrap 1 item, got %d", len(standings.Items))
	}
	item, _ := standings.Items[0].(map[string]any)
	ts, ok := item["team_standings"].(*model.TeamStandings)
	if !ok || ts.Rank != 1 {
		t.Errorf("expected team standings with rank 1, got %#v", item["team_standings"])
	}
}

func TestQuery_noResponseType(t *testing.T) {
	s := serveJSON(http.StatusOK, `{"fantasy_content": {"game": [{"game_key": "449", "name": "Football"}]}}`)
	defer s.Close()

	c := newTestClient(t, s.URL)
	resp, err := c.Query(context.Background(), s.URL+"/fantasy/v2/game/nfl", []string{"game"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, ok := resp.Data.([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("expected the unpacked list, got %#v", resp.Data)
	}
	if !reflect.DeepEqual(resp.Raw, resp.Data) {
		t.Errorf("data without models should equal raw, got %v and %v", resp.Data, resp.Raw)
	}
}

func TestQuery_keyPathOrder(t *testing.T) {
	s := serveJSON(http.StatusOK, `{"fantasy_content": {"league": {"standings": {"count": 0}}}}`)
	defer s.Close()

	c := newTestClient(t, s.URL)

	_, err := c.Query(context.Background(), s.URL, []string{"league", "standings"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Query(context.Background(), s.URL, []string{"standings", "league"}, nil)
	if !errors.Is(err, ErrKeyPathNotFound) {
		t.Fatalf("expected ErrKeyPathNotFound, got %v", err)
	}
	var kpErr *KeyPathError
	if !errors.As(err, &kpErr) || kpErr.Index != 0 {
		t.Errorf("expected the first key to be reported, got %v", err)
	}
}

func TestExtract(t *testing.T) {
	doc := map[string]any{
		"league": []any{
			map[string]any{"league_key": "449.l.431"},
			map[string]any{"standings": []any{"s"}},
		},
		"counted": []any{
			map[string]any{"0": "X", "count": 1},
			map[string]any{"1": "Y"},
		},
	}

	tests := []struct {
		name    string
		keyPath []string
		want    any
		missing int
	}{
		{name: "empty path", keyPath: nil, want: doc},
		{name: "flattened fragments", keyPath: []string{"league", "standings"}, want: []any{"s"}},
		{name: "index into sequence", keyPath: []string{"league", "1", "standings", "0"}, want: "s"},
		{name: "numeric key in fragments", keyPath: []string{"counted", "0"}, want: "X"},
		{name: "fragment key wins over position", keyPath: []string{"counted", "1"}, want: "Y"},
		{name: "missing first", keyPath: []string{"team"}, missing: 0},
		{name: "missing in fragments", keyPath: []string{"league", "settings"}, missing: 1},
		{name: "index out of range", keyPath: []string{"league", "standings", "1"}, missing: 2},
		{name: "scalar", keyPath: []string{"league", "league_key", "x"}, missing: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extract(doc, tc.keyPath)
			if tc.want != nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !reflect.DeepEqual(tc.want, got) {
					t.Errorf("expected %v, got %v", tc.want, got)
				}
				return
			}
			var kpErr *KeyPathError
			if !errors.As(err, &kpErr) {
				t.Fatalf("expected a KeyPathError, got %v", err)
			}
			if kpErr.Index != tc.missing {
				t.Errorf("expected key %d to be missing, got %d", tc.missing, kpErr.Index)
			}
		})
	}
}

func TestQuery_offline(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c, err := New(nil, Config{LeagueID: testutils.YahooLeagueID, Offline: true}, WithBaseURL(fakeYahoo.URL()))
	if err != nil {
		t.Fatalf("unexpected error creating offline client: %v", err)
	}

	if _, err := c.GetCurrentGame(context.Background()); !errors.Is(err, ErrOfflineMode) {
		t.Errorf("expected ErrOfflineMode, got %v", err)
	}
	if _, err := c.GetStandings(context.Background()); !errors.Is(err, ErrOfflineMode) {
		t.Errorf("expected ErrOfflineMode, got %v", err)
	}
	if fakeYahoo.TotalHits() != 0 {
		t.Errorf("offline client made %d requests", fakeYahoo.TotalHits())
	}
}

func TestNew_requiresSession(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Fatal("expected an error, but got none")
	}
}

func TestQuery_transportErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "status", status: http.StatusUnauthorized, body: `{"error": {"description": "token_expired"}}`},
		{name: "bad json", status: http.StatusOK, body: `{"fantasy_content": `},
		{name: "no envelope", status: http.StatusOK, body: `{"error": "nope"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := serveJSON(tc.status, tc.body)
			defer s.Close()

			c := newTestClient(t, s.URL)
			_, err := c.Query(context.Background(), s.URL, []string{"game"}, nil)
			if !errors.Is(err, ErrTransport) {
				t.Fatalf("expected ErrTransport, got %v", err)
			}
			var tErr *TransportError
			if !errors.As(err, &tErr) || tErr.StatusCode != tc.status {
				t.Errorf("expected status %d on the error, got %v", tc.status, err)
			}
		})
	}

	s := serveJSON(http.StatusOK, `{}`)
	url := s.URL
	s.Close()

	c := newTestClient(t, url)
	if _, err := c.Query(context.Background(), url, []string{"game"}, nil); !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport for a refused connection, got %v", err)
	}
}

func TestQuery_unreadableErrorBody(t *testing.T) {
	s := serveJSON(http.StatusServiceUnavailable, `<html>maintenance</html>`)
	defer s.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newTestClient(t, s.URL, WithLogger(logger))

	_, err := c.Query(context.Background(), s.URL, []string{"game"}, nil)
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected a TransportError, got %v", err)
	}
	if tErr.StatusCode != http.StatusServiceUnavailable || tErr.Message != "" {
		t.Errorf("unexpected error: %+v", tErr)
	}
	if !strings.Contains(logs.String(), "yahoo error response has no readable description") {
		t.Errorf("expected the unreadable body to be logged, got:\n%s", logs.String())
	}
}

func TestQuery_authorized(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()
	fakeYahoo.RequireBearer("access_token")

	c := newTestClient(t, fakeYahoo.URL())
	if _, err := c.GetCurrentGame(context.Background()); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected an unauthorized request to fail, got %v", err)
	}

	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "access_token"}))
	c, err := New(StaticSession{HTTPClient: httpClient}, Config{LeagueID: testutils.YahooLeagueID}, WithBaseURL(fakeYahoo.URL()))
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	if _, err := c.GetCurrentGame(context.Background()); err != nil {
		t.Fatalf("unexpected error with a valid token: %v", err)
	}
}

func TestGetLeagueKey(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	for i := 0; i < 2; i++ {
		lk, err := c.GetLeagueKey(context.Background())
		if err != nil {
			t.Fatalf("unexpected error getting league key: %v", err)
		}
		if lk != testutils.YahooLeagueKey {
			t.Errorf("expected league key %s, got %s", testutils.YahooLeagueKey, lk)
		}
	}

	if n := fakeYahoo.Hits("/fantasy/v2/game/nfl"); n != 1 {
		t.Errorf("expected the current game to be fetched once, got %d", n)
	}
}

func TestGetLeagueKey_gameID(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClientWithConfig(t, fakeYahoo.URL(), Config{LeagueID: testutils.YahooLeagueID, GameID: testutils.YahooPastGameID})

	lk, err := c.GetLeagueKey(context.Background())
	if err != nil {
		t.Fatalf("unexpected error getting league key: %v", err)
	}
	if lk != "423.l.431" {
		t.Errorf("expected league key 423.l.431, got %s", lk)
	}
	if fakeYahoo.Hits("/fantasy/v2/game/nfl") != 0 || fakeYahoo.Hits("/fantasy/v2/game/423") != 1 {
		t.Errorf("expected only the configured game to be fetched")
	}
}

func TestGetLeagueKey_badGame(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClientWithConfig(t, fakeYahoo.URL(), Config{LeagueID: testutils.YahooLeagueID, GameID: "1"})
	if _, err := c.GetLeagueKey(context.Background()); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if _, err := c.GetOverview(context.Background()); err == nil {
		t.Fatal("expected an error, but got none")
	}
}

func TestGetCurrentGame(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	resp, err := c.GetCurrentGame(context.Background())
	if err != nil {
		t.Fatalf("unexpected error getting current game: %v", err)
	}

	g := resp.Data
	if g.GameKey != "449" || g.Code != "nfl" || g.Season != 2024 || g.IsGameOver {
		t.Errorf("unexpected game: %+v", g)
	}
	if resp.URL != fakeYahoo.URL()+"/fantasy/v2/game/nfl" {
		t.Errorf("unexpected url: %s", resp.URL)
	}
	if g.TypeName() != "Game" {
		t.Errorf("expected type Game, got %s", g.TypeName())
	}
}

func TestGetGame(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	resp, err := c.GetGame(context.Background(), testutils.YahooPastGameID)
	if err != nil {
		t.Fatalf("unexpected error getting game: %v", err)
	}
	if resp.Data.GameKey != "423" || resp.Data.Season != 2023 || !resp.Data.IsGameOver {
		t.Errorf("unexpected game: %+v", resp.Data)
	}
}

func TestGetUserGameHistory(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	resp, err := c.GetUserGameHistory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error getting game history: %v", err)
	}

	u := resp.Data
	if u.GUID != "ABCDEFGHIJKLMNOP" {
		t.Errorf("unexpected guid: %s", u.GUID)
	}
	var seasons []int
	for _, g := range u.Games {
		seasons = append(seasons, g.Season)
	}
	if !reflect.DeepEqual([]int{2023, 2024}, seasons) {
		t.Errorf("expected seasons [2023 2024], got %v", seasons)
	}
}

func TestGetUserLeagueHistory(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	resp, err := c.GetUserLeagueHistory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error getting league history: %v", err)
	}

	games := resp.Data.Games
	if len(games) != 1 || len(games[0].Leagues) != 1 {
		t.Fatalf("expected one game with one league, got %+v", games)
	}
	l := games[0].Leagues[0]
	if l.LeagueKey != testutils.YahooLeagueKey || l.NumTeams != 4 {
		t.Errorf("unexpected league: %+v", l)
	}
}

func TestGetOverview(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	resp, err := c.GetOverview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error getting overview: %v", err)
	}

	l := resp.Data
	if l.Name != "Y! Friends and Family League" {
		t.Errorf("league name was not expected value, got: %s", l.Name)
	}
	if l.CurrentWeek != 2 || l.StartWeek != 1 || l.EndWeek != 17 || l.Season != 2024 {
		t.Errorf("unexpected league weeks: %+v", l)
	}
	// Keys without a typed field are kept.
	if v, ok := l.Get("weekly_deadline"); !ok || v != "intraday" {
		t.Errorf("expected weekly_deadline to be preserved, got %v", v)
	}
}

func TestGetOverview_badLeagueID(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClientWithConfig(t, fakeYahoo.URL(), Config{LeagueID: "987"})

	_, err := c.GetOverview(context.Background())
	var tErr *TransportError
	if !errors.As(err, &tErr) || tErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected a 403 transport error, got %v", err)
	}
}

func TestGetStandings(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	resp, err := c.GetStandings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error getting standings: %v", err)
	}

	type row struct {
		key    string
		rank   int
		wins   int
		losses int
		pf     float64
	}
	expected := []row{
		{"449.l.431.t.10", 1, 10, 3, 1642.36},
		{"449.l.431.t.5", 2, 9, 4, 1588.10},
		{"449.l.431.t.8", 3, 5, 8, 1390.54},
		{"449.l.431.t.12", 4, 2, 11, 1201.20},
	}

	var got []row
	for _, team := range resp.Data.Teams {
		ts := team.TeamStandings
		got = append(got, row{team.TeamKey, ts.Rank, ts.OutcomeTotals.Wins, ts.OutcomeTotals.Losses, ts.PointsFor})
	}
	if !reflect.DeepEqual(expected, got) {
		t.Errorf("expected %v, got %v", expected, got)
	}
	if len(resp.Data.Items) != 1 {
		t.Errorf("expected the standings sequence to have 1 element, got %d", len(resp.Data.Items))
	}
}

func TestGetSettings(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	resp, err := c.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error getting settings: %v", err)
	}

	expected := []model.Position{
		model.POS_QB,
		model.POS_WR,
		model.POS_WR,
		model.POS_WR,
		model.POS_RB,
		model.POS_RB,
		model.POS_TE,
		model.POS_FLEX,
		model.POS_K,
		model.POS_DEF,
	}
	if starters := resp.Data.Starters(); !reflect.DeepEqual(expected, starters) {
		t.Errorf("wanted %v but got %v", expected, starters)
	}

	if resp.Data.PlayoffStartWeek != 15 || resp.Data.MaxTeams != 12 || !resp.Data.UsesPlayoff {
		t.Errorf("unexpected settings: %+v", resp.Data)
	}
	if m, ok := resp.Data.StatModifiers.Modifier(4); !ok || m != 0.04 {
		t.Errorf("expected passing yards modifier 0.04, got %v", m)
	}
}

func TestGetTeams(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	resp, err := c.GetTeams(context.Background())
	if err != nil {
		t.Fatalf("unexpected error getting teams: %v", err)
	}

	type manager struct {
		key, team, manager string
	}
	expected := []manager{
		{"449.l.431.t.10", "Gehlken", "Mark"},
		{"449.l.431.t.5", "RotoExperts", "James"},
		{"449.l.431.t.8", "Y! - Pianowski", "George"},
		{"449.l.431.t.12", "Y! - Behrens", "James"},
	}

	var got []manager
	for _, team := range model.Teams(resp.Data) {
		got = append(got, manager{team.TeamKey, team.Name, team.Managers[0].Nickname})
	}
	if !reflect.DeepEqual(expected, got) {
		t.Errorf("expected: %v, but got %v", expected, got)
	}
}

func TestGetMatchups(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	resp, err := c.GetMatchups(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error getting yahoo scoreboard: %v", err)
	}

	type result struct {
		winner string
		teamA  string
		scoreA float64
		teamB  string
		scoreB float64
	}
	expected := []result{
		{"449.l.431.t.10", "449.l.431.t.10", 142.78, "449.l.431.t.5", 88.84},
		{"449.l.431.t.8", "449.l.431.t.8", 122.78, "449.l.431.t.12", 87.74},
	}

	var got []result
	for _, m := range model.Matchups(resp.Data) {
		if m.Week != 1 || len(m.Teams) != 2 {
			t.Fatalf("unexpected matchup: %+v", m)
		}
		a, b := m.Teams[0], m.Teams[1]
		got = append(got, result{m.WinnerTeamKey, a.TeamKey, a.TeamPoints.Total, b.TeamKey, b.TeamPoints.Total})
	}
	if !reflect.DeepEqual(expected, got) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestGetTeamRoster(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	resp, err := c.GetTeamRoster(context.Background(), "10", 1)
	if err != nil {
		t.Fatalf("unexpected error getting roster: %v", err)
	}

	type slot struct {
		name   string
		pos    string
		points float64
	}
	expected := []slot{
		{"Tyler Boyd", "WR", 12.3},
		{"Zay Jones", "BN", 4.1},
		{"Mike Gesicki", "TE", 8.6},
	}

	var got []slot
	for _, p := range model.Players(resp.Data) {
		got = append(got, slot{p.Name.Full, p.SelectedPosition.Position, p.PlayerPoints.Total})
	}
	if !reflect.DeepEqual(expected, got) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	if fakeYahoo.Hits("/fantasy/v2/team/449.l.431.t.10/roster;week=1/players/stats") != 1 {
		t.Errorf("expected the roster of team 10 to be requested")
	}
}

func TestGetPlayerStats(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	c := newTestClient(t, fakeYahoo.URL())

	resp, err := c.GetPlayerStats(context.Background(), "449.p.33395", 1)
	if err != nil {
		t.Fatalf("unexpected error getting player stats: %v", err)
	}

	p := resp.Data
	if p.Name.Full != "Jalen Hurts" || p.Position() != model.POS_QB {
		t.Errorf("unexpected player: %+v", p)
	}
	if !reflect.DeepEqual([]string{"QB"}, p.EligiblePositions) {
		t.Errorf("unexpected eligible positions: %v", p.EligiblePositions)
	}
	if v, ok := p.PlayerStats.Value(4); !ok || v != 278 {
		t.Errorf("expected 278 passing yards, got %v", v)
	}
	if p.PlayerPoints.Total != 22.42 {
		t.Errorf("expected 22.42 points, got %v", p.PlayerPoints.Total)
	}
}

func TestQuery_metrics(t *testing.T) {
	fakeYahoo := testutils.NewFakeYahooServer()
	defer fakeYahoo.Close()

	m, err := metrics.NewCollector(nil)
	if err != nil {
		t.Fatalf("unexpected error creating collector: %v", err)
	}
	c := newTestClient(t, fakeYahoo.URL(), WithMetrics(m))

	if _, err := c.GetCurrentGame(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.GetGame(context.Background(), "1"); err == nil {
		t.Fatal("expected an error for an invalid game")
	}

	if n := testutil.ToFloat64(m.Queries().WithLabelValues("current_game", "ok")); n != 1 {
		t.Errorf("expected 1 successful current_game query, got %v", n)
	}
	if n := testutil.ToFloat64(m.Queries().WithLabelValues("game", "transport_error")); n != 1 {
		t.Errorf("expected 1 failed game query, got %v", n)
	}
}
