package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"

	"github.com/mww/fantasy_query/platforms/yahoo"
)

// errorBody is the JSON document written for every failed request.
type errorBody struct {
	Error string `json:"error"`
	URL   string `json:"url,omitempty"`
}

func queryHandler[T any](render *render.Render, fn func(context.Context) (*yahoo.Response[T], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := fn(r.Context())
		writeResponse(w, render, resp, err)
	}
}

func gameHandler(c *yahoo.Client, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := c.GetGame(r.Context(), chi.URLParam(r, "gameID"))
		writeResponse(w, render, resp, err)
	}
}

func leagueKeyHandler(c *yahoo.Client, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := c.GetLeagueKey(r.Context())
		if err != nil {
			writeError(w, render, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]string{"league_key": key})
	}
}

func matchupsHandler(c *yahoo.Client, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, ok := weekParam(w, r, render)
		if !ok {
			return
		}
		resp, err := c.GetMatchups(r.Context(), week)
		writeResponse(w, render, resp, err)
	}
}

func rosterHandler(c *yahoo.Client, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, ok := weekParam(w, r, render)
		if !ok {
			return
		}
		resp, err := c.GetTeamRoster(r.Context(), chi.URLParam(r, "teamID"), week)
		writeResponse(w, render, resp, err)
	}
}

func playerStatsHandler(c *yahoo.Client, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, ok := weekParam(w, r, render)
		if !ok {
			return
		}
		resp, err := c.GetPlayerStats(r.Context(), chi.URLParam(r, "playerKey"), week)
		writeResponse(w, render, resp, err)
	}
}

// weekParam reads the optional week query parameter. Week 1 is the default.
func weekParam(w http.ResponseWriter, r *http.Request, render *render.Render) (int, bool) {
	s := r.URL.Query().Get("week")
	if s == "" {
		return 1, true
	}
	week, err := strconv.Atoi(s)
	if err != nil || week < 1 {
		render.JSON(w, http.StatusBadRequest, errorBody{Error: "week must be a positive integer"})
		return 0, false
	}
	return week, true
}

func writeResponse[T any](w http.ResponseWriter, render *render.Render, resp *yahoo.Response[T], err error) {
	if err != nil {
		writeError(w, render, err)
		return
	}
	render.JSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, render *render.Render, err error) {
	render.JSON(w, statusFor(err), errorBody{Error: err.Error(), URL: errorURL(err)})
}

func statusFor(err error) int {
	var te *yahoo.TransportError
	switch {
	case errors.Is(err, yahoo.ErrOfflineMode):
		return http.StatusServiceUnavailable
	case errors.Is(err, yahoo.ErrKeyPathNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &te):
		switch te.StatusCode {
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return te.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorURL(err error) string {
	var te *yahoo.TransportError
	if errors.As(err, &te) {
		return te.URL
	}
	return ""
}
