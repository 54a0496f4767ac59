package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/render"

	"github.com/mww/fantasy_query/metrics"
	"github.com/mww/fantasy_query/platforms/yahoo"
)

func getRouter(c *yahoo.Client, m *metrics.Collector, render *render.Render, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	r.Group(func(r chi.Router) {
		// Yahoo can be slow, but a request should never outlive the client.
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/game", queryHandler(render, c.GetCurrentGame))
		r.Get("/game/{gameID}", gameHandler(c, render))
		r.Get("/users/games", queryHandler(render, c.GetUserGameHistory))
		r.Get("/users/leagues", queryHandler(render, c.GetUserLeagueHistory))

		r.Route("/league", func(r chi.Router) {
			r.Get("/", queryHandler(render, c.GetOverview))
			r.Get("/key", leagueKeyHandler(c, render))
			r.Get("/standings", queryHandler(render, c.GetStandings))
			r.Get("/settings", queryHandler(render, c.GetSettings))
			r.Get("/teams", queryHandler(render, c.GetTeams))
			r.Get("/matchups", matchupsHandler(c, render))
			r.Get("/teams/{teamID:\\d+}/roster", rosterHandler(c, render))
			r.Get("/players/{playerKey}/stats", playerStatsHandler(c, render))
		})
	})

	return r
}

func requestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
