package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lmarchant/cupscore/internal/db"
	"github.com/lmarchant/cupscore/internal/httputil"
	"github.com/lmarchant/cupscore/internal/middleware"
	"github.com/lmarchant/cupscore/internal/roster"
	"github.com/lmarchant/cupscore/internal/service"
	"github.com/lmarchant/cupscore/internal/tournament"
	"github.com/lmarchant/cupscore/internal/utils"
	"github.com/lmarchant/cupscore/views"
)

func newRouter(sessionManager *scs.SessionManager, scoring tournament.ScoringParams) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)

	dbConn := db.GetDB()
	tournaments := service.NewTournamentService(dbConn, scoring)
	matches := service.NewMatchService(dbConn)
	selections := service.NewSelectionService(dbConn)

	isAdmin := func(r *http.Request) bool {
		return middleware.IsAdmin(sessionManager, r.Context())
	}
	flash := func(r *http.Request) string {
		return sessionManager.PopString(r.Context(), "flash")
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		round, err := tournaments.CurrentRound(ctx)
		if err != nil {
			httputil.InternalServerError(w, "Failed to load round", err)
			return
		}
		counts, err := tournaments.DashboardCounts(ctx)
		if err != nil {
			httputil.InternalServerError(w, "Failed to load counts", err)
			return
		}
		lastUpdated, _ := tournaments.LastUpdated(ctx)
		leaders, err := tournaments.Leaderboard(ctx, service.LeaderboardOptions{TopN: 10})
		if err != nil {
			httputil.InternalServerError(w, "Failed to load leaderboard", err)
			return
		}
		history, err := tournaments.MatchHistory(ctx)
		if err != nil {
			httputil.InternalServerError(w, "Failed to load matches", err)
			return
		}
		if len(history) > 10 {
			history = history[:10]
		}
		views.Render(w, r, views.Index(round.String(), counts, lastUpdated, leaders, history, isAdmin(r)))
	})

	r.Get("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		topN, _ := strconv.Atoi(r.URL.Query().Get("top_n"))
		opts := service.LeaderboardOptions{
			TopN:           topN,
			ActiveOnly:     filter == "active",
			EliminatedOnly: filter == "eliminated",
		}
		teams, err := tournaments.Leaderboard(r.Context(), opts)
		if err != nil {
			httputil.InternalServerError(w, "Failed to load leaderboard", err)
			return
		}
		round, err := tournaments.CurrentRound(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to load round", err)
			return
		}
		views.Render(w, r, views.LeaderboardPage(teams, round.String(), filter, topN, isAdmin(r)))
	})

	r.Get("/matches", func(w http.ResponseWriter, r *http.Request) {
		history, err := tournaments.MatchHistory(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to load matches", err)
			return
		}
		views.Render(w, r, views.MatchHistoryPage(history, isAdmin(r), flash(r)))
	})

	r.Get("/teams/{country}", func(w http.ResponseWriter, r *http.Request) {
		country := chi.URLParam(r, "country")
		team, teamMatches, err := tournaments.TeamDetail(r.Context(), country)
		if errors.Is(err, tournament.ErrUnknownTeam) {
			httputil.NotFound(w, "No such team", err)
			return
		}
		if err != nil {
			httputil.InternalServerError(w, "Failed to load team", err)
			return
		}
		views.Render(w, r, views.TeamDetailPage(team, teamMatches, isAdmin(r)))
	})

	r.Get("/bracket", func(w http.ResponseWriter, r *http.Request) {
		bracket, err := tournaments.KnockoutBracket(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to load bracket", err)
			return
		}
		round, err := tournaments.CurrentRound(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to load round", err)
			return
		}
		views.Render(w, r, views.BracketPage(bracket, round.String(), isAdmin(r)))
	})

	r.Get("/statistics", func(w http.ResponseWriter, r *http.Request) {
		stats, err := tournaments.ConfederationStats(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to load statistics", err)
			return
		}
		views.Render(w, r, views.StatisticsPage(stats, isAdmin(r)))
	})

	r.Get("/competition", func(w http.ResponseWriter, r *http.Request) {
		renderCompetition(w, r, tournaments, selections, flash(r), false, isAdmin(r))
	})

	r.Post("/competition", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httputil.BadRequest(w, "Invalid form data", err)
			return
		}
		err := selections.CreateSelection(r.Context(), r.Form.Get("user_name"), r.Form["teams"])
		switch {
		case errors.Is(err, service.ErrSelectionExists),
			errors.Is(err, service.ErrSelectionSize),
			errors.Is(err, service.ErrUserNameMissing),
			errors.Is(err, tournament.ErrUnknownTeam):
			renderCompetition(w, r, tournaments, selections, err.Error(), true, isAdmin(r))
			return
		case err != nil:
			httputil.InternalServerError(w, "Failed to save selection", err)
			return
		}
		sessionManager.Put(r.Context(), "flash", "Picks saved, good luck!")
		http.Redirect(w, r, "/competition", http.StatusSeeOther)
	})

	r.Get("/admin/login", func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, r, views.AdminLoginPage(r.URL.Query().Get("next"), ""))
	})

	r.Post("/admin/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httputil.BadRequest(w, "Invalid form data", err)
			return
		}
		if !middleware.CheckAdminPassword(r.Form.Get("password")) {
			views.Render(w, r, views.AdminLoginPage(r.Form.Get("next"), "Wrong password"))
			return
		}
		middleware.LoginAdmin(sessionManager, r.Context())
		next := r.Form.Get("next")
		if next == "" || next[0] != '/' {
			next = "/admin"
		}
		http.Redirect(w, r, next, http.StatusSeeOther)
	})

	r.Get("/admin/logout", func(w http.ResponseWriter, r *http.Request) {
		middleware.LogoutAdmin(sessionManager, r.Context())
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(sessionManager))

		r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			round, err := tournaments.CurrentRound(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to load round", err)
				return
			}
			counts, err := tournaments.DashboardCounts(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to load counts", err)
				return
			}
			views.Render(w, r, views.AdminDashboard(round.String(), counts, flash(r), false))
		})

		r.Get("/admin/record-match", func(w http.ResponseWriter, r *http.Request) {
			renderRecordMatch(w, r, tournaments, "", false)
		})

		r.Post("/admin/record-match", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}
			team1 := r.Form.Get("team1")
			team2 := r.Form.Get("team2")
			team1Goals := utils.IntOrNil(r.Form.Get("team1_goals"))
			team2Goals := utils.IntOrNil(r.Form.Get("team2_goals"))

			var summary string
			var err error
			switch r.Form.Get("result") {
			case "team1":
				summary, err = matches.RecordWin(r.Context(), team1, team2, team1Goals, team2Goals)
			case "team2":
				summary, err = matches.RecordWin(r.Context(), team2, team1, team2Goals, team1Goals)
			case "draw":
				summary, err = matches.RecordDraw(r.Context(), team1, team2, team1Goals, team2Goals)
			default:
				httputil.BadRequest(w, "Unknown result type", nil)
				return
			}
			if isRuleError(err) {
				renderRecordMatch(w, r, tournaments, err.Error(), true)
				return
			}
			if err != nil {
				httputil.InternalServerError(w, "Failed to record match", err)
				return
			}
			sessionManager.Put(r.Context(), "flash", summary)
			http.Redirect(w, r, "/matches", http.StatusSeeOther)
		})

		r.Post("/admin/undo", func(w http.ResponseWriter, r *http.Request) {
			summary, err := matches.UndoLast(r.Context())
			switch {
			case errors.Is(err, tournament.ErrNothingToUndo):
				sessionManager.Put(r.Context(), "flash", "Nothing to undo")
			case errors.Is(err, tournament.ErrUndoReconstruction):
				sessionManager.Put(r.Context(), "flash", "Could not undo: "+err.Error())
			case err != nil:
				httputil.InternalServerError(w, "Failed to undo match", err)
				return
			default:
				sessionManager.Put(r.Context(), "flash", summary)
			}
			http.Redirect(w, r, "/matches", http.StatusSeeOther)
		})

		r.Post("/admin/set-round", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}
			force := r.Form.Get("force") == "1"
			err := tournaments.SetRound(r.Context(), r.Form.Get("round"), force)
			switch {
			case errors.Is(err, tournament.ErrInvalidRound),
				errors.Is(err, tournament.ErrRoundCapacityExceeded):
				sessionManager.Put(r.Context(), "flash", err.Error())
			case err != nil:
				httputil.InternalServerError(w, "Failed to set round", err)
				return
			default:
				sessionManager.Put(r.Context(), "flash", "Round updated")
			}
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
		})

		r.Get("/admin/advance-knockout", func(w http.ResponseWriter, r *http.Request) {
			renderAdvancePage(w, r, tournaments, "")
		})

		r.Post("/admin/advance-knockout", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}
			summary, err := tournaments.AdvanceToKnockout(r.Context(), r.Form["advancing"])
			if isRuleError(err) {
				renderAdvancePage(w, r, tournaments, err.Error())
				return
			}
			if err != nil {
				httputil.InternalServerError(w, "Failed to advance", err)
				return
			}
			sessionManager.Put(r.Context(), "flash", summary)
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
		})

		r.Post("/admin/reset", func(w http.ResponseWriter, r *http.Request) {
			seeds, err := roster.Load(
				envOr("RANKINGS_CSV", "data/fifa_rankings.csv"),
				envOr("QUALIFIED_CSV", "data/qualified_teams.csv"),
			)
			if err != nil {
				httputil.InternalServerError(w, "Failed to load roster", err)
				return
			}
			seeded, err := tournaments.Initialize(r.Context(), seeds)
			if err != nil {
				httputil.InternalServerError(w, "Failed to reset tournament", err)
				return
			}
			sessionManager.Put(r.Context(), "flash", "Tournament reset, "+strconv.Itoa(seeded)+" teams seeded")
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/teams", func(w http.ResponseWriter, r *http.Request) {
			teams, err := tournaments.AllTeams(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to load teams", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, teams)
		})

		r.Get("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
			topN, _ := strconv.Atoi(r.URL.Query().Get("top_n"))
			teams, err := tournaments.Leaderboard(r.Context(), service.LeaderboardOptions{TopN: topN})
			if err != nil {
				httputil.InternalServerError(w, "Failed to load leaderboard", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, teams)
		})

		r.Get("/match-history", func(w http.ResponseWriter, r *http.Request) {
			history, err := tournaments.MatchHistory(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to load matches", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, history)
		})

		r.Post("/create-selection", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				UserName string   `json:"user_name"`
				Teams    []string `json:"teams"`
			}
			if err := httputil.ReadJSON(r, &body); err != nil {
				httputil.BadRequest(w, "Invalid JSON body", err)
				return
			}
			err := selections.CreateSelection(r.Context(), body.UserName, body.Teams)
			switch {
			case errors.Is(err, service.ErrSelectionExists):
				httputil.Conflict(w, err.Error(), err)
			case errors.Is(err, service.ErrSelectionSize),
				errors.Is(err, service.ErrUserNameMissing),
				errors.Is(err, tournament.ErrUnknownTeam):
				httputil.BadRequest(w, err.Error(), err)
			case err != nil:
				httputil.InternalServerError(w, "Failed to save selection", err)
			default:
				httputil.WriteJSON(w, http.StatusCreated, map[string]string{"status": "created"})
			}
		})
	})

	return r
}

// isRuleError reports whether the error is a tournament rule violation the
// admin should see on the form, as opposed to a server fault.
func isRuleError(err error) bool {
	for _, target := range []error{
		tournament.ErrUnknownTeam,
		tournament.ErrAlreadyEliminated,
		tournament.ErrSameTeam,
		tournament.ErrInvalidRound,
		tournament.ErrInvalidRoundForDraw,
		tournament.ErrRoundCapacityExceeded,
		tournament.ErrGroupStageIncomplete,
		tournament.ErrAdvancingCountMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func renderCompetition(w http.ResponseWriter, r *http.Request, tournaments *service.TournamentService, selections *service.SelectionService, flash string, flashErr bool, admin bool) {
	scores, err := selections.Scoreboard(r.Context())
	if err != nil {
		httputil.InternalServerError(w, "Failed to load scoreboard", err)
		return
	}
	teams, err := tournaments.AllTeams(r.Context())
	if err != nil {
		httputil.InternalServerError(w, "Failed to load teams", err)
		return
	}
	views.Render(w, r, views.CompetitionPage(scores, teams, flash, flashErr, admin))
}

func renderRecordMatch(w http.ResponseWriter, r *http.Request, tournaments *service.TournamentService, flash string, flashErr bool) {
	active, err := tournaments.ActiveTeams(r.Context())
	if err != nil {
		httputil.InternalServerError(w, "Failed to load teams", err)
		return
	}
	round, err := tournaments.CurrentRound(r.Context())
	if err != nil {
		httputil.InternalServerError(w, "Failed to load round", err)
		return
	}
	views.Render(w, r, views.RecordMatchPage(active, round.String(), flash, flashErr))
}

func renderAdvancePage(w http.ResponseWriter, r *http.Request, tournaments *service.TournamentService, errMsg string) {
	teams, err := tournaments.AllTeams(r.Context())
	if err != nil {
		httputil.InternalServerError(w, "Failed to load teams", err)
		return
	}
	played := 0
	for _, m := range mustHistory(tournaments, r) {
		if m.Round == tournament.GroupStage.String() {
			played++
		}
	}
	views.Render(w, r, views.AdvanceKnockoutPage(teams, played, errMsg))
}

func mustHistory(tournaments *service.TournamentService, r *http.Request) []tournament.Match {
	history, err := tournaments.MatchHistory(r.Context())
	if err != nil {
		return nil
	}
	return history
}
