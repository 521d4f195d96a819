package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/lmarchant/cupscore/internal/db"
	"github.com/lmarchant/cupscore/internal/middleware"
	"github.com/lmarchant/cupscore/internal/roster"
	"github.com/lmarchant/cupscore/internal/service"
	"github.com/lmarchant/cupscore/internal/tournament"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	database := db.InitDB(envOr("DATABASE_PATH", "tournament.db"))
	defer database.Close()

	if err := db.RunMigrations(database, "file://migrations"); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	middleware.InitAuth()

	scoring := tournament.DefaultScoringParams()
	seedIfEmpty(database, scoring)

	sessionManager := scs.New()
	sessionManager.Lifetime = 24 * time.Hour
	sessionManager.Store = sqlite3store.New(database.DB)

	router := newRouter(sessionManager, scoring)

	addr := envOr("SERVER_ADDR", ":8080")
	log.Println("Server starting on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}

// seedIfEmpty bootstraps the roster on a fresh database. An already seeded
// tournament is left alone; resets go through the admin page.
func seedIfEmpty(database *sqlx.DB, scoring tournament.ScoringParams) {
	ctx := context.Background()
	tournaments := service.NewTournamentService(database, scoring)

	counts, err := tournaments.DashboardCounts(ctx)
	if err != nil {
		log.Fatal("Failed to read team count:", err)
	}
	if counts.Teams > 0 {
		return
	}

	seeds, err := roster.Load(
		envOr("RANKINGS_CSV", "data/fifa_rankings.csv"),
		envOr("QUALIFIED_CSV", "data/qualified_teams.csv"),
	)
	if err != nil {
		log.Println("Roster CSVs not loaded, starting with an empty tournament:", err)
		return
	}

	seeded, err := tournaments.Initialize(ctx, seeds)
	if err != nil {
		log.Fatal("Failed to seed tournament:", err)
	}
	log.Printf("Seeded %d teams from the roster", seeded)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
