// The poller keeps the tracker in sync with the real tournament: it pulls
// finished results from Football-Data.org and records each one exactly once.
// It shares the database with the web server and can run alongside it.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lmarchant/cupscore/internal/db"
	"github.com/lmarchant/cupscore/internal/scores"
	"github.com/lmarchant/cupscore/internal/service"
	"github.com/lmarchant/cupscore/internal/tournament"
)

func main() {
	once := flag.Bool("once", false, "poll once and exit")
	interval := flag.Duration("interval", 5*time.Minute, "time between polls")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	apiKey := os.Getenv("FOOTBALL_DATA_API_KEY")
	if apiKey == "" {
		log.Fatal("FOOTBALL_DATA_API_KEY is required")
	}

	database := db.InitDB(envOr("DATABASE_PATH", "tournament.db"))
	defer database.Close()

	if err := db.RunMigrations(database, "file://migrations"); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	client := scores.NewClient(apiKey)
	matches := service.NewMatchService(database)
	tournaments := service.NewTournamentService(database, tournament.DefaultScoringParams())
	poller := scores.NewPoller(client, matches, tournaments, envOr("PROCESSED_STATE_PATH", "processed_matches.json"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if competition, err := client.Competition(ctx); err != nil {
		log.Println("Could not fetch competition info:", err)
	} else {
		log.Printf("Tracking %s, matchday %d", competition.Name, competition.CurrentSeason.CurrentMatchday)
	}

	if *once {
		recorded, live, err := poller.RunOnce(ctx)
		if err != nil {
			log.Fatal("Poll failed:", err)
		}
		log.Printf("Recorded %d new matches, %d in play", recorded, live)
		return
	}

	log.Println("Polling every", *interval)
	if err := poller.Run(ctx, *interval); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
