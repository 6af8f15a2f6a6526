package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rjoshi/findash/internal/api"
	"github.com/rjoshi/findash/internal/clock"
	"github.com/rjoshi/findash/internal/config"
	"github.com/rjoshi/findash/internal/database"
	"github.com/rjoshi/findash/internal/market"
	"github.com/rjoshi/findash/internal/repository"
	"github.com/rjoshi/findash/internal/service"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using environment variables")
	}

	cfg := config.Load()
	if cfg.Env == "production" {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	pool, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, log); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	repos := repository.NewRepositories(pool)
	quotes := market.NewYahooProvider(cfg.QuoteAPIURL, cfg.QuoteTimeout, log)
	services := service.NewServices(repos, quotes, cfg, clock.System(), log)

	server := api.NewServer(cfg, services, log)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting findash server")
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
