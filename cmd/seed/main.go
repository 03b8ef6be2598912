package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/wellnessintake/backend/internal/adapters/database"
	"github.com/zatekoja/wellnessintake/backend/internal/application/services"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/observability"
	"github.com/zatekoja/wellnessintake/backend/pkg/config"
)

func main() {
	var locale string
	var ddlOnly bool
	var skipCoaches bool

	flag.StringVar(&locale, "locale", "", "Locale to import defaults under (defaults to DEFAULT_LOCALE)")
	flag.BoolVar(&ddlOnly, "ddl-only", false, "Create tables without importing defaults")
	flag.BoolVar(&skipCoaches, "skip-coaches", false, "Do not seed the default coach")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.OTEL.ServiceName += "-seed"
	if err := observability.InitLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	start := time.Now()

	if err := database.ApplySchema(ctx, pgClient); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}
	log.Info().Msg("schema applied")

	if ddlOnly {
		return
	}

	var importer *services.ImportService
	if skipCoaches {
		importer = services.NewImportService(
			database.NewFormSchemaAdapter(pgClient),
			database.NewPromptAdapter(pgClient),
			nil,
			cfg.App.DefaultLocale,
		)
	} else {
		importer = services.NewImportService(
			database.NewFormSchemaAdapter(pgClient),
			database.NewPromptAdapter(pgClient),
			database.NewCoachAdapter(pgClient),
			cfg.App.DefaultLocale,
		)
	}

	schemas, err := importer.ImportDefaultSchemas(ctx, locale)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to import default schemas")
	}
	prompts, err := importer.ImportDefaultPrompts(ctx, locale)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to import default prompts")
	}
	coachCreated, err := importer.SeedCoaches(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed coaches")
	}

	log.Info().
		Int("schemas", len(schemas)).
		Int("prompts", len(prompts)).
		Bool("coach_created", coachCreated).
		Dur("elapsed", time.Since(start)).
		Msg("seed complete")
}
