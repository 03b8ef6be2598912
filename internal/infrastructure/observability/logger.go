package observability

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/wellnessintake/backend/pkg/config"
	"go.opentelemetry.io/otel/trace"
)

type stageKey struct{}

// InitLogger configures the global zerolog logger from the app config.
// Development gets a console writer; everything else gets JSON with caller.
func InitLogger(cfg *config.Config) error {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.App.LogLevel, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var base zerolog.Logger
	if cfg.App.Env == "development" {
		base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		base = zerolog.New(os.Stdout).With().Caller().Logger()
	}

	log.Logger = base.With().
		Timestamp().
		Str("service", cfg.OTEL.ServiceName).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.App.Env).
		Logger()
	return nil
}

// WithStage tags ctx with the stage being resolved or edited; loggers taken
// from the returned context carry it as stage_id.
func WithStage(ctx context.Context, stageID string) context.Context {
	return context.WithValue(ctx, stageKey{}, stageID)
}

// LoggerFromContext returns the global logger with the trace ids and stage of ctx
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	lc := log.With()

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		lc = lc.
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String())
	}
	if stageID, ok := ctx.Value(stageKey{}).(string); ok && stageID != "" {
		lc = lc.Str("stage_id", stageID)
	}

	logger := lc.Logger()
	return &logger
}
