package app

import (
	"os"
	"strings"
	"time"

	"transcript-merge-engine/internal/config"
	"transcript-merge-engine/internal/observability/logging"

	"github.com/rs/zerolog"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config
}

// New constructs a new Application from the provided configuration.
func New(cfg *config.Config) *Application {
	a := &Application{
		Cfg: cfg,
	}
	a.setupLogger()

	appLogger := a.Logger.With().
		Str("component", "application").
		Str("method", "New").
		Logger()

	appLogger.Info().Msg("transcript merge service application created")
	return a
}

// setupLogger configures the global zerolog logger via the logging
// package and derives this Application's own component logger from it.
func (a *Application) setupLogger() {
	level := strings.ToLower(os.Getenv("ZEROLOG_LOG_LEVEL"))
	if level == "" && a.Cfg != nil {
		level = strings.ToLower(a.Cfg.Observability.LogLevel)
	}
	if _, err := zerolog.ParseLevel(level); err != nil {
		level = zerolog.InfoLevel.String()
	}

	format := "json"
	if os.Getenv("ENV") == "dev" {
		format = "console"
	}

	logging.Init(logging.Config{
		Level:      level,
		Format:     format,
		TimeFormat: time.RFC3339,
	})
	a.Logger = logging.WithComponent("application")

	a.Logger.Info().
		Str("logLevel", level).
		Str("environment", os.Getenv("ENV")).
		Msg("logger setup completed")
}

// Start performs any startup work required before serving traffic.
func (a *Application) Start() error {
	startLogger := a.Logger.With().
		Str("method", "Start").
		Logger()

	a.StartupTime = time.Now().UTC()
	startLogger.Info().
		Time("startupTime", a.StartupTime).
		Msg("transcript merge service starting")

	return nil
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	shutdownLogger := a.Logger.With().
		Str("method", "Shutdown").
		Logger()

	shutdownLogger.Info().Msg("transcript merge service shutting down")
}
