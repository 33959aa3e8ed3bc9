// ABOUTME: Wires configuration, logging, the routing client and storage for commands
// ABOUTME: Every command that runs turns builds its navigator through newApp
package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/harper/hospital-navigator/internal/config"
	"github.com/harper/hospital-navigator/internal/dispatch"
	"github.com/harper/hospital-navigator/internal/llm"
	"github.com/harper/hospital-navigator/internal/logging"
	"github.com/harper/hospital-navigator/internal/router"
	"github.com/harper/hospital-navigator/internal/storage/sqlite"
)

// app holds the components shared by one command invocation
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	gateway   *router.Gateway
	navigator *dispatch.Navigator
	db        *sqlite.DB
	recorder  *sqlite.SessionRecorder
}

// loadConfig reads .env (if present) then the environment
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) *log.Logger {
	return logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Verbose: verbose,
		Quiet:   quiet,
		Output:  out,
	})
}

// newApp builds a navigator backed by the configured model. With store set,
// messages are recorded into a fresh transcript session.
func newApp(logOut io.Writer, store bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, logOut)

	client := llm.NewOpenAIClient(&llm.ClientConfig{
		APIKeyEnv:  config.APIKeyEnv,
		BaseURL:    cfg.BaseURL,
		ChatModel:  cfg.ChatModel,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, logger)

	a := &app{
		cfg:     cfg,
		logger:  logger,
		gateway: router.NewGateway(client, router.WithTemperature(float32(cfg.Temperature)), router.WithLogger(logger)),
	}

	opts := []dispatch.Option{dispatch.WithLogger(logger)}
	if store {
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening transcript database: %w", err)
		}
		rec, err := sqlite.NewSessionRecorder(sqlite.NewTranscriptStore(db))
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("starting transcript session: %w", err)
		}
		a.db = db
		a.recorder = rec
		opts = append(opts, dispatch.WithRecorder(rec))
		logger.Debug("recording transcript", "session", rec.SessionID(), "db", cfg.DBPath)
	}

	a.navigator = dispatch.New(a.gateway, opts...)
	return a, nil
}

// sessionID returns the transcript session, or "" when not recording
func (a *app) sessionID() string {
	if a.recorder == nil {
		return ""
	}
	return a.recorder.SessionID()
}

// Close releases the transcript database
func (a *app) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// openStore opens the transcript database read/write for history and sync
func openStore() (*sqlite.DB, *sqlite.TranscriptStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening transcript database: %w", err)
	}
	return db, sqlite.NewTranscriptStore(db), nil
}
