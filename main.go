package main

import (
	"banking_assistant/src"
	"banking_assistant/src/conversation"
	"banking_assistant/src/dst"
	"banking_assistant/src/fixture"
	"banking_assistant/src/llm/nlu"
	"banking_assistant/src/logger"
	"banking_assistant/src/model"
	"banking_assistant/src/operation"
	"banking_assistant/src/storage"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const appContextPrefix = "session:app_context:"

func main() {
	envErr := godotenv.Load()

	config, err := src.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	closer, err := logger.InitLogger(config.LogConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if envErr != nil {
		logger.Warn().Err(envErr).Msg("No .env file loaded, using the process environment")
	}

	ctx := logger.WithContext(context.Background(), logger.Logger)

	if err := run(ctx, config); err != nil {
		logger.Error().Err(err).Msg("Assistant stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, config *src.Config) error {
	snapshot, err := fixture.Load(config.AppConfig.FixturePath)
	if err != nil {
		return fmt.Errorf("failed to load bank fixture: %w", err)
	}

	sessionID := config.AppConfig.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log := logger.Logger.With().Str("session_id", sessionID).Logger()
	ctx = logger.WithContext(ctx, log)

	app := snapshot.App
	var repo conversation.Repository = conversation.NewMemoryRepository()

	if config.ConversationConfig.RedisURL != "" {
		sessions, err := storage.NewRedisStorage[model.AppContext](ctx, config.ConversationConfig.RedisURL,
			storage.WithPrefix(appContextPrefix), storage.WithTTL(config.AppConfig.SessionTTL))
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, keeping the session in memory")
		} else {
			defer sessions.Close()
			app = restoreSession(ctx, sessions, config.AppConfig.SessionID != "", sessionID, app)
			repo = conversation.NewRedisRepositoryWithClient(sessions.Client(), config.ConversationConfig.TTL)
		}
	}

	transcript := conversation.NewService(repo, conversation.NewNLUContextStrategy(config.ConversationConfig.MaxTurns))

	extractor, err := nlu.NewExtractor(ctx, config.NLUConfig, nlu.WithHistory(transcript, sessionID))
	if err != nil {
		return fmt.Errorf("failed to create NLU extractor: %w", err)
	}

	tracker := dst.Start(app, extractor,
		dst.WithConfig(dst.ConfigFrom(config.DSTConfig)),
		dst.WithLogger(log),
	)
	delegate := operation.NewLedgerDelegate(app.BankAccounts, snapshot.Balances, snapshot.Transactions)

	if config.MetricsConfig.Addr != "" {
		srv := serveMetrics(ctx, config.MetricsConfig.Addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	log.Info().
		Str("provider", config.NLUConfig.Provider).
		Str("model", config.NLUConfig.Model).
		Int("contacts", len(app.Contacts)).
		Int("accounts", len(app.BankAccounts)).
		Msg("Assistant started")

	err = newREPL(tracker, delegate, transcript, sessionID, os.Stdin, os.Stdout).Run(ctx)
	logSessionEnd(ctx, transcript, sessionID)
	return err
}

// restoreSession returns the stored AppContext of a resumed session and stores app when
// nothing was stored yet. Sessions with a generated id are never resumed, so nothing is stored.
func restoreSession(ctx context.Context, sessions *storage.RedisStorage[model.AppContext], resume bool, sessionID string, app *model.AppContext) *model.AppContext {
	if !resume {
		return app
	}
	log := logger.FromContext(ctx)

	stored, err := sessions.GetAndTouch(ctx, sessionID)
	switch {
	case err == nil:
		log.Info().Msg("Resumed session snapshot")
		return &stored
	case errors.Is(err, storage.ErrNotFound):
		log.Info().Msg("No snapshot for session, starting from the fixture")
	default:
		log.Warn().Err(err).Msg("Failed to read session snapshot")
		return app
	}

	if err := sessions.Set(ctx, sessionID, *app); err != nil {
		log.Warn().Err(err).Msg("Failed to store session snapshot")
	}
	return app
}

// logSessionEnd reports how many messages the session exchanged.
func logSessionEnd(ctx context.Context, transcript *conversation.Service, sessionID string) {
	log := logger.FromContext(ctx)
	history, err := transcript.GetHistory(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read conversation history")
		return
	}
	log.Info().Int("messages", len(history.Messages)).Msg("Session ended")
}

func serveMetrics(ctx context.Context, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log := logger.FromContext(ctx)
		log.Info().Str("addr", addr).Msg("Serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	return srv
}
