package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/didilebossducode/lettre-motivation-ai/internal/api"
	"github.com/didilebossducode/lettre-motivation-ai/internal/canned"
	"github.com/didilebossducode/lettre-motivation-ai/internal/config"
	"github.com/didilebossducode/lettre-motivation-ai/internal/convert"
	"github.com/didilebossducode/lettre-motivation-ai/internal/draft"
	"github.com/didilebossducode/lettre-motivation-ai/internal/pathstore"
	"github.com/didilebossducode/lettre-motivation-ai/internal/pipeline"
	"github.com/didilebossducode/lettre-motivation-ai/internal/session"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return err
	}

	// Canned templates. A read failure leaves the defaults in memory.
	templates, err := canned.Open(canned.FileStore{Path: cfg.TemplatesPath()})
	if err != nil {
		var pe *canned.PersistenceError
		if !errors.As(err, &pe) {
			return err
		}
		log.Warn("template store unavailable, using defaults", "error", err)
	}

	// Session: local file, mirrored to pathstore when configured.
	var store session.Store = session.FileStore{Path: cfg.SessionPath()}
	var ps *pathstore.Client
	if cfg.PathstoreURL != "" {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		defer ps.Close()
		store = &session.Mirror{
			Primary:     store,
			Secondaries: []session.Store{session.RemoteStore{Client: ps, ID: cfg.SessionID}},
			Log:         log,
		}
	}
	snap, err := session.Load(ctx, store)
	if err != nil {
		log.Warn("session unreadable, starting empty", "error", err)
	}
	saver := session.NewAutoSaver(context.WithoutCancel(ctx), store, cfg.AutosaveDelay, log.With("component", "autosave"))
	sessions := session.NewManager(snap, saver)

	// Drafting is optional.
	stats := draft.NewLLMStats(time.Hour)
	var gen draft.Generator
	if cfg.AnthropicAPIKey != "" {
		opts := []draft.Option{
			draft.WithStats(stats),
			draft.WithSampling(draft.Sampling{
				MaxTokens:   cfg.MaxTokens,
				Temperature: cfg.Temperature,
				TopK:        cfg.TopK,
				TopP:        cfg.TopP,
			}),
		}
		if cfg.AnthropicBaseURL != "" {
			opts = append(opts, draft.WithBaseURL(cfg.AnthropicBaseURL))
		}
		claude := draft.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, opts...)
		defer claude.Close()
		gen = claude
	} else {
		log.Info("ANTHROPIC_API_KEY not set, drafting disabled")
	}

	conv := convert.NewSoffice(cfg.SofficeBinary, cfg.ConvertTimeout, log.With("component", "convert"))

	orch := pipeline.NewOrchestrator(cfg, conv, gen, log)
	orch.Start(ctx)

	srv := api.NewServer(api.Deps{
		Templates: templates,
		Sessions:  sessions,
		Pipeline:  orch,
		Converter: conv,
		Stats:     stats,
		Model:     cfg.AnthropicModel,
	}, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting lettre-motivation-ai", "port", cfg.Port, "data_dir", cfg.DataDir)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		if serr := saver.Close(); serr != nil {
			log.Warn("final session save failed", "error", serr)
		}
		return err
	})
	return g.Wait()
}
