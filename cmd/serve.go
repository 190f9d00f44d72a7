package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/config"
	"github.com/abhisek/mindpath/internal/content"
	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/llm"
	"github.com/abhisek/mindpath/internal/logger"
	"github.com/abhisek/mindpath/internal/misconception"
	"github.com/abhisek/mindpath/internal/server"
	"github.com/abhisek/mindpath/internal/session"
	"github.com/abhisek/mindpath/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().Bool("no-banner", false, "Skip the startup banner")
}

// runServe opens the store, builds dependencies, and serves until
// interrupted.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if quiet, _ := cmd.Flags().GetBool("no-banner"); !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), figure.NewFigure("mindpath", "", true).String())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := diagnostic.New(cfg.Diagnostic)
	deps := session.Deps{
		Engine:  engine,
		Trigger: adaptation.New(cfg.Adaptation),
		Gate:    misconception.NewGate(),
		Logger:  log.With("component", "session"),
	}

	var recorder llm.RequestRecorder
	if !cfg.Store.Disabled {
		db, err := openDatabase(cmd, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		events := db.EventRepo()
		deps.Profiles = db.ProfileRepo()
		deps.Events = events
		recorder = events
	}

	provider, err := newProvider(cmd, cfg, recorder, log)
	if err != nil {
		log.Warn("LLM provider not configured, serving from the question bank", "provider", cfg.LLM.Provider, "error", err)
	}
	deps.Generator = content.New(provider, cfg.Content, engine, log.With("component", "content"))

	st := session.NewStore(cfg.Session, deps)
	srv := server.New(cfg.Server, st, log.With("component", "http"))
	return srv.Run(ctx)
}

func openDatabase(cmd *cobra.Command, cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// newProvider returns nil without error for the mock provider. A missing
// key is reported so the caller can fall back to the bank.
func newProvider(cmd *cobra.Command, cfg config.Config, recorder llm.RequestRecorder, log *logger.Logger) (llm.Provider, error) {
	if cfg.LLM.Provider != llm.ProviderMock {
		if err := cfg.LLM.Validate(); err != nil {
			return nil, err
		}
	}
	return llm.NewProvider(cmd.Context(), cfg.LLM, recorder, log.With("component", "llm"))
}
