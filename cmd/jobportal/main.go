package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobportal/jobportal-tui/internal/api"
	"github.com/jobportal/jobportal-tui/internal/auth"
	"github.com/jobportal/jobportal-tui/internal/config"
	"github.com/jobportal/jobportal-tui/internal/session"
	"github.com/jobportal/jobportal-tui/internal/storage"
	"github.com/jobportal/jobportal-tui/internal/tui"
)

func main() {
	debug := flag.Bool("debug", false, "show the event panel")
	flag.Parse()

	if err := run(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.LogLevel, "debug") || debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	db, err := storage.Open(cfg.StoragePath())
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}
	defer db.Close()

	local, err := db.Origin(cfg.APIURL)
	if err != nil {
		return err
	}

	store := session.NewStore(local, logger)
	client, err := api.NewClient(cfg.APIURL,
		api.WithTokenSource(store),
		api.WithUnauthorizedHandler(func() {
			if err := store.Clear(); err != nil {
				logger.Warn("clear session after 401", "error", err)
			}
		}),
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	gateway := auth.NewGateway(client, store, logger)

	model := tui.NewRootModel(tui.Deps{
		Session:   store,
		Auth:      gateway,
		API:       client,
		Logger:    logger,
		PageSize:  cfg.PageSize,
		Debug:     debug,
		LastEmail: cfg.LastEmail,
		RememberEmail: func(email string) {
			if email == cfg.LastEmail {
				return
			}
			cfg.LastEmail = email
			if err := config.RememberEmail(email); err != nil {
				logger.Warn("remember login email", "error", err)
			}
		},
	})
	defer model.Close()

	logger.Info("client starting", "api_url", cfg.APIURL, "origin", local.Origin())
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
