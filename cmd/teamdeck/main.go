package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"teamdeck/internal/app"
	"teamdeck/internal/credential"
	"teamdeck/internal/model"
	"teamdeck/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	workspaceID := flag.String("workspace", "", "workspace id (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := run(*configPath, *workspaceID, *debug); err != nil {
		fmt.Fprintln(os.Stderr, "teamdeck:", err)
		os.Exit(1)
	}
}

func run(configPath, workspaceID string, debug bool) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if workspaceID != "" {
		cfg.Server.WorkspaceID = workspaceID
	}
	if cfg.Server.WorkspaceID == "" {
		return fmt.Errorf("no workspace configured, set server.workspace_id in %s or pass -workspace", configPath)
	}

	dataDir := filepath.Dir(configPath)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}

	log, closeLog, err := newLogger(filepath.Join(dataDir, "teamdeck.log"), debug)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Info().Str("config", configPath).Str("workspace", cfg.Server.WorkspaceID).Msg("starting")

	cache, err := store.NewSnapshotCache(filepath.Join(dataDir, "cache.db"))
	if err != nil {
		return fmt.Errorf("opening snapshot cache: %w", err)
	}
	defer cache.Close()

	token, err := credential.Get(credential.TokenKey)
	if err != nil {
		log.Debug().Err(err).Msg("no stored token, starting at login")
		token = ""
	}

	program := tea.NewProgram(app.New(cfg, cache, token, log), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// newLogger opens a file-backed zerolog logger. Logging to a file keeps
// the terminal free for the UI.
func newLogger(path string, debug bool) (zerolog.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return log, func() { _ = f.Close() }, nil
}
