package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/jellystone/internal/platform/tui"
	"github.com/vovakirdan/jellystone/internal/spectate"
)

var flagSpectate string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Controls:
  W/A/S/D, arrows - Move
  R               - New game (asks first)
  H               - High scores
  Q/Ctrl+C        - Quit (asks first)

Rangers stay put until you make your first move, and again after
they catch you, so you always get a moment to plan.

Examples:
  jellystone play
  jellystone play --seed 42
  jellystone play --levels ./my-levels
  jellystone play --spectate :8080   # watch at ws://localhost:8080/ws`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a spectator feed on this address (e.g. :8080)")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("play needs an interactive terminal")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagSpectate != "" {
		cfg.Spectate.Addr = flagSpectate
	}

	w, closeLog := openLogFile(cfg.Log.File)
	defer closeLog()
	logger := newLogger(w, cfg, "jellystone")

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	runner, err := a.newRunner(playerName())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- runner.Run(ctx) }()

	if cfg.Spectate.Addr != "" {
		feed := spectate.NewServer(logger)
		feed.Register("local", runner)
		go func() {
			if err := feed.ListenAndServe(ctx, cfg.Spectate.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("spectator feed stopped", "error", err)
			}
		}()
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if tw, th, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = tw
		height = th
	}

	uiErr := tui.Run(ctx, runner, tui.Options{
		Width:      width,
		Height:     height,
		Player:     playerName(),
		ScoreLimit: cfg.Storage.TopScores,
	})

	runner.Exit()
	cancel()
	if err := <-runErr; err != nil {
		return fmt.Errorf("game: %w", err)
	}
	return uiErr
}

// playerName prefills the game-over prompt with the login name.
func playerName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
