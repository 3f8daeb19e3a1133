package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jellystone/internal/platform/tui"
	"github.com/vovakirdan/jellystone/internal/spectate"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeWatch  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host games over SSH",
	Long: `Start an SSH server where every connection plays its own game.

All players share the same high-score table.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise the ssh.host_key setting, or ~/.jellystone/host_key,
    which is generated on first start

Examples:
  jellystone serve                           # Listen on the configured ssh.host:ssh.port
  jellystone serve --ssh :2222               # Listen on port 2222
  jellystone serve --host-key ./my_host_key  # Use specific host key
  jellystone serve --spectate :8080          # Let others watch every game

Users can connect with:
  ssh -t localhost -p 2222`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if missing)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeWatch, "spectate", "", "Serve a spectator feed on this address (e.g. :8080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	addr := flagSSHAddr
	if addr == "" {
		addr = net.JoinHostPort(cfg.SSH.Host, strconv.Itoa(cfg.SSH.Port))
	}
	hostKey := flagHostKey
	if hostKey == "" {
		hostKey = cfg.SSH.HostKey
	}
	if flagServeWatch != "" {
		cfg.Spectate.Addr = flagServeWatch
	}

	logger := newLogger(os.Stderr, cfg, "jellystone")

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var feed *spectate.Server
	if cfg.Spectate.Addr != "" {
		feed = spectate.NewServer(logger.WithPrefix("spectate"))
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     addr,
		HostKeyPath: hostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		NewRunner:   a.newRunner,
		Spectate:    feed,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Starting jellystone SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if feed != nil {
		go func() {
			err := feed.ListenAndServe(ctx, cfg.Spectate.Addr)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("spectator feed stopped", "error", err)
				cancel()
			}
		}()
	}
	return server.ListenAndServe(ctx)
}
