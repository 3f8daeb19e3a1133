// jellystone is a tile-grid chase game for the terminal: collect every
// basket on the board while rangers patrol the park.
//
// Usage:
//
//	jellystone play              - Play in this terminal
//	jellystone serve             - Host games over SSH
//	jellystone scores            - Show the high-score table
//	jellystone levels            - List and validate predefined levels
//
// Global flags:
//
//	--config <path>     - Configuration file
//	--db <dsn>          - Score database (SQLite path or postgres:// URL)
//	--seed <value>      - RNG seed for generated levels (0 = time based)
//	--levels <dir>      - Read predefined levels from a directory
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/jellystone/internal/telemetry"
)

var (
	// Global flags
	flagConfig   string
	flagDB       string
	flagSeed     int64
	flagLevels   string
	flagLogLevel string
)

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is fine; variables may be set directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: telemetry setup failed: %v\n", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					fmt.Fprintf(os.Stderr, "Error shutting down telemetry: %v\n", err)
				}
			}()
		}
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

var rootCmd = &cobra.Command{
	Use:   "jellystone",
	Short: "Jellystone - grab the baskets, dodge the rangers",
	Long: `Jellystone is a tile-grid chase game for the terminal.

Walk the park with W/A/S/D or the arrow keys and collect every basket.
Trees and mountains block your way. Touching a ranger costs a life,
and after three the game is over. Ten hand-made levels are followed
by an endless run of generated ones.

Available commands:
  play     - Play in this terminal
  serve    - Host games over SSH
  scores   - View high scores
  levels   - List and validate the predefined levels

Examples:
  jellystone play
  jellystone play --seed 42 --spectate :8080
  jellystone serve --ssh :2222
  jellystone scores --db postgres://localhost/jellystone`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Score database: SQLite path or postgres:// URL")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for generated levels (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Directory with level1.txt / level1.yaml files")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(levelsCmd)
}
