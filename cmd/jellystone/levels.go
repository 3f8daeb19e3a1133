package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jellystone/internal/levels"
)

var flagShowLevel int

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List and validate the predefined levels",
	Long: `Parse every predefined level in strict mode and print its contents.

Unknown symbols, overlapping entities and cells outside the grid are
reported as errors, and the command exits non-zero if any level fails.

Examples:
  jellystone levels
  jellystone levels --levels ./my-levels
  jellystone levels --show 3`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().IntVar(&flagShowLevel, "show", 0, "Print the layout of this level")
}

func runLevels(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Gameplay.StrictLevels = true

	src, err := openSource(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if flagShowLevel > 0 {
		l, err := src.Load(ctx, flagShowLevel)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d)\n\n", l.Name, l.Index)
		for _, row := range levels.Render(l) {
			fmt.Println("  " + row)
		}
		return nil
	}

	fmt.Printf("Predefined levels: %d\n\n", src.Count())
	fmt.Printf("  %-3s  %-16s  %-7s  %-5s  %-9s  %-8s  %s\n", "#", "Name", "Baskets", "Trees", "Mountains", "Rangers", "Status")
	fmt.Printf("  %-3s  %-16s  %-7s  %-5s  %-9s  %-8s  %s\n", "-", "----", "-------", "-----", "---------", "-------", "------")

	var failed []error
	for i := 1; i <= src.Count(); i++ {
		l, err := src.Load(ctx, i)
		if err != nil {
			failed = append(failed, err)
			fmt.Printf("  %-3d  %-16s  %-7s  %-5s  %-9s  %-8s  %s\n", i, "?", "-", "-", "-", "-", "invalid")
			continue
		}
		c := l.Counts()
		status := "ok"
		if !l.HasStart {
			status = "ok (no start)"
		}
		fmt.Printf("  %-3d  %-16s  %-7d  %-5d  %-9d  %-8d  %s\n", i, l.Name, c.Baskets, c.Trees, c.Mountains, c.Patrollers, status)
	}

	if len(failed) > 0 {
		fmt.Println()
		for _, err := range failed {
			fmt.Println("  " + err.Error())
		}
		return fmt.Errorf("%d invalid level(s)", len(failed))
	}
	return nil
}
