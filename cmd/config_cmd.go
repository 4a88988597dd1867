package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/ringchart/internal/cli"
	"github.com/theirongolddev/ringchart/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cc := chartConfig(cmd, cfg)

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Chart]")
	fmt.Printf("    Size:          %s\n", cli.FormatLength(cc.Size))
	fmt.Printf("    Stroke width:  %s\n", cli.FormatLength(cc.StrokeWidth))
	fmt.Printf("    Gap degrees:   %s\n", cli.FormatDegrees(cc.GapDegrees))
	fmt.Printf("    Start angle:   %s\n", cli.FormatDegrees(cc.StartAngle))
	fmt.Printf("    Ring gap:      %s\n", cli.FormatLength(cc.Gap))
	fmt.Printf("    Show labels:   %v\n", cc.ShowLabels)
	fmt.Printf("    Background:    %s %s\n", cli.RenderSwatch(cc.Background()), cc.Background())
	fmt.Printf("    No-data label: %s\n", cc.EmptyLabel())
	if len(cc.Palette) > 0 {
		swatches := make([]string, len(cc.Palette))
		for i, c := range cc.Palette {
			swatches[i] = cli.RenderSwatch(c)
		}
		fmt.Printf("    Palette:       %s\n", strings.Join(swatches, " "))
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Path: %s\n", storePath(cfg))
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", serveAddr(cfg))
	fmt.Println()

	fmt.Println("  Run `ringchart setup` to reconfigure.")
	return nil
}
