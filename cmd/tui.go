package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/ringchart/internal/config"
	"github.com/theirongolddev/ringchart/internal/pipeline"
	"github.com/theirongolddev/ringchart/internal/source"
	"github.com/theirongolddev/ringchart/internal/tui"
	"github.com/theirongolddev/ringchart/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [file|dir]",
	Short: "Launch the interactive chart viewer",
	Long: `Launch the interactive chart viewer. A directory is scanned for .json and
.csv datasets, a file is viewed on its own, and with no argument the stored
datasets are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	cc := chartConfig(cmd, cfg)
	if err := validateChart(cc); err != nil {
		return err
	}

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Chart:     cc,
		Loader:    datasetLoader(cfg, args),
		NeedSetup: !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// datasetLoader picks what the viewer shows from its argument.
func datasetLoader(cfg config.Config, args []string) tui.Loader {
	if len(args) == 1 {
		path := args[0]
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return func(progressFn pipeline.ProgressFunc) ([]source.Dataset, error) {
				res, err := pipeline.LoadDir(path, progressFn)
				if err != nil {
					return nil, err
				}
				return res.Datasets, nil
			}
		}
		return func(pipeline.ProgressFunc) ([]source.Dataset, error) {
			cats, name, err := readFile(path)
			if err != nil {
				return nil, err
			}
			return []source.Dataset{{Name: name, Path: path, Categories: cats}}, nil
		}
	}

	return func(progressFn pipeline.ProgressFunc) ([]source.Dataset, error) {
		s, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		defer func() { _ = s.Close() }()

		infos, err := s.ListDatasets()
		if err != nil {
			return nil, err
		}
		datasets := make([]source.Dataset, 0, len(infos))
		for i, info := range infos {
			cats, err := s.LoadDataset(info.Name)
			if err != nil {
				return datasets, fmt.Errorf("loading %s: %w", info.Name, err)
			}
			datasets = append(datasets, source.Dataset{Name: info.Name, Path: info.SourcePath, Categories: cats})
			if progressFn != nil {
				progressFn(i+1, len(infos))
			}
		}
		return datasets, nil
	}
}
