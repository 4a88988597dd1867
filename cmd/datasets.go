package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/theirongolddev/ringchart/internal/cli"
	"github.com/theirongolddev/ringchart/internal/pipeline"
	"github.com/theirongolddev/ringchart/internal/store"

	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:     "datasets",
	Aliases: []string{"ds"},
	Short:   "Manage stored datasets",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored datasets",
	Args:  cobra.NoArgs,
	RunE:  runDatasetsList,
}

var datasetsShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print the categories of a stored dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetsShow,
}

var datasetsSaveCmd = &cobra.Command{
	Use:   "save NAME FILE",
	Short: "Store a dataset file under NAME (FILE may be - for stdin)",
	Args:  cobra.ExactArgs(2),
	RunE:  runDatasetsSave,
}

var datasetsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a stored dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetsDelete,
}

var datasetsImportCmd = &cobra.Command{
	Use:   "import DIR",
	Short: "Store every .json and .csv dataset under DIR",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetsImport,
}

func init() {
	datasetsCmd.AddCommand(datasetsListCmd, datasetsShowCmd, datasetsSaveCmd, datasetsDeleteCmd, datasetsImportCmd)
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasetsList(_ *cobra.Command, _ []string) error {
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	infos, err := s.ListDatasets()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("\n  No datasets stored.")
		fmt.Println("  Add one with `ringchart datasets save NAME FILE`.")
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			strconv.Itoa(info.Categories),
			cli.FormatValue(info.Total),
			info.UpdatedAt.Local().Format("2006-01-02 15:04"),
			info.SourcePath,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Datasets",
		Headers: []string{"Name", "Categories", "Total", "Updated", "Source"},
		Rows:    rows,
	}))
	return nil
}

func runDatasetsShow(_ *cobra.Command, args []string) error {
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	cats, err := s.LoadDataset(args[0])
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	rows := make([][]string, 0, len(cats))
	for i, c := range cats {
		pct := "-"
		if c.Percentage != nil {
			pct = cli.FormatPoints(*c.Percentage)
		}
		color := c.Color
		if color == "" {
			color = "(palette)"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			label(c.Label),
			cli.FormatValue(c.Value),
			pct,
			cli.RenderSwatch(c.Color) + " " + color,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   args[0],
		Headers: []string{"#", "Label", "Value", "Percentage", "Color"},
		Rows:    rows,
	}))
	return nil
}

func runDatasetsSave(_ *cobra.Command, args []string) error {
	name, path := args[0], args[1]
	cats, _, err := readFile(path)
	if err != nil {
		return err
	}

	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	sourcePath := path
	if path == "-" {
		sourcePath = ""
	}
	if err := s.SaveDataset(name, sourcePath, cats); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	if !flagQuiet {
		fmt.Printf("  Saved %s (%d categories)\n", name, len(cats))
	}
	return nil
}

func runDatasetsDelete(_ *cobra.Command, args []string) error {
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.DeleteDataset(args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no dataset named %q", args[0])
		}
		return err
	}
	if !flagQuiet {
		fmt.Printf("  Deleted %s\n", args[0])
	}
	return nil
}

func runDatasetsImport(_ *cobra.Command, args []string) error {
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %s...\n", args[0])
	}
	res, err := pipeline.Import(args[0], s, progress("Parsing"))
	if err != nil {
		return err
	}

	if !flagQuiet {
		if res.TotalFiles > 0 {
			fmt.Fprintln(os.Stderr)
		}
		fmt.Fprintf(os.Stderr, "  Imported %d datasets from %d files", res.Saved, res.TotalFiles)
		if res.FileErrors+res.SaveErrors > 0 {
			fmt.Fprintf(os.Stderr, " (%d failed)", res.FileErrors+res.SaveErrors)
		}
		fmt.Fprintln(os.Stderr)
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, cli.RenderWarning(e.Error()))
		}
	}
	return nil
}
