package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/theirongolddev/ringchart/internal/cli"
	"github.com/theirongolddev/ringchart/internal/config"
	"github.com/theirongolddev/ringchart/internal/geometry"
	"github.com/theirongolddev/ringchart/internal/model"
	"github.com/theirongolddev/ringchart/internal/render"
	"github.com/theirongolddev/ringchart/internal/source"

	"github.com/spf13/cobra"
)

const (
	formatTable   = "table"
	formatJSON    = "json"
	formatSVG     = "svg"
	formatBraille = "braille"
)

var (
	flagFormat  string
	flagOutput  string
	flagDataset string
	flagCells   int
)

var donutCmd = &cobra.Command{
	Use:   "donut [file|-]",
	Short: "Lay out categories as arcs of one ring",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDonut,
}

var radialCmd = &cobra.Command{
	Use:   "radial [file|-]",
	Short: "Lay out categories as concentric progress rings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRadial,
}

func init() {
	for _, c := range []*cobra.Command{donutCmd, radialCmd} {
		c.Flags().StringVarP(&flagFormat, "format", "f", formatTable, "Output format: table, json, svg, braille")
		c.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to file instead of stdout")
		c.Flags().StringVar(&flagDataset, "dataset", "", "Read a stored dataset instead of a file")
		c.Flags().IntVar(&flagCells, "cells", 40, "Braille chart width in terminal cells")
		rootCmd.AddCommand(c)
	}
}

func runDonut(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	cc := chartConfig(cmd, cfg)
	if err := validateChart(cc); err != nil {
		return err
	}
	cats, name, err := readCategories(cfg, args)
	if err != nil {
		return err
	}
	layout := geometry.ComputeDonutLayout(cats, cc)

	return writeOutput(func(w io.Writer) error {
		switch flagFormat {
		case formatJSON:
			return writeJSON(w, layout)
		case formatSVG:
			return render.SVGDonut(w, layout)
		case formatBraille:
			_, err := fmt.Fprintln(w, render.BrailleDonut(layout, flagCells))
			return err
		case formatTable:
			_, err := fmt.Fprint(w, donutTable(name, layout))
			return err
		}
		return fmt.Errorf("unknown format %q", flagFormat)
	})
}

func runRadial(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	cc := chartConfig(cmd, cfg)
	if err := validateChart(cc); err != nil {
		return err
	}
	cats, name, err := readCategories(cfg, args)
	if err != nil {
		return err
	}
	layout := geometry.ComputeRadialLayout(cats, cc)

	return writeOutput(func(w io.Writer) error {
		switch flagFormat {
		case formatJSON:
			return writeJSON(w, layout)
		case formatSVG:
			return render.SVGRadial(w, layout)
		case formatBraille:
			_, err := fmt.Fprintln(w, render.BrailleRadial(layout, flagCells))
			return err
		case formatTable:
			_, err := fmt.Fprint(w, radialTable(name, layout))
			return err
		}
		return fmt.Errorf("unknown format %q", flagFormat)
	})
}

// readCategories resolves the chart input: a stored dataset, stdin for "-",
// or a dataset file.
func readCategories(cfg config.Config, args []string) ([]model.Category, string, error) {
	if flagDataset != "" {
		s, err := openStore(cfg)
		if err != nil {
			return nil, "", err
		}
		defer func() { _ = s.Close() }()
		cats, err := s.LoadDataset(flagDataset)
		if err != nil {
			return nil, "", fmt.Errorf("loading %s: %w", flagDataset, err)
		}
		return cats, flagDataset, nil
	}

	if len(args) == 0 {
		return nil, "", fmt.Errorf("need a dataset file, - for stdin, or --dataset NAME")
	}
	return readFile(args[0])
}

func readFile(path string) ([]model.Category, string, error) {
	if path == "-" {
		cats, name, err := source.Parse(os.Stdin, "")
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		if name == "" {
			name = "stdin"
		}
		return cats, name, nil
	}

	format, ok := source.FormatOf(path)
	if !ok {
		// unknown extension: sniff the content
		f, err := os.Open(path)
		if err != nil {
			return nil, "", err
		}
		defer func() { _ = f.Close() }()
		cats, name, err := source.Parse(f, "")
		if err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", path, err)
		}
		if name == "" {
			name = source.DatasetName(path)
		}
		return cats, name, nil
	}
	res := source.ParseFile(source.DiscoveredFile{
		Path:   path,
		Name:   source.DatasetName(path),
		Format: format,
	})
	if res.Err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, res.Err)
	}
	return res.Dataset.Categories, res.Dataset.Name, nil
}

// writeOutput runs fn against stdout or the --output file.
func writeOutput(fn func(w io.Writer) error) error {
	if flagOutput == "" {
		return fn(os.Stdout)
	}
	f, err := os.OpenFile(flagOutput, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", flagOutput, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", flagOutput, err)
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %s\n", flagOutput)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func donutTable(name string, l model.DonutLayout) string {
	rows := make([][]string, 0, len(l.Arcs))
	for _, a := range l.Arcs {
		rows = append(rows, []string{
			strconv.Itoa(a.Index + 1),
			cli.RenderSwatch(a.Color) + " " + label(a.Label),
			cli.FormatValue(a.Value),
			cli.FormatPercent(share(a, l.Total)),
			cli.FormatDegrees(a.StartAngle),
			cli.FormatDegrees(a.SweepAngle),
			cli.FormatLength(a.StrokeLength),
			cli.FormatLength(a.StrokeOffset),
		})
	}

	out := "\n" + cli.RenderTitle(fmt.Sprintf("DONUT  %s", name)) + "\n\n"
	if len(rows) == 0 {
		return out + cli.RenderMuted("  No categories.") + "\n"
	}
	out += cli.RenderTable(cli.Table{
		Headers: []string{"#", "Category", "Value", "Share", "Start", "Sweep", "Length", "Offset"},
		Rows:    rows,
	})
	out += fmt.Sprintf("\n  Total %s  ·  radius %s  ·  covered %s\n",
		cli.FormatValue(l.Total), cli.FormatLength(l.Background.Radius), cli.FormatPercent(l.CoveredFraction()))
	return out
}

func radialTable(name string, l model.RadialLayout) string {
	out := "\n" + cli.RenderTitle(fmt.Sprintf("RADIAL  %s", name)) + "\n\n"
	if l.NoData {
		return out + cli.RenderWarning(l.NoDataLabel) + "\n"
	}

	rows := make([][]string, 0, len(l.Rings))
	for _, r := range l.Rings {
		rows = append(rows, []string{
			strconv.Itoa(r.Index + 1),
			cli.RenderSwatch(r.Color) + " " + label(r.Label),
			cli.FormatValue(r.Value),
			cli.FormatPoints(r.Percentage),
			cli.RenderMeter(r.Percentage/100, 12),
			cli.FormatLength(r.Radius),
			cli.FormatLength(r.StrokeLength),
			cli.FormatLength(r.StrokeOffset),
		})
	}
	out += cli.RenderTable(cli.Table{
		Headers: []string{"#", "Category", "Value", "%", "", "Radius", "Length", "Offset"},
		Rows:    rows,
	})
	out += fmt.Sprintf("\n  Total %s  ·  percentage sum %s\n",
		cli.FormatValue(l.Total), cli.FormatPoints(l.PercentageSum()))
	if l.PercentageSum() > 100 {
		out += cli.RenderMuted("  Zero-value rings are drawn at 2% so the sum can exceed 100%.") + "\n"
	}
	return out
}

// share is an arc's part of the total before gaps are cut out. A zero total
// falls back to the drawn fraction.
func share(a model.ArcDescriptor, total float64) float64 {
	if total > 0 {
		return a.Value / total
	}
	return a.Fraction
}

func label(s string) string {
	if s == "" {
		return "(unlabeled)"
	}
	return s
}
