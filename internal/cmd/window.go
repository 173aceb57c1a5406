package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/shelf/internal/window"
	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Print the range of rows materialized at a scroll offset",
	Long: heredoc.Doc(`
		Compute which rows of a fixed-height list are rendered for a given
		scroll offset, using the same math as the product list.
	`),
	Example: heredoc.Doc(`
		# 10000 rows of 50px in a 500px viewport, scrolled to 1000px
		shelf window --count 10000 --item-size 50 --container-size 500 --offset 1000

		# The same, without overscan, as JSON
		shelf window -n 10000 -s 50 -C 500 -o 1000 --overscan 0 -f json
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := windowOptions{}
		opts.count, _ = cmd.Flags().GetInt("count")
		opts.itemSize, _ = cmd.Flags().GetFloat64("item-size")
		opts.containerSize, _ = cmd.Flags().GetFloat64("container-size")
		opts.overscan, _ = cmd.Flags().GetInt("overscan")
		opts.offset, _ = cmd.Flags().GetFloat64("offset")
		opts.items, _ = cmd.Flags().GetBool("items")
		format, _ := cmd.Flags().GetString("format")
		return runWindow(cmd.OutOrStdout(), opts, format)
	},
}

func init() {
	rootCmd.AddCommand(windowCmd)
	windowCmd.Flags().IntP("count", "n", 0, "Number of rows in the list")
	windowCmd.Flags().Float64P("item-size", "s", 1, "Height of a single row")
	windowCmd.Flags().Float64P("container-size", "C", 0, "Height of the viewport")
	windowCmd.Flags().Int("overscan", window.DefaultOverscan, "Rows rendered beyond each edge of the viewport")
	windowCmd.Flags().Float64P("offset", "o", 0, "Scroll offset")
	windowCmd.Flags().Bool("items", false, "Also list the materialized rows")
	windowCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
}

type windowOptions struct {
	count         int
	itemSize      float64
	containerSize float64
	overscan      int
	offset        float64
	items         bool
}

// WindowReport describes one computed window.
type WindowReport struct {
	Offset       float64  `json:"offset" yaml:"offset"`
	Start        int      `json:"start" yaml:"start"`
	End          int      `json:"end" yaml:"end"`
	Rendered     int      `json:"rendered" yaml:"rendered"`
	Visible      int      `json:"visible" yaml:"visible"`
	TotalExtent  float64  `json:"total_extent" yaml:"total_extent"`
	MaxOffset    float64  `json:"max_offset" yaml:"max_offset"`
	Translate    float64  `json:"translate" yaml:"translate"`
	Materialized []string `json:"materialized,omitempty" yaml:"materialized,omitempty"`
}

func runWindow(w io.Writer, opts windowOptions, format string) error {
	cfg := window.Config{
		ItemSize:      opts.itemSize,
		ContainerSize: opts.containerSize,
		ItemCount:     opts.count,
		Overscan:      opts.overscan,
	}
	r, err := window.Compute(opts.offset, cfg)
	if err != nil {
		return err
	}

	report := WindowReport{
		Offset:      opts.offset,
		Start:       r.Start,
		End:         r.End,
		Rendered:    r.Len(),
		Visible:     visibleRows(cfg),
		TotalExtent: cfg.TotalExtent(),
		MaxOffset:   cfg.MaxOffset(),
		Translate:   r.Translate(opts.itemSize),
	}
	if opts.items {
		report.Materialized = make([]string, 0, r.Len())
		for i := range r.Indices() {
			report.Materialized = append(report.Materialized, fmt.Sprintf("row %d @ %g", i, float64(i)*opts.itemSize))
		}
	}
	return formatWindow(w, report, format)
}

// visibleRows is the number of rows the viewport can show at once.
func visibleRows(cfg window.Config) int {
	if v := math.Ceil(cfg.ContainerSize / cfg.ItemSize); v < float64(cfg.ItemCount) {
		return int(v)
	}
	return cfg.ItemCount
}

func formatWindow(w io.Writer, report WindowReport, format string) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(w, string(data))
		return nil
	case "text":
		return formatWindowText(w, report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func formatWindowText(w io.Writer, report WindowReport) error {
	if report.Rendered == 0 {
		fmt.Fprintln(w, "Nothing to render.")
		return nil
	}
	rows := [][2]string{
		{"Offset", fmt.Sprintf("%g", report.Offset)},
		{"Range", fmt.Sprintf("%d-%d", report.Start, report.End)},
		{"Rendered", fmt.Sprintf("%d", report.Rendered)},
		{"Visible", fmt.Sprintf("%d", report.Visible)},
		{"Total extent", fmt.Sprintf("%g", report.TotalExtent)},
		{"Max offset", fmt.Sprintf("%g", report.MaxOffset)},
		{"Translate", fmt.Sprintf("%g", report.Translate)},
	}
	printAligned(w, rows)
	if len(report.Materialized) > 0 {
		fmt.Fprintln(w)
		for _, row := range report.Materialized {
			fmt.Fprintf(w, "• %s\n", row)
		}
	}
	return nil
}

// printAligned prints label/value pairs with the values in one column.
func printAligned(w io.Writer, rows [][2]string) {
	width := 0
	for _, row := range rows {
		width = max(width, uniseg.StringWidth(row[0]))
	}
	for _, row := range rows {
		pad := strings.Repeat(" ", width-uniseg.StringWidth(row[0]))
		fmt.Fprintf(w, "%s:%s %s\n", row[0], pad, row[1])
	}
}
