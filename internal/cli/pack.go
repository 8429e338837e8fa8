package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scrapbook/pkg/core/media"
	"github.com/matzehuels/scrapbook/pkg/core/render"
	"github.com/matzehuels/scrapbook/pkg/pipeline"
)

// packOpts holds the command-line flags for the pack command.
type packOpts struct {
	output   string // output file (single format) or base path (multiple)
	formats  string // comma-separated output formats
	columns  int
	minRows  int
	policy   string
	width    float64
	height   float64
	gap      float64
	align    string
	captions bool
	noCache  bool
	refresh  bool
}

// packCommand creates the pack command, which lays out an items file.
func (c *CLI) packCommand() *cobra.Command {
	var opts packOpts

	cmd := &cobra.Command{
		Use:   "pack <items-file>",
		Short: "Lay out an items file as SVG, JSON, PNG or PDF",
		Long: `Pack reads media items from a TOML or JSON file, packs them into rows
that fill the container and writes the result.

Use "-" to read items from stdin. With a single SVG or JSON format and no
--output the result is written to stdout.`,
		Example: `  scrapbook pack shelf.toml -o shelf.svg
  scrapbook pack shelf.json --policy chimney --columns 5 -f svg,png
  cat shelf.json | scrapbook pack - -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPack(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	f.IntVarP(&opts.columns, "columns", "c", 0, "maximum covers per row")
	f.IntVar(&opts.minRows, "min-rows", 0, "rows the height budget assumes")
	f.StringVarP(&opts.policy, "policy", "p", "", "layout policy: fixed-row-height, chimney")
	f.Float64Var(&opts.width, "width", 0, "container width in pixels")
	f.Float64Var(&opts.height, "height", 0, "container height in pixels")
	f.Float64Var(&opts.gap, "gap", 0, "spacing between covers in pixels")
	f.StringVar(&opts.align, "align", "", "alignment of short rows: center, start")
	f.BoolVar(&opts.captions, "captions", false, "draw captions under covers")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runPack(cmd *cobra.Command, input string, po packOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	opts := cfg.Grid.Options()
	applyPackFlags(cmd, &opts, po)
	opts.Logger = logger

	items, err := readItemsFile(input)
	if err != nil {
		return err
	}
	logger.Debug("read items", "file", input, "summary", pipeline.ItemsSummary(items))
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, po.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := executeWithSpinner(ctx, runner, items, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Packed %d items into %d rows", result.Stats.ItemCount, result.Stats.RowCount))

	if po.output == "" && len(opts.Formats) == 1 && !isBinary(opts.Formats[0]) {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, basePath(po.output, input, len(opts.Formats) == 1))
	if err != nil {
		return err
	}
	printSuccess("Packed %s", pipeline.ItemsSummary(items))
	printStats(result.Stats.ItemCount, result.Stats.RowCount, result.CacheInfo.LayoutHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// applyPackFlags overrides configured grid settings with explicitly set flags.
func applyPackFlags(cmd *cobra.Command, opts *pipeline.Options, po packOpts) {
	f := cmd.Flags()
	if f.Changed("columns") {
		opts.Columns = po.columns
	}
	if f.Changed("min-rows") {
		opts.MinRows = po.minRows
	}
	if f.Changed("policy") {
		opts.Policy = po.policy
	}
	if f.Changed("width") {
		opts.Width = po.width
	}
	if f.Changed("height") {
		opts.Height = po.height
	}
	if f.Changed("gap") {
		opts.Gap = po.gap
	}
	if f.Changed("align") {
		opts.Align = po.align
	}
	if f.Changed("captions") {
		opts.Captions = po.captions
	}
	opts.Formats = parseFormats(po.formats)
	opts.Refresh = po.refresh
}

// executeWithSpinner runs the pipeline, showing a spinner while PNG or PDF
// conversion is in progress.
func executeWithSpinner(ctx context.Context, runner *pipeline.Runner, items []media.Item, opts pipeline.Options) (*pipeline.Result, error) {
	if !slices.ContainsFunc(opts.Formats, isBinary) {
		return runner.Execute(ctx, items, opts)
	}
	spinner := newSpinnerWithContext(ctx, "Rendering "+strings.Join(opts.Formats, ", "))
	spinner.Start()
	result, err := runner.Execute(ctx, items, opts)
	switch {
	case err == nil:
		spinner.StopWithSuccess("Rendered " + strings.Join(opts.Formats, ", "))
	case errors.Is(err, render.ErrNoConverter):
		spinner.StopWithError("PNG and PDF export need rsvg-convert")
		printNextStep("Install it", "brew install librsvg (or apt install librsvg2-bin)")
	default:
		spinner.Stop()
	}
	return result, err
}

func isBinary(format string) bool {
	return format == pipeline.FormatPNG || format == pipeline.FormatPDF
}

// readItemsFile reads items from path, or from stdin when path is "-".
func readItemsFile(path string) ([]media.Item, error) {
	if path == "-" {
		return pipeline.ReadItems(os.Stdin, "")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return pipeline.ReadItems(f, pipeline.FormatFromPath(path))
}

// basePath derives the output path stem. With a single format an explicit
// output path is used as-is.
func basePath(output, input string, single bool) string {
	if output == "" {
		if input == "-" {
			return "scrapbook"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if single {
		return output
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes one file per format and returns the paths written.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		path := base
		if len(formats) > 1 || filepath.Ext(base) == "" {
			path = base + "." + format
		}
		if err := writeFile(path, artifacts[format]); err != nil {
			return paths, fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
