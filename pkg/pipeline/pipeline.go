// Package pipeline provides the layout → render pipeline for scrapbook.
//
// This package implements the pipeline that both the CLI and the API server
// use. By centralizing this logic, every entry point packs and renders with
// the same defaults and the same cache keys.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: Pack items into rows and position them ([GenerateLayout])
//  2. Render: Write the positioned view as SVG or JSON ([RenderFromView])
//
// Each stage can be run independently or as part of the complete pipeline.
// Packing is deterministic, so the cache only saves work: a cached view is
// byte-identical to a recomputed one.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Columns: 4,
//	    Policy:  "chimney",
//	    Width:   1200,
//	    Height:  800,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, items, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scrapbook/pkg/cache"
	"github.com/matzehuels/scrapbook/pkg/core/grid"
	"github.com/matzehuels/scrapbook/pkg/core/render"
	"github.com/matzehuels/scrapbook/pkg/core/viewport"
	"github.com/matzehuels/scrapbook/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultColumns is the default maximum number of covers per row.
	DefaultColumns = 4

	// DefaultMinRows is the default number of rows the height budget assumes.
	DefaultMinRows = 2

	// DefaultWidth is the default container width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default container height in pixels.
	DefaultHeight = 800.0

	// DefaultGap is the default spacing between covers.
	DefaultGap = 16.0
)

// DefaultPolicy is the default layout policy.
const DefaultPolicy = grid.DefaultPolicy

// DefaultAlign is the default alignment for rows that do not fill the width.
const DefaultAlign = render.AlignCenter

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// DefaultPNGScale is the resolution multiplier for PNG export.
const DefaultPNGScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Columns int     `json:"columns,omitempty"`
	MinRows int     `json:"min_rows,omitempty"`
	Policy  string  `json:"policy,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Gap     float64 `json:"gap,omitempty"`
	Align   string  `json:"align,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Captions bool     `json:"captions,omitempty"`
	Covers   bool     `json:"covers,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// View is the positioned grid.
	View render.View

	// ItemsHash is the content hash of the input items.
	ItemsHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount  int
	RowCount   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the view came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePolicy checks that a policy name is valid. Empty means the default.
func ValidatePolicy(policy string) error {
	if _, err := grid.ParsePolicy(policy); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPolicy, err, "invalid policy %q", policy)
	}
	return nil
}

// ValidateColumns checks the column range.
func ValidateColumns(n int) error {
	if n < grid.MinColumns || n > grid.MaxColumns {
		return errors.New(errors.ErrCodeInvalidColumns, "columns must be between %d and %d, got %d", grid.MinColumns, grid.MaxColumns, n)
	}
	return nil
}

// ValidateMinRows checks the minimum visible rows range.
func ValidateMinRows(n int) error {
	if n < grid.MinRowsMin || n > grid.MinRowsMax {
		return errors.New(errors.ErrCodeInvalidMinRows, "min rows must be between %d and %d, got %d", grid.MinRowsMin, grid.MinRowsMax, n)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.MinRows == 0 {
		o.MinRows = DefaultMinRows
	}
	if o.Policy == "" {
		o.Policy = string(DefaultPolicy)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Align == "" {
		o.Align = string(DefaultAlign)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
// A zero Gap is kept as zero; use DefaultGap explicitly to get spacing.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateColumns(o.Columns); err != nil {
		return err
	}
	if err := ValidateMinRows(o.MinRows); err != nil {
		return err
	}
	if err := ValidatePolicy(o.Policy); err != nil {
		return err
	}
	if o.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "gap must not be negative, got %v", o.Gap)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must not be negative")
	}
	if _, err := render.ParseAlign(o.Align); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid align %q", o.Align)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults validates options for the full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// Dimensions measures the requested container the way a live grid would,
// applying the maximum grid width.
func (o *Options) Dimensions() viewport.Dimensions {
	tr := viewport.NewTracker(viewport.WithScheduler(viewport.Immediate{}))
	return tr.Measure(viewport.NewBox(o.Width, o.Height, 0, o.Gap))
}

// Params returns the packer parameters for these options.
func (o *Options) Params() grid.Params {
	return o.Dimensions().Params(o.Columns, o.MinRows, grid.Policy(o.Policy))
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	p := o.Params()
	return cache.LayoutKeyOpts{
		Columns: p.Columns,
		MinRows: p.MinRows,
		Policy:  string(p.Policy),
		Width:   p.Width,
		Height:  p.Height,
		Gap:     p.Gap,
		Align:   o.Align,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Captions: o.Captions,
		Covers:   o.Covers,
	}
}
