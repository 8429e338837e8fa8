package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/scrapbook/pkg/core/render"
	"github.com/matzehuels/scrapbook/pkg/errors"
	"github.com/matzehuels/scrapbook/pkg/observability"
)

// =============================================================================
// Rendering
// =============================================================================

// RenderFromView writes the view in every requested format. Options must
// already be validated with ValidateForRender.
func RenderFromView(ctx context.Context, view render.View, opts Options) (map[string][]byte, error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts, err := renderFormats(view, opts)

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(view render.View, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = render.SVG(view, buildSVGOptions(opts)...)
		case FormatJSON:
			data, err := render.JSON(view, render.WithIndent())
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = data
		case FormatPNG, FormatPDF:
			if _, ok := artifacts[FormatSVG]; !ok {
				artifacts[FormatSVG] = render.SVG(view, buildSVGOptions(opts)...)
			}
			data, err := convert(artifacts[FormatSVG], format)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "render %s", format)
			}
			artifacts[format] = data
		default:
			return nil, ValidateFormat(format)
		}
	}
	for f := range artifacts {
		if !slices.Contains(opts.Formats, f) {
			delete(artifacts, f)
		}
	}
	return artifacts, nil
}

func convert(svg []byte, format string) ([]byte, error) {
	if format == FormatPDF {
		return render.ToPDF(svg)
	}
	return render.ToPNG(svg, DefaultPNGScale)
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []render.SVGOption {
	var svgOpts []render.SVGOption
	if opts.Captions {
		svgOpts = append(svgOpts, render.WithCaptions())
	}
	if opts.Covers {
		svgOpts = append(svgOpts, render.WithCovers())
	}
	return svgOpts
}
