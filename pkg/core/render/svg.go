package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/scrapbook/pkg/core/media"
)

const tileCSS = `
    .tile { stroke: #1f2937; stroke-width: 1; }
    .tile.active { opacity: 0.35; stroke-dasharray: 6 4; }
    .tile.over { stroke: #2563eb; stroke-width: 4; }
    .label { font-family: ui-sans-serif, system-ui, sans-serif; fill: #f9fafb; }
    .caption { font-family: ui-sans-serif, system-ui, sans-serif; fill: #374151; font-style: italic; }`

// captionHeight is the space reserved below each row when captions are shown.
const captionHeight = 18.0

// typeColors gives each media type a distinct fill so the sheet reads at a glance.
var typeColors = map[media.Type]string{
	media.TypeMovie:   "#7c3aed",
	media.TypeTV:      "#db2777",
	media.TypeBook:    "#b45309",
	media.TypeAlbum:   "#0891b2",
	media.TypeGame:    "#16a34a",
	media.TypePodcast: "#ea580c",
}

const defaultColor = "#4b5563"

// SVGOption configures SVG rendering via [SVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	captions   bool
	covers     bool
	background string
}

// WithCaptions writes each tile's caption beneath it.
func WithCaptions() SVGOption { return func(r *svgRenderer) { r.captions = true } }

// WithCovers embeds cover images by URL where items have one.
func WithCovers() SVGOption { return func(r *svgRenderer) { r.covers = true } }

// WithBackground sets the sheet background color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// SVG renders the view as a standalone SVG document.
func SVG(v View, opts ...SVGOption) []byte {
	r := svgRenderer{background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}

	// Captions push every following row down.
	shift := 0.0
	if r.captions {
		shift = captionHeight
	}
	height := v.Height + shift*float64(len(v.Rows))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		v.Width, height, v.Width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", tileCSS)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", v.Width, height, escapeXML(r.background))
	}

	for i, row := range v.Rows {
		dy := shift * float64(i)
		for _, t := range row.Tiles {
			t.Y += dy
			r.renderTile(&buf, t)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderTile(buf *bytes.Buffer, t Tile) {
	class := "tile"
	if t.Active {
		class += " active"
	}
	if t.Over {
		class += " over"
	}
	fill, ok := typeColors[t.Type]
	if !ok {
		fill = defaultColor
	}

	fmt.Fprintf(buf, `  <g id="tile-%s">`+"\n", escapeXML(t.ID))
	fmt.Fprintf(buf, `    <rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		class, t.X, t.Y, t.Width, t.Height, fill)
	if r.covers && t.CoverURL != "" {
		fmt.Fprintf(buf, `    <image href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="xMidYMid slice"/>`+"\n",
			escapeXML(t.CoverURL), t.X, t.Y, t.Width, t.Height)
	}

	label := t.Label()
	size := fontSize(t.Width, t.Height, len([]rune(label)))
	fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		t.CenterX(), t.CenterY(), size, escapeXML(truncate(label, t.Width, size)))

	if r.captions && t.Caption != "" {
		csize := fontSizeMin + 3
		fmt.Fprintf(buf, `    <text class="caption" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle">%s</text>`+"\n",
			t.CenterX(), t.Bottom()+captionHeight-5, csize, escapeXML(truncate(t.Caption, t.Width, csize)))
	}
	buf.WriteString("  </g>\n")
}
