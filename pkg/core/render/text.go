package render

import (
	"bytes"
	"encoding/xml"
)

const (
	fontHeightRatio = 0.18
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 20.0
)

// fontSize picks a label size that fits both the tile height and the text
// length across the tile width.
func fontSize(w, h float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := h * fontHeightRatio
	byWidth := (w * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// truncate shortens label so that it fits w at the given font size.
func truncate(label string, w, size float64) string {
	maxChars := max(int(w*fontWidthRatio/(size*fontCharWidth)), 3)
	r := []rune(label)
	if len(r) <= maxChars {
		return label
	}
	return string(r[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
