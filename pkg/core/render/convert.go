package render

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoConverter is returned by [ToPDF] and [ToPNG] when rsvg-convert is not
// on PATH. Install librsvg (brew install librsvg, apt install librsvg2-bin).
var ErrNoConverter = errors.New("rsvg-convert not found")

// ToPDF converts a contact sheet produced by [SVG] to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts a contact sheet produced by [SVG] to PNG. A scale of 2.0
// doubles the pixel density.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	bin, err := exec.LookPath("rsvg-convert")
	if err != nil {
		return nil, fmt.Errorf("%s export: %w", format, ErrNoConverter)
	}

	cmd := exec.Command(bin, append([]string{"-f", format}, extraArgs...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert %s: %v: %s", format, err, stderr.String())
	}
	return out.Bytes(), nil
}
