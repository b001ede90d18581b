package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/circlesim/internal/physics"
	"github.com/san-kum/circlesim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func hex(c physics.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	dotsW, dotsH := canvas.Dots()
	var sb strings.Builder
	header(&sb, float64(dotsW)*scale, float64(dotsH)*scale)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < dotsH; y++ {
		for x := 0; x < dotsW; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WorldToSVG draws every circle of the world at its current position, in
// world coordinates.
func WorldToSVG(w *physics.World) string {
	var sb strings.Builder
	header(&sb, w.Width(), w.Height())

	for _, s := range w.Bodies() {
		c, ok := s.(*physics.Circle)
		if !ok {
			continue
		}
		p := c.Dynamics().Position
		fmt.Fprintf(&sb, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\"/>\n",
			p.X, p.Y, c.Radius(), hex(c.Color()))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

var palette = []string{"#00ff9f", "#ff2a6d", "#05d9e8", "#f9c80e", "#b967ff", "#ff9a00"}

// TrajectoriesToSVG draws one path per body from stored state rows laid out
// as x, y, vx, vy per body. Rows are in world coordinates, so the image is
// width x height with no rescaling.
func TrajectoriesToSVG(states [][]float64, width, height float64) string {
	if len(states) < 2 {
		return ""
	}
	bodies := len(states[0]) / 4

	var sb strings.Builder
	header(&sb, width, height)

	for b := 0; b < bodies; b++ {
		color := palette[b%len(palette)]
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", color)
		for i, row := range states {
			if len(row) < 4*(b+1) {
				break
			}
			x, y := row[4*b], row[4*b+1]
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		last := states[len(states)-1]
		if len(last) >= 4*(b+1) {
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", last[4*b], last[4*b+1], color)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
