package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/circlesim/internal/physics"
)

func (a *App) drawWorld() {
	for _, s := range a.session.World().Bodies() {
		switch c := s.(type) {
		case *physics.Circle:
			col := c.Color()
			rl.DrawCircle(
				int32(c.Position.X),
				int32(c.Position.Y),
				float32(c.Radius()),
				rl.NewColor(col.R, col.G, col.B, 255),
			)
		}
	}
}

func (a *App) DrawHUD() {
	w := a.session.World()

	drawText("circlesim", 20, 20, 20, ColSelect)
	drawText(fmt.Sprintf("bodies %d", w.Len()), 20, 46, 14, ColText)
	drawText(fmt.Sprintf("t %.2fs", a.session.Time()), 20, 64, 14, ColText)

	if a.session.Paused() {
		drawText("PAUSED", a.width-90, 20, 16, ColAccent)
	}

	a.DrawTelemetry()

	drawText("[CLICK] SPAWN  [SPACE] PAUSE  [R] RESET  [Q] QUIT", 20, a.height-24, 12, ColTextDim)
	drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), a.width-70, a.height-24, 12, ColTextDim)
	if a.audio != nil {
		drawText(fmt.Sprintf("pings %d", a.audio.Voices()), a.width-160, a.height-24, 12, ColTextDim)
	}
}

// DrawTelemetry plots the recent total energy as a line strip.
func (a *App) DrawTelemetry() {
	tel := a.session.Telemetry()
	if len(tel) < 2 {
		return
	}

	rectX, rectY := int32(20), int32(90)
	width, height := int32(200), int32(40)

	minVal, maxVal := tel[0], tel[0]
	for _, v := range tel {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(tel))
	for i, val := range tel {
		px := float32(rectX) + (float32(i)/float32(maxTelemetry))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	drawText(fmt.Sprintf("E %.3e", tel[len(tel)-1]), rectX+width+8, rectY+height-10, 12, ColText)
}

func drawText(text string, x, y, size int32, color rl.Color) {
	rl.DrawText(text, x, y, size, color)
}
