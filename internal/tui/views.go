package tui

import (
	"fmt"

	"github.com/daniacca/inklings/internal/ink"
	"github.com/gdamore/tcell/v2"
)

// Rect is a screen area in cells.
type Rect struct {
	X, Y, W, H int
}

// View draws one pane of a snapshot. Views only read the snapshot.
type View func(s tcell.Screen, area Rect, snap ink.Snapshot)

var inkColors = map[ink.Color]tcell.Color{
	ink.Red:   tcell.ColorRed,
	ink.Green: tcell.ColorGreen,
	ink.Blue:  tcell.ColorBlue,
}

// GridWidth is the number of screen columns DrawGrid needs for cols cells.
func GridWidth(cols int) int {
	return 2*cols + 2
}

// DrawGrid renders painted cells as colored blocks and live inklings as
// heading arrows, inside a border. Each grid cell is two screen columns wide.
func DrawGrid(s tcell.Screen, area Rect, snap ink.Snapshot) {
	border := tcell.StyleDefault.Foreground(tcell.ColorGray)
	w, h := GridWidth(snap.Cols), snap.Rows+2
	for x := 0; x < w && x < area.W; x++ {
		s.SetContent(area.X+x, area.Y, '─', nil, border)
		s.SetContent(area.X+x, area.Y+h-1, '─', nil, border)
	}
	for y := 0; y < h && y < area.H; y++ {
		s.SetContent(area.X, area.Y+y, '│', nil, border)
		s.SetContent(area.X+w-1, area.Y+y, '│', nil, border)
	}

	for row := 0; row < snap.Rows && row+1 < area.H; row++ {
		for col := 0; col < snap.Cols; col++ {
			style := tcell.StyleDefault
			if c, ok := inkColors[snap.Cell(row, col)]; ok {
				style = style.Background(c)
			}
			x, y := area.X+1+2*col, area.Y+1+row
			s.SetContent(x, y, ' ', nil, style)
			s.SetContent(x+1, y, ' ', nil, style)
		}
	}

	for _, a := range snap.Agents {
		if !a.Alive {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(inkColors[a.Color]).Bold(true)
		x, y := area.X+1+2*a.Col, area.Y+1+a.Row
		s.SetContent(x, y, a.Heading.Arrow(), nil, style)
	}
}

// DrawState renders the live count, ink gauges and key help.
func DrawState(s tcell.Screen, area Rect, snap ink.Snapshot) {
	y := area.Y
	line := func(text string, style tcell.Style) {
		if y >= area.Y+area.H {
			return
		}
		drawText(s, area.X, y, area.W, text, style)
		y++
	}

	plain := tcell.StyleDefault
	line(fmt.Sprintf("Live inklings: %d/%d", snap.LiveCount, len(snap.Agents)), plain.Bold(true))
	if snap.LiveCount == 0 && len(snap.Agents) > 0 {
		line("All inklings terminated", plain.Foreground(tcell.ColorYellow))
	} else {
		line("", plain)
	}
	line("", plain)

	const gauge = 20
	for _, c := range ink.Colors {
		level := snap.Ink.Get(c)
		filled := 0
		if snap.Capacity > 0 {
			filled = level * gauge / snap.Capacity
		}
		bar := make([]rune, gauge)
		for i := range bar {
			if i < filled {
				bar[i] = '█'
			} else {
				bar[i] = '·'
			}
		}
		line(fmt.Sprintf("%-5s %3d/%d %s %dms", c, level, snap.Capacity, string(bar), snap.RefillPeriods.Get(c)),
			plain.Foreground(inkColors[c]))
	}

	line("", plain)
	line("r/g/b  add ink", plain)
	line("+/-    faster/slower refills", plain)
	line("q/ESC  quit", plain)
}

func drawText(s tcell.Screen, x, y, maxW int, text string, style tcell.Style) {
	i := 0
	for _, r := range text {
		if i >= maxW {
			return
		}
		s.SetContent(x+i, y, r, nil, style)
		i++
	}
}
