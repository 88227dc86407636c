package ink

import (
	"fmt"
	"sync/atomic"
)

// Grid records which color last visited each cell, stored row-major in a
// flat buffer.
//
// There is no grid or cell lock. Agents write cells while the renderer
// reads them, and two agents may write the same cell; the last write wins.
// The grid is display state only and no agent decision ever reads it, so
// this race is accepted. Each cell is a single atomic word so a reader can
// never observe a partial or out-of-range value, only a stale one.
type Grid struct {
	rows  int
	cols  int
	cells []atomic.Uint32
}

// NewGrid creates an empty rows × cols grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]atomic.Uint32, rows*cols),
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) lies on the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// IsCorner reports whether (row, col) is one of the four corner cells.
func (g *Grid) IsCorner(row, col int) bool {
	return (row == 0 || row == g.rows-1) && (col == 0 || col == g.cols-1)
}

// IsBoundary reports whether (row, col) lies on the outer ring.
func (g *Grid) IsBoundary(row, col int) bool {
	return row == 0 || row == g.rows-1 || col == 0 || col == g.cols-1
}

func (g *Grid) index(row, col int) int {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("ink: cell (%d, %d) outside %dx%d grid", row, col, g.rows, g.cols))
	}
	return row*g.cols + col
}

// Paint records color c at (row, col). Coordinates outside the grid are an
// invariant violation and panic.
func (g *Grid) Paint(row, col int, c Color) {
	g.cells[g.index(row, col)].Store(uint32(c))
}

// Read returns the last color painted at (row, col).
func (g *Grid) Read(row, col int) Color {
	return Color(g.cells[g.index(row, col)].Load())
}

// Cells copies the grid into a row-major slice.
func (g *Grid) Cells() []Color {
	out := make([]Color, len(g.cells))
	for i := range g.cells {
		out[i] = Color(g.cells[i].Load())
	}
	return out
}
