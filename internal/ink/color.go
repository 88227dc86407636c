package ink

import (
	"fmt"
	"strings"
)

// Color is the content of a grid cell and the ink type of an agent.
// Empty is only ever a cell value; agents and pools are Red, Green or Blue.
type Color uint8

const (
	Empty Color = iota
	Red
	Green
	Blue
)

// Colors lists the three ink colors in pool order.
var Colors = [...]Color{Red, Green, Blue}

func (c Color) String() string {
	switch c {
	case Empty:
		return "empty"
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the ink colors.
func (c Color) Valid() bool {
	return c >= Red && c <= Blue
}

// index maps an ink color onto [0, 3).
func (c Color) index() int {
	return int(c) - 1
}

// ParseColor parses an ink color name (case-insensitive). Single letters
// r, g and b are accepted as well.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return Red, nil
	case "green", "g":
		return Green, nil
	case "blue", "b":
		return Blue, nil
	default:
		return Empty, fmt.Errorf("unknown ink color %q", s)
	}
}

// InkLevels carries one integer per ink color.
type InkLevels struct {
	Red   int `json:"red" yaml:"red" toml:"red"`
	Green int `json:"green" yaml:"green" toml:"green"`
	Blue  int `json:"blue" yaml:"blue" toml:"blue"`
}

// Get returns the value for color c. Non-ink colors yield 0.
func (l InkLevels) Get(c Color) int {
	switch c {
	case Red:
		return l.Red
	case Green:
		return l.Green
	case Blue:
		return l.Blue
	default:
		return 0
	}
}

// Set stores v for color c. Non-ink colors are ignored.
func (l *InkLevels) Set(c Color, v int) {
	switch c {
	case Red:
		l.Red = v
	case Green:
		l.Green = v
	case Blue:
		l.Blue = v
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	if string(text) == "empty" {
		*c = Empty
		return nil
	}
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
