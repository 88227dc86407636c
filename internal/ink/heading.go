package ink

import (
	"fmt"
	"math/rand"
)

// Heading is a travel direction. The numbering makes the reverse of h
// (h+2)%4 and the two perpendicular turns (h+1)%4 and (h+3)%4.
type Heading uint8

const (
	North Heading = iota
	West
	South
	East
	numHeadings
)

func (h Heading) String() string {
	switch h {
	case North:
		return "north"
	case West:
		return "west"
	case South:
		return "south"
	case East:
		return "east"
	default:
		return "unknown"
	}
}

// Reverse returns the heading 180° from h.
func (h Heading) Reverse() Heading {
	return (h + 2) % numHeadings
}

// Delta is the unit (row, col) offset of one step along h.
func (h Heading) Delta() (dRow, dCol int) {
	switch h {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case West:
		return 0, -1
	case East:
		return 0, 1
	default:
		return 0, 0
	}
}

// Arrow is the glyph used to draw an agent travelling along h.
func (h Heading) Arrow() rune {
	switch h {
	case North:
		return '↑'
	case West:
		return '←'
	case South:
		return '↓'
	case East:
		return '→'
	default:
		return ' '
	}
}

func randomHeading(rnd *rand.Rand) Heading {
	return Heading(rnd.Intn(int(numHeadings)))
}

// turn draws a 90° left or right turn from h. The result is never h and
// never h.Reverse().
func turn(h Heading, rnd *rand.Rand) Heading {
	if rnd.Intn(2) == 0 {
		return (h + 1) % numHeadings
	}
	return (h + 3) % numHeadings
}

func (h Heading) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Heading) UnmarshalText(text []byte) error {
	for c := North; c < numHeadings; c++ {
		if c.String() == string(text) {
			*h = c
			return nil
		}
	}
	return fmt.Errorf("unknown heading %q", text)
}
