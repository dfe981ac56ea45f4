package width

import (
	"math"
	"unicode"

	"golang.org/x/text/width"
)

// TextWidth returns the display width of s in character cells. East Asian
// wide and full-width runes occupy two cells, combining marks none.
func TextWidth(s string) float64 {
	cells := 0
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
		case isWide(r):
			cells += 2
		default:
			cells++
		}
	}
	return float64(cells)
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	default:
		return false
	}
}

// ceil rounds a single contribution up to a whole cell.
func ceil(v float64) float64 {
	return math.Ceil(v)
}
