// internal/digit/digit.go
package digit

// pointMask is the decimal point bit of a cell byte.
const pointMask byte = 0x80

// segments maps a 7-bit segment bitmap to its decimal value.
// The encoding follows the glyphs, it is not monotonic.
var segments = map[byte]uint8{
	0b0111111: 0,
	0b0000110: 1,
	0b1011011: 2,
	0b1001111: 3,
	0b1100110: 4,
	0b1101101: 5,
	0b1111101: 6,
	0b0000111: 7,
	0b1111111: 8,
	0b1101111: 9,
}

// Cell is one seven-segment display position.
// The point belongs to the cell, not to the glyph.
type Cell struct {
	Value uint8
	Point bool
}

// ParseCell decodes one cell byte.
func ParseCell(b byte) (Cell, error) {
	v, ok := segments[b&^pointMask]
	if !ok {
		return Cell{}, &Error{Kind: KindDigitParse, Byte: b}
	}
	return Cell{Value: v, Point: b&pointMask != 0}, nil
}

// ParseReport decodes the three cells of a height report.
// The decimal point is only legal on the middle cell.
func ParseReport(b [3]byte) ([3]Cell, error) {
	var cells [3]Cell
	for i, raw := range b {
		c, err := ParseCell(raw)
		if err != nil {
			e := err.(*Error)
			e.Cell = i
			return cells, e
		}
		if c.Point && i != 1 {
			return cells, &Error{Kind: KindInvalidDecimalPoint, Byte: raw, Cell: i}
		}
		cells[i] = c
	}
	return cells, nil
}

// Decode converts a height report payload into the displayed value.
// Units are whatever the desk shows; a point on the middle cell divides by ten.
func Decode(b [3]byte) (float64, error) {
	cells, err := ParseReport(b)
	if err != nil {
		return 0, err
	}

	base := 100*int(cells[0].Value) + 10*int(cells[1].Value) + int(cells[2].Value)
	if cells[1].Point {
		return float64(base) / 10.0, nil
	}
	return float64(base), nil
}
