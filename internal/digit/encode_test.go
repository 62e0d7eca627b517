// internal/digit/encode_test.go
package digit

// glyphs is the inverse of segments, indexed by value.
var glyphs = [10]byte{
	0b0111111,
	0b0000110,
	0b1011011,
	0b1001111,
	0b1100110,
	0b1101101,
	0b1111101,
	0b0000111,
	0b1111111,
	0b1101111,
}

// encodeCell is the inverse of ParseCell. Values above 9 encode as 0.
func encodeCell(c Cell) byte {
	var b byte
	if c.Value < 10 {
		b = glyphs[c.Value]
	} else {
		b = glyphs[0]
	}
	if c.Point {
		b |= pointMask
	}
	return b
}

// encodeHeight renders a display value back into report bytes.
// One fractional digit is kept while the rounded value fits in three cells.
func encodeHeight(v float64) [3]byte {
	if n := int(v*10 + 0.5); n < 1000 {
		return [3]byte{
			encodeCell(Cell{Value: uint8(n / 100 % 10)}),
			encodeCell(Cell{Value: uint8(n / 10 % 10), Point: true}),
			encodeCell(Cell{Value: uint8(n % 10)}),
		}
	}
	n := int(v + 0.5)
	return [3]byte{
		encodeCell(Cell{Value: uint8(n / 100 % 10)}),
		encodeCell(Cell{Value: uint8(n / 10 % 10)}),
		encodeCell(Cell{Value: uint8(n % 10)}),
	}
}
