package tvmcell

import (
	"strings"
)

// Cell limits fixed by the protocol.
const (
	// MaxCellBits is the number of data bits a cell can hold.
	MaxCellBits = 1023

	// MaxCellRefs is the number of child references a cell can hold.
	MaxCellRefs = 4
)

// Cell is an immutable snapshot of data bits and child references.
// Cells are safe to share between goroutines.
type Cell struct {
	bits   []Bit
	refs   []*Cell
	exotic bool
}

// NewCell creates a cell from copies of bits and refs.
func NewCell(bits []Bit, refs []*Cell, exotic bool) *Cell {
	c := &Cell{
		bits:   make([]Bit, len(bits)),
		refs:   make([]*Cell, len(refs)),
		exotic: exotic,
	}
	copy(c.bits, bits)
	copy(c.refs, refs)
	return c
}

// Bits returns a copy of the cell's data bits.
func (c *Cell) Bits() []Bit {
	out := make([]Bit, len(c.bits))
	copy(out, c.bits)
	return out
}

// Refs returns a copy of the cell's child references.
func (c *Cell) Refs() []*Cell {
	out := make([]*Cell, len(c.refs))
	copy(out, c.refs)
	return out
}

// BitsLen returns the number of data bits.
func (c *Cell) BitsLen() int {
	return len(c.bits)
}

// RefsLen returns the number of child references.
func (c *Cell) RefsLen() int {
	return len(c.refs)
}

// IsExotic reports whether the cell is exotic.
func (c *Cell) IsExotic() bool {
	return c.exotic
}

// Parse returns a fresh Slice over the cell's contents.
func (c *Cell) Parse() *Slice {
	return NewSlice(c.bits, c.refs)
}

// Descriptors returns the two descriptor bytes that prefix a cell in its
// standard representation. The level mask is always zero.
func (c *Cell) Descriptors() [2]byte {
	var d [2]byte
	d[0] = byte(len(c.refs))
	if c.exotic {
		d[0] |= 8
	}
	d[1] = byte((len(c.bits)+7)/8 + len(c.bits)/8)
	return d
}

// DataBytes returns the data bits aligned to a byte boundary. Unaligned
// data carries a completion tag; aligned data is returned as is, and the
// parity of the second descriptor byte tells the two cases apart.
func (c *Cell) DataBytes() []byte {
	if len(c.bits)%8 == 0 {
		return BitsToBytes(c.bits)
	}
	return BitsToBytes(AugmentBits(c.bits, 8))
}

// Equal reports whether two cells have the same bits, exotic flag and
// structurally equal children.
func (c *Cell) Equal(other *Cell) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	if c.exotic != other.exotic || len(c.bits) != len(other.bits) || len(c.refs) != len(other.refs) {
		return false
	}
	for i := range c.bits {
		if c.bits[i] != other.bits[i] {
			return false
		}
	}
	for i := range c.refs {
		if !c.refs[i].Equal(other.refs[i]) {
			return false
		}
	}
	return true
}

// String renders the cell tree in Fift notation, one cell per line,
// children indented by one space per level.
func (c *Cell) String() string {
	var sb strings.Builder
	c.dump(&sb, 0)
	return strings.TrimSuffix(sb.String(), "\n")
}

func (c *Cell) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat(" ", depth))
	sb.WriteString("x{")
	sb.WriteString(BitsToHex(c.bits))
	sb.WriteString("}\n")
	for _, ref := range c.refs {
		ref.dump(sb, depth+1)
	}
}
