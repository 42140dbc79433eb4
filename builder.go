package tvmcell

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

// Builder accumulates bits and child references for a new cell.
// Every store operation validates before mutating: on error the Builder is
// unchanged. A Builder must not be used from several goroutines at once.
type Builder struct {
	capacity int
	bits     []Bit
	refs     []*Cell
}

// NewBuilder creates an empty Builder. The default capacity is MaxCellBits.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		capacity: MaxCellBits,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.bits = make([]Bit, 0, b.capacity)
	b.refs = make([]*Cell, 0, MaxCellRefs)
	return b
}

// Capacity returns the maximum number of bits the Builder accepts.
func (b *Builder) Capacity() int {
	return b.capacity
}

// BitsLen returns the number of bits stored so far.
func (b *Builder) BitsLen() int {
	return len(b.bits)
}

// RefsLen returns the number of references stored so far.
func (b *Builder) RefsLen() int {
	return len(b.refs)
}

// RemainingBits returns how many more bits fit.
func (b *Builder) RemainingBits() int {
	return b.capacity - len(b.bits)
}

// RemainingRefs returns how many more references fit.
func (b *Builder) RemainingRefs() int {
	return MaxCellRefs - len(b.refs)
}

// Bits returns a copy of the stored bits.
func (b *Builder) Bits() []Bit {
	out := make([]Bit, len(b.bits))
	copy(out, b.bits)
	return out
}

// Refs returns a copy of the stored references.
func (b *Builder) Refs() []*Cell {
	out := make([]*Cell, len(b.refs))
	copy(out, b.refs)
	return out
}

// Cell returns an ordinary cell holding copies of the current bits and
// references. The Builder stays usable.
func (b *Builder) Cell() *Cell {
	return NewCell(b.bits, b.refs, false)
}

// Clone returns a new Builder with the same capacity and a copy of the
// current bits. References are not carried over.
func (b *Builder) Clone() *Builder {
	c := NewBuilder(WithCapacity(b.capacity))
	c.bits = append(c.bits, b.bits...)
	return c
}

// checkBits fails with ErrBitOverflow unless n bits fit.
func (b *Builder) checkBits(op string, n int) error {
	if n > b.RemainingBits() {
		return bitOverflow(op, n, b.RemainingBits())
	}
	return nil
}

// checkRefs fails with ErrRefOverflow unless n references fit.
func (b *Builder) checkRefs(op string, n int) error {
	if n > b.RemainingRefs() {
		return refOverflow(op, n, b.RemainingRefs())
	}
	return nil
}

// StoreBit appends a single bit.
func (b *Builder) StoreBit(bit Bit) error {
	if bit > One {
		return ErrInvalidBit
	}
	if err := b.checkBits("store bit", 1); err != nil {
		return err
	}
	b.bits = append(b.bits, bit)
	return nil
}

// StoreBits appends bits in order. Nothing is appended if any bit is
// invalid or the sequence does not fit.
func (b *Builder) StoreBits(bits []Bit) error {
	if validBits(bits) >= 0 {
		return ErrInvalidBit
	}
	if err := b.checkBits("store bits", len(bits)); err != nil {
		return err
	}
	b.bits = append(b.bits, bits...)
	return nil
}

// StoreRef appends a child reference.
func (b *Builder) StoreRef(c *Cell) error {
	if c == nil {
		return ErrNilCell
	}
	if err := b.checkRefs("store ref", 1); err != nil {
		return err
	}
	b.refs = append(b.refs, c)
	return nil
}

// StoreMaybeRef appends bit 1 and a reference to c, or bit 0 when c is nil.
func (b *Builder) StoreMaybeRef(c *Cell) error {
	if c == nil {
		return b.StoreBit(Zero)
	}
	if err := b.checkBits("store maybe ref", 1); err != nil {
		return err
	}
	if err := b.checkRefs("store maybe ref", 1); err != nil {
		return err
	}
	b.bits = append(b.bits, One)
	b.refs = append(b.refs, c)
	return nil
}

// StoreSlice appends the remaining bits and then the remaining references
// of s. The slice itself is not consumed.
func (b *Builder) StoreSlice(s *Slice) error {
	if err := b.checkBits("store slice", s.RemainingBits()); err != nil {
		return err
	}
	if err := b.checkRefs("store slice", s.RemainingRefs()); err != nil {
		return err
	}
	b.bits = append(b.bits, s.bits...)
	b.refs = append(b.refs, s.refs...)
	return nil
}

// StoreUint appends value as an n-bit unsigned integer.
func (b *Builder) StoreUint(value uint64, n int) error {
	return b.StoreBigUint(new(big.Int).SetUint64(value), n)
}

// StoreBigUint appends value as an n-bit unsigned integer. It fails with a
// RangeError unless 0 <= value < 2^n.
func (b *Builder) StoreBigUint(value *big.Int, n int) error {
	if n < 0 || value.Sign() < 0 || value.BitLen() > n {
		return &RangeError{Value: new(big.Int).Set(value), Bits: n}
	}
	if err := b.checkBits("store uint", n); err != nil {
		return err
	}
	b.bits = append(b.bits, uintBits(value, n)...)
	return nil
}

// StoreInt appends value as an n-bit two's-complement integer.
func (b *Builder) StoreInt(value int64, n int) error {
	return b.StoreBigInt(big.NewInt(value), n)
}

// StoreBigInt appends value as an n-bit two's-complement integer. It fails
// with a RangeError unless -2^(n-1) <= value < 2^(n-1).
func (b *Builder) StoreBigInt(value *big.Int, n int) error {
	if !fitsSigned(value, n) {
		return &RangeError{Value: new(big.Int).Set(value), Bits: n, Signed: true}
	}
	if err := b.checkBits("store int", n); err != nil {
		return err
	}
	u := value
	if value.Sign() < 0 {
		u = new(big.Int).Add(value, math.BigPow(2, int64(n)))
	}
	b.bits = append(b.bits, uintBits(u, n)...)
	return nil
}

// StoreBool appends a boolean as a signed 1-bit integer: true is -1, false
// is 0.
func (b *Builder) StoreBool(v bool) error {
	if v {
		return b.StoreInt(-1, 1)
	}
	return b.StoreInt(0, 1)
}

// StoreBytes appends each byte as an 8-bit unsigned integer.
func (b *Builder) StoreBytes(data []byte) error {
	if err := b.checkBits("store bytes", len(data)*8); err != nil {
		return err
	}
	b.bits = append(b.bits, BytesToBits(data)...)
	return nil
}

// StoreString appends the UTF-8 bytes of text.
func (b *Builder) StoreString(text string) error {
	return b.StoreBytes([]byte(text))
}

// StoreAddress appends a standard address, or the "no address" marker
// when addr is nil.
func (b *Builder) StoreAddress(addr *Address) error {
	if addr == nil {
		if err := b.checkBits("store address", NoAddressBits); err != nil {
			return err
		}
		b.bits = append(b.bits, Zero, Zero)
		return nil
	}
	if err := b.checkBits("store address", AddressBits); err != nil {
		return err
	}
	b.bits = append(b.bits, addr.bits()...)
	return nil
}

// StoreCoins appends a coins amount: a 4-bit byte length followed by the
// big-endian magnitude. Zero is stored as the length alone.
func (b *Builder) StoreCoins(c Coins) error {
	if c.IsNegative() {
		return ErrNegativeAmount
	}
	n := c.byteLen()
	if n > MaxCoinsBytes {
		return &RangeError{Value: c.Nano(), Bits: MaxCoinsBytes * 8}
	}
	if err := b.checkBits("store coins", CoinsLengthBits+n*8); err != nil {
		return err
	}
	b.bits = append(b.bits, uintBits(big.NewInt(int64(n)), CoinsLengthBits)...)
	if n > 0 {
		b.bits = append(b.bits, BytesToBits(math.PaddedBigBytes(c.nano, n))...)
	}
	return nil
}

// uintBits returns the low n bits of a non-negative value, most-significant
// first. The caller guarantees value < 2^n.
func uintBits(value *big.Int, n int) []Bit {
	if n == 0 {
		return nil
	}
	bits := BytesToBits(math.PaddedBigBytes(value, (n+7)/8))
	return bits[len(bits)-n:]
}

// fitsSigned reports whether -2^(n-1) <= value < 2^(n-1).
func fitsSigned(value *big.Int, n int) bool {
	if n < 1 {
		return false
	}
	if value.Sign() >= 0 {
		return value.BitLen() <= n-1
	}
	// value >= -2^(n-1) exactly when -value-1 < 2^(n-1).
	m := new(big.Int).Neg(value)
	m.Sub(m, big.NewInt(1))
	return m.BitLen() <= n-1
}

// transact runs fn against a scratch copy of b and commits the result only
// when fn succeeds.
func (b *Builder) transact(fn func(w *Builder) error) error {
	w := &Builder{capacity: b.capacity, bits: b.Bits(), refs: b.Refs()}
	if err := fn(w); err != nil {
		return err
	}
	b.bits, b.refs = w.bits, w.refs
	return nil
}
