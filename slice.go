package tvmcell

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// Slice reads bits and references from the front of a cell's contents.
// Load methods consume what they read; Preload methods leave the Slice
// unchanged. A Slice must not be used from several goroutines at once.
type Slice struct {
	bits []Bit
	refs []*Cell
}

// NewSlice creates a Slice over copies of bits and refs.
func NewSlice(bits []Bit, refs []*Cell) *Slice {
	s := &Slice{
		bits: make([]Bit, len(bits)),
		refs: make([]*Cell, len(refs)),
	}
	copy(s.bits, bits)
	copy(s.refs, refs)
	return s
}

// RemainingBits returns the number of unread bits.
func (s *Slice) RemainingBits() int {
	return len(s.bits)
}

// RemainingRefs returns the number of unread references.
func (s *Slice) RemainingRefs() int {
	return len(s.refs)
}

// Bits returns a copy of the unread bits.
func (s *Slice) Bits() []Bit {
	out := make([]Bit, len(s.bits))
	copy(out, s.bits)
	return out
}

// Refs returns a copy of the unread references.
func (s *Slice) Refs() []*Cell {
	out := make([]*Cell, len(s.refs))
	copy(out, s.refs)
	return out
}

// Skip drops the next n bits.
func (s *Slice) Skip(n int) error {
	if n < 0 || n > len(s.bits) {
		return bitOverflow("skip", n, len(s.bits))
	}
	s.bits = s.bits[n:]
	return nil
}

// PreloadRef returns the next reference without consuming it.
func (s *Slice) PreloadRef() (*Cell, error) {
	if len(s.refs) == 0 {
		return nil, refOverflow("preload ref", 1, 0)
	}
	return s.refs[0], nil
}

// LoadRef consumes and returns the next reference.
func (s *Slice) LoadRef() (*Cell, error) {
	c, err := s.PreloadRef()
	if err != nil {
		return nil, err
	}
	s.refs = s.refs[1:]
	return c, nil
}

// LoadMaybeRef reads a presence bit and, when it is set, the next
// reference. It returns nil for an absent reference.
func (s *Slice) LoadMaybeRef() (*Cell, error) {
	present, err := s.PreloadBit()
	if err != nil {
		return nil, err
	}
	if present == Zero {
		s.bits = s.bits[1:]
		return nil, nil
	}
	c, err := s.PreloadRef()
	if err != nil {
		return nil, err
	}
	s.bits = s.bits[1:]
	s.refs = s.refs[1:]
	return c, nil
}

// PreloadBit returns the next bit without consuming it.
func (s *Slice) PreloadBit() (Bit, error) {
	if len(s.bits) == 0 {
		return Zero, bitOverflow("preload bit", 1, 0)
	}
	return s.bits[0], nil
}

// LoadBit consumes and returns the next bit.
func (s *Slice) LoadBit() (Bit, error) {
	bit, err := s.PreloadBit()
	if err != nil {
		return Zero, err
	}
	s.bits = s.bits[1:]
	return bit, nil
}

// PreloadBits returns a copy of the next n bits. n must be positive.
func (s *Slice) PreloadBits(n int) ([]Bit, error) {
	if n <= 0 || n > len(s.bits) {
		return nil, bitOverflow("preload bits", n, len(s.bits))
	}
	out := make([]Bit, n)
	copy(out, s.bits[:n])
	return out, nil
}

// LoadBits consumes and returns the next n bits.
func (s *Slice) LoadBits(n int) ([]Bit, error) {
	bits, err := s.PreloadBits(n)
	if err != nil {
		return nil, err
	}
	s.bits = s.bits[n:]
	return bits, nil
}

// PreloadBigUint reads an n-bit unsigned integer without consuming it.
func (s *Slice) PreloadBigUint(n int) (*big.Int, error) {
	if n < 0 || n > len(s.bits) {
		return nil, bitOverflow("preload uint", n, len(s.bits))
	}
	return bitsToBig(s.bits[:n]), nil
}

// LoadBigUint consumes an n-bit unsigned integer.
func (s *Slice) LoadBigUint(n int) (*big.Int, error) {
	v, err := s.PreloadBigUint(n)
	if err != nil {
		return nil, err
	}
	s.bits = s.bits[n:]
	return v, nil
}

// PreloadBigInt reads an n-bit two's-complement integer without consuming
// it.
func (s *Slice) PreloadBigInt(n int) (*big.Int, error) {
	v, err := s.PreloadBigUint(n)
	if err != nil {
		return nil, err
	}
	if n > 0 && s.bits[0] == One {
		v.Sub(v, math.BigPow(2, int64(n)))
	}
	return v, nil
}

// LoadBigInt consumes an n-bit two's-complement integer.
func (s *Slice) LoadBigInt(n int) (*big.Int, error) {
	v, err := s.PreloadBigInt(n)
	if err != nil {
		return nil, err
	}
	s.bits = s.bits[n:]
	return v, nil
}

// PreloadUint reads an n-bit unsigned integer without consuming it. The
// value must fit in a uint64.
func (s *Slice) PreloadUint(n int) (uint64, error) {
	v, err := s.PreloadBigUint(n)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, &RangeError{Value: v, Bits: 64}
	}
	return v.Uint64(), nil
}

// LoadUint consumes an n-bit unsigned integer that fits in a uint64.
func (s *Slice) LoadUint(n int) (uint64, error) {
	v, err := s.PreloadUint(n)
	if err != nil {
		return 0, err
	}
	s.bits = s.bits[n:]
	return v, nil
}

// PreloadInt reads an n-bit two's-complement integer without consuming
// it. The value must fit in an int64.
func (s *Slice) PreloadInt(n int) (int64, error) {
	v, err := s.PreloadBigInt(n)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, &RangeError{Value: v, Bits: 64, Signed: true}
	}
	return v.Int64(), nil
}

// LoadInt consumes an n-bit two's-complement integer that fits in an
// int64.
func (s *Slice) LoadInt(n int) (int64, error) {
	v, err := s.PreloadInt(n)
	if err != nil {
		return 0, err
	}
	s.bits = s.bits[n:]
	return v, nil
}

// LoadBool consumes a boolean stored as a signed 1-bit integer.
func (s *Slice) LoadBool() (bool, error) {
	v, err := s.LoadInt(1)
	if err != nil {
		return false, err
	}
	return v == -1, nil
}

// PreloadBytes reads the next n bits as bytes without consuming them.
func (s *Slice) PreloadBytes(n int) ([]byte, error) {
	bits, err := s.PreloadBits(n)
	if err != nil {
		return nil, err
	}
	return BitsToBytes(bits), nil
}

// LoadBytes consumes the next n bits as bytes.
func (s *Slice) LoadBytes(n int) ([]byte, error) {
	bits, err := s.LoadBits(n)
	if err != nil {
		return nil, err
	}
	return BitsToBytes(bits), nil
}

// PreloadString reads the next n bits as UTF-8 text without consuming them.
func (s *Slice) PreloadString(n int) (string, error) {
	data, err := s.PreloadBytes(n)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadString consumes the next n bits as UTF-8 text.
func (s *Slice) LoadString(n int) (string, error) {
	data, err := s.LoadBytes(n)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadStringTail consumes every remaining bit as UTF-8 text.
func (s *Slice) LoadStringTail() string {
	text := BitsToString(s.bits)
	s.bits = s.bits[len(s.bits):]
	return text
}

// PreloadAddress reads an address without consuming it. A nil address
// means the "no address" marker was read.
func (s *Slice) PreloadAddress() (*Address, error) {
	addr, _, err := s.peekAddress()
	return addr, err
}

// LoadAddress consumes an address.
func (s *Slice) LoadAddress() (*Address, error) {
	addr, n, err := s.peekAddress()
	if err != nil {
		return nil, err
	}
	s.bits = s.bits[n:]
	return addr, nil
}

// peekAddress decodes an address at the front and reports its size.
// The anycast bit is skipped.
func (s *Slice) peekAddress() (*Address, int, error) {
	if len(s.bits) < NoAddressBits {
		return nil, 0, bitOverflow("load address", NoAddressBits, len(s.bits))
	}
	switch {
	case s.bits[0] == Zero && s.bits[1] == Zero:
		return nil, NoAddressBits, nil
	case s.bits[0] == One && s.bits[1] == Zero:
	default:
		return nil, 0, ErrInvalidAddressFlag
	}
	if len(s.bits) < AddressBits {
		return nil, 0, bitOverflow("load address", AddressBits, len(s.bits))
	}

	wc := BitsToBytes(s.bits[3:11])
	hash := BitsToBytes(s.bits[11:AddressBits])
	return NewAddress(int8(wc[0]), common.BytesToHash(hash)), AddressBits, nil
}

// PreloadCoins reads a coins amount without consuming it.
func (s *Slice) PreloadCoins() (Coins, error) {
	c, _, err := s.peekCoins()
	return c, err
}

// LoadCoins consumes a coins amount.
func (s *Slice) LoadCoins() (Coins, error) {
	c, n, err := s.peekCoins()
	if err != nil {
		return Coins{}, err
	}
	s.bits = s.bits[n:]
	return c, nil
}

// peekCoins decodes a coins amount at the front and reports its size.
func (s *Slice) peekCoins() (Coins, int, error) {
	if len(s.bits) < CoinsLengthBits {
		return Coins{}, 0, bitOverflow("load coins", CoinsLengthBits, len(s.bits))
	}
	n := int(bitsToBig(s.bits[:CoinsLengthBits]).Int64())
	if n == 0 {
		return NewCoins(0), CoinsLengthBits, nil
	}
	size := CoinsLengthBits + n*8
	if len(s.bits) < size {
		return Coins{}, 0, bitOverflow("load coins", size, len(s.bits))
	}
	return CoinsFromNano(bitsToBig(s.bits[CoinsLengthBits:size])), size, nil
}

// bitsToBig interprets bits as an unsigned big-endian integer.
func bitsToBig(bits []Bit) *big.Int {
	v := new(big.Int)
	for _, bit := range bits {
		v.Lsh(v, 1)
		if bit == One {
			v.SetBit(v, 0, 1)
		}
	}
	return v
}

// transact runs fn against a view of s and advances s only when fn
// succeeds.
func (s *Slice) transact(fn func(r *Slice) error) error {
	r := &Slice{bits: s.bits, refs: s.refs}
	if err := fn(r); err != nil {
		return err
	}
	s.bits, s.refs = r.bits, r.refs
	return nil
}
