package tvmcell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Address encoding widths.
const (
	// AddressBits is the size of a standard address: flag, anycast,
	// workchain and account hash.
	AddressBits = 2 + 1 + 8 + 256

	// NoAddressBits is the size of the "no address" marker.
	NoAddressBits = 2
)

// Address identifies an account by workchain and 256-bit hash.
// A nil *Address stands for "no address".
type Address struct {
	Workchain int8
	Hash      common.Hash
}

// NewAddress creates an address in the given workchain.
func NewAddress(workchain int8, hash common.Hash) *Address {
	return &Address{Workchain: workchain, Hash: hash}
}

// ParseRawAddress parses the raw "workchain:hex" form, e.g.
// "0:83dfd552e63729b472fcbcc8c45ebcc6691702558b68ec7527e1ba403a0f31a8".
func ParseRawAddress(s string) (*Address, error) {
	wcPart, hashPart, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return nil, fmt.Errorf("%w: missing workchain separator in %q", ErrInvalidAddress, s)
	}

	wc, err := strconv.ParseInt(wcPart, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: workchain %q: %v", ErrInvalidAddress, wcPart, err)
	}

	raw, err := hexutil.Decode("0x" + hashPart)
	if err != nil {
		return nil, fmt.Errorf("%w: hash %q: %v", ErrInvalidAddress, hashPart, err)
	}
	if len(raw) != common.HashLength {
		return nil, fmt.Errorf("%w: hash must be %d bytes, got %d", ErrInvalidAddress, common.HashLength, len(raw))
	}

	return NewAddress(int8(wc), common.BytesToHash(raw)), nil
}

// MustParseRawAddress is like ParseRawAddress but panics on error.
// Use only with compile-time constant values.
func MustParseRawAddress(s string) *Address {
	a, err := ParseRawAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the raw "workchain:hex" form.
func (a *Address) String() string {
	if a == nil {
		return "none"
	}
	return strconv.Itoa(int(a.Workchain)) + ":" + common.Bytes2Hex(a.Hash[:])
}

// Equal reports whether two addresses are the same. Two nil addresses are
// equal.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Workchain == other.Workchain && a.Hash == other.Hash
}

// bits returns the 267-bit standard encoding of a non-nil address.
func (a *Address) bits() []Bit {
	out := make([]Bit, 0, AddressBits)
	out = append(out, One, Zero) // addr_std
	out = append(out, Zero)      // no anycast
	out = append(out, BytesToBits([]byte{byte(a.Workchain)})...)
	out = append(out, BytesToBits(a.Hash[:])...)
	return out
}
