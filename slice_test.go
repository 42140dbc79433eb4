package tvmcell

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func sliceOf(t *testing.T, bits string) *Slice {
	t.Helper()
	return NewSlice(mustBits(t, bits), nil)
}

func TestSliceSkip(t *testing.T) {
	s := sliceOf(t, "10110")

	if err := s.Skip(2); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := BitsToBinaryString(s.Bits()); got != "110" {
		t.Errorf("Expected 110, got %s", got)
	}
	if err := s.Skip(4); !errors.Is(err, ErrBitOverflow) {
		t.Errorf("Expected ErrBitOverflow, got %v", err)
	}
	if s.RemainingBits() != 3 {
		t.Errorf("Failed skip should not consume, %d bits remain", s.RemainingBits())
	}
}

func TestSliceRefs(t *testing.T) {
	first := NewCell(mustBits(t, "1"), nil, false)
	second := NewCell(mustBits(t, "0"), nil, false)
	s := NewSlice(nil, []*Cell{first, second})

	got, err := s.PreloadRef()
	if err != nil || got != first {
		t.Fatalf("PreloadRef: expected first cell, got %v, %v", got, err)
	}
	if s.RemainingRefs() != 2 {
		t.Errorf("PreloadRef should not consume, %d refs remain", s.RemainingRefs())
	}

	for _, want := range []*Cell{first, second} {
		got, err := s.LoadRef()
		if err != nil || got != want {
			t.Fatalf("LoadRef: expected %v, got %v, %v", want, got, err)
		}
	}

	if _, err := s.LoadRef(); !errors.Is(err, ErrRefOverflow) {
		t.Errorf("Expected ErrRefOverflow, got %v", err)
	}
	if _, err := s.PreloadRef(); !errors.Is(err, ErrRefOverflow) {
		t.Errorf("Expected ErrRefOverflow, got %v", err)
	}
}

func TestSliceLoadMaybeRef(t *testing.T) {
	child := NewBuilder().Cell()
	b := NewBuilder()
	_ = b.StoreMaybeRef(child)
	_ = b.StoreMaybeRef(nil)
	s := b.Cell().Parse()

	got, err := s.LoadMaybeRef()
	if err != nil || got != child {
		t.Fatalf("Expected child cell, got %v, %v", got, err)
	}
	got, err = s.LoadMaybeRef()
	if err != nil || got != nil {
		t.Fatalf("Expected nil, got %v, %v", got, err)
	}

	t.Run("presence bit without ref", func(t *testing.T) {
		s := sliceOf(t, "1")
		if _, err := s.LoadMaybeRef(); !errors.Is(err, ErrRefOverflow) {
			t.Errorf("Expected ErrRefOverflow, got %v", err)
		}
		if s.RemainingBits() != 1 {
			t.Error("Failed LoadMaybeRef should not consume the presence bit")
		}
	})
}

func TestSliceBits(t *testing.T) {
	s := sliceOf(t, "1011")

	bit, err := s.PreloadBit()
	if err != nil || bit != One {
		t.Fatalf("PreloadBit: expected 1, got %d, %v", bit, err)
	}
	bit, err = s.LoadBit()
	if err != nil || bit != One {
		t.Fatalf("LoadBit: expected 1, got %d, %v", bit, err)
	}

	bits, err := s.PreloadBits(3)
	if err != nil || BitsToBinaryString(bits) != "011" {
		t.Fatalf("PreloadBits: expected 011, got %s, %v", BitsToBinaryString(bits), err)
	}
	bits, err = s.LoadBits(2)
	if err != nil || BitsToBinaryString(bits) != "01" {
		t.Fatalf("LoadBits: expected 01, got %s, %v", BitsToBinaryString(bits), err)
	}

	for _, n := range []int{0, -1, 2} {
		if _, err := s.LoadBits(n); !errors.Is(err, ErrBitOverflow) {
			t.Errorf("LoadBits(%d): expected ErrBitOverflow, got %v", n, err)
		}
	}

	_, _ = s.LoadBit()
	if _, err := s.LoadBit(); !errors.Is(err, ErrBitOverflow) {
		t.Errorf("Expected ErrBitOverflow on empty slice, got %v", err)
	}
	if _, err := s.PreloadBit(); !errors.Is(err, ErrBitOverflow) {
		t.Errorf("Expected ErrBitOverflow on empty slice, got %v", err)
	}
}

func TestSliceUintRoundTrip(t *testing.T) {
	tests := []struct {
		value uint64
		n     int
	}{
		{0, 1},
		{1, 1},
		{0, 8},
		{255, 8},
		{0xDEADBEEF, 32},
		{1<<63 + 12345, 64},
		{^uint64(0), 64},
		{3, 100},
	}

	for _, tt := range tests {
		b := NewBuilder()
		if err := b.StoreUint(tt.value, tt.n); err != nil {
			t.Fatalf("StoreUint(%d, %d): %v", tt.value, tt.n, err)
		}
		s := b.Cell().Parse()

		peek, err := s.PreloadUint(tt.n)
		if err != nil || peek != tt.value {
			t.Errorf("PreloadUint(%d): expected %d, got %d, %v", tt.n, tt.value, peek, err)
		}
		got, err := s.LoadUint(tt.n)
		if err != nil || got != tt.value {
			t.Errorf("LoadUint(%d): expected %d, got %d, %v", tt.n, tt.value, got, err)
		}
		if s.RemainingBits() != 0 {
			t.Errorf("Expected slice to be drained, %d bits remain", s.RemainingBits())
		}
	}
}

func TestSliceIntRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 8, 16, 32, 63, 64} {
		lo := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(n-1)))
		hi := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(n-1)), big.NewInt(1))

		for _, v := range []*big.Int{lo, hi, big.NewInt(0), big.NewInt(-1)} {
			if !fitsSigned(v, n) {
				continue
			}
			b := NewBuilder()
			if err := b.StoreBigInt(v, n); err != nil {
				t.Fatalf("StoreBigInt(%s, %d): %v", v, n, err)
			}
			got, err := b.Cell().Parse().LoadInt(n)
			if err != nil {
				t.Fatalf("LoadInt(%d): %v", n, err)
			}
			if got != v.Int64() {
				t.Errorf("n=%d: expected %s, got %d", n, v, got)
			}
		}

		if err := NewBuilder().StoreBigInt(new(big.Int).Add(hi, big.NewInt(1)), n); !errors.Is(err, ErrValueOutOfRange) {
			t.Errorf("n=%d: 2^(n-1) should be out of range, got %v", n, err)
		}
	}
}

func TestSliceBigIntRoundTrip(t *testing.T) {
	lo := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
	hi := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))

	for _, v := range []*big.Int{lo, hi, big.NewInt(-42)} {
		b := NewBuilder()
		if err := b.StoreBigInt(v, 256); err != nil {
			t.Fatalf("StoreBigInt(%s): %v", v, err)
		}
		s := b.Cell().Parse()
		peek, err := s.PreloadBigInt(256)
		if err != nil || peek.Cmp(v) != 0 {
			t.Errorf("PreloadBigInt: expected %s, got %s, %v", v, peek, err)
		}
		got, err := s.LoadBigInt(256)
		if err != nil || got.Cmp(v) != 0 {
			t.Errorf("LoadBigInt: expected %s, got %s, %v", v, got, err)
		}
	}
}

func TestSliceUintTooWide(t *testing.T) {
	b := NewBuilder()
	_ = b.StoreBigUint(new(big.Int).Lsh(big.NewInt(1), 64), 65)
	s := b.Cell().Parse()

	if _, err := s.LoadUint(65); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("Expected ErrValueOutOfRange, got %v", err)
	}
	if s.RemainingBits() != 65 {
		t.Errorf("Failed LoadUint should not consume, %d bits remain", s.RemainingBits())
	}
	if _, err := s.LoadUint(66); !errors.Is(err, ErrBitOverflow) {
		t.Errorf("Expected ErrBitOverflow, got %v", err)
	}
}

func TestSliceLoadBool(t *testing.T) {
	b := NewBuilder()
	_ = b.StoreBool(true)
	_ = b.StoreBool(false)
	s := b.Cell().Parse()

	for _, want := range []bool{true, false} {
		got, err := s.LoadBool()
		if err != nil || got != want {
			t.Errorf("Expected %v, got %v, %v", want, got, err)
		}
	}
}

func TestSliceBytesAndStrings(t *testing.T) {
	b := NewBuilder()
	_ = b.StoreBytes([]byte{0xCA, 0xFE})
	_ = b.StoreString("hello")
	_ = b.StoreString("tail")
	s := b.Cell().Parse()

	data, err := s.PreloadBytes(16)
	if err != nil || data[0] != 0xCA || data[1] != 0xFE {
		t.Fatalf("PreloadBytes: expected cafe, got %x, %v", data, err)
	}
	data, err = s.LoadBytes(16)
	if err != nil || len(data) != 2 {
		t.Fatalf("LoadBytes: expected 2 bytes, got %x, %v", data, err)
	}

	text, err := s.PreloadString(40)
	if err != nil || text != "hello" {
		t.Fatalf("PreloadString: expected hello, got %q, %v", text, err)
	}
	text, err = s.LoadString(40)
	if err != nil || text != "hello" {
		t.Fatalf("LoadString: expected hello, got %q, %v", text, err)
	}

	if tail := s.LoadStringTail(); tail != "tail" {
		t.Errorf("Expected tail, got %q", tail)
	}
	if s.RemainingBits() != 0 {
		t.Errorf("Expected slice to be drained, %d bits remain", s.RemainingBits())
	}
	if tail := s.LoadStringTail(); tail != "" {
		t.Errorf("Expected empty tail, got %q", tail)
	}
}

func TestSliceAddressRoundTrip(t *testing.T) {
	var allOnes common.Hash
	for i := range allOnes {
		allOnes[i] = 0xFF
	}

	tests := []struct {
		name string
		addr *Address
	}{
		{"none", nil},
		{"basechain", MustParseRawAddress("0:83dfd552e63729b472fcbcc8c45ebcc6691702558b68ec7527e1ba403a0f31a8")},
		{"masterchain all ones", NewAddress(-1, allOnes)},
		{"max workchain", NewAddress(127, common.Hash{1})},
		{"min workchain", NewAddress(-128, common.Hash{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			if err := b.StoreAddress(tt.addr); err != nil {
				t.Fatalf("StoreAddress: %v", err)
			}
			_ = b.StoreBit(One)
			s := b.Cell().Parse()

			peek, err := s.PreloadAddress()
			if err != nil || !peek.Equal(tt.addr) {
				t.Fatalf("PreloadAddress: expected %s, got %s, %v", tt.addr, peek, err)
			}
			got, err := s.LoadAddress()
			if err != nil || !got.Equal(tt.addr) {
				t.Fatalf("LoadAddress: expected %s, got %s, %v", tt.addr, got, err)
			}
			if s.RemainingBits() != 1 {
				t.Errorf("Expected only the trailing bit to remain, got %d", s.RemainingBits())
			}
		})
	}
}

func TestSliceAddressErrors(t *testing.T) {
	t.Run("unknown flags", func(t *testing.T) {
		for _, flag := range []string{"01", "11"} {
			s := sliceOf(t, flag+"000")
			if _, err := s.LoadAddress(); !errors.Is(err, ErrInvalidAddressFlag) {
				t.Errorf("Flag %s: expected ErrInvalidAddressFlag, got %v", flag, err)
			}
			if s.RemainingBits() != 5 {
				t.Errorf("Flag %s: failed load should not consume", flag)
			}
		}
	})

	t.Run("truncated", func(t *testing.T) {
		s := sliceOf(t, "10")
		if _, err := s.LoadAddress(); !errors.Is(err, ErrBitOverflow) {
			t.Errorf("Expected ErrBitOverflow, got %v", err)
		}
		if _, err := sliceOf(t, "1").PreloadAddress(); !errors.Is(err, ErrBitOverflow) {
			t.Errorf("Expected ErrBitOverflow, got %v", err)
		}
	})

	t.Run("anycast bit is ignored", func(t *testing.T) {
		b := NewBuilder()
		_ = b.StoreBits(mustBits(t, "101"))
		_ = b.StoreInt(0, 8)
		_ = b.StoreBytes(make([]byte, 32))
		got, err := b.Cell().Parse().LoadAddress()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !got.Equal(NewAddress(0, common.Hash{})) {
			t.Errorf("Expected zero address, got %s", got)
		}
	})
}

func TestSliceCoinsRoundTrip(t *testing.T) {
	limit := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 120), big.NewInt(1))

	tests := []struct {
		name string
		nano *big.Int
		bits int
	}{
		{"zero", big.NewInt(0), 4},
		{"one", big.NewInt(1), 12},
		{"255", big.NewInt(255), 12},
		{"256", big.NewInt(256), 20},
		{"one coin", big.NewInt(1_000_000_000), 36},
		{"fifteen bytes", limit, 124},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			if err := b.StoreCoins(CoinsFromNano(tt.nano)); err != nil {
				t.Fatalf("StoreCoins: %v", err)
			}
			if b.BitsLen() != tt.bits {
				t.Errorf("Expected %d bits, got %d", tt.bits, b.BitsLen())
			}
			s := b.Cell().Parse()

			peek, err := s.PreloadCoins()
			if err != nil || peek.Nano().Cmp(tt.nano) != 0 {
				t.Fatalf("PreloadCoins: expected %s, got %s, %v", tt.nano, peek.Nano(), err)
			}
			got, err := s.LoadCoins()
			if err != nil || got.Nano().Cmp(tt.nano) != 0 {
				t.Fatalf("LoadCoins: expected %s, got %s, %v", tt.nano, got.Nano(), err)
			}
			if s.RemainingBits() != 0 {
				t.Errorf("Expected slice to be drained, %d bits remain", s.RemainingBits())
			}
		})
	}
}

func TestSliceCoinsTruncated(t *testing.T) {
	s := sliceOf(t, "0010"+"00000001")
	if _, err := s.LoadCoins(); !errors.Is(err, ErrBitOverflow) {
		t.Errorf("Expected ErrBitOverflow, got %v", err)
	}
	if s.RemainingBits() != 12 {
		t.Errorf("Failed load should not consume, %d bits remain", s.RemainingBits())
	}
	if _, err := sliceOf(t, "001").PreloadCoins(); !errors.Is(err, ErrBitOverflow) {
		t.Errorf("Expected ErrBitOverflow, got %v", err)
	}
}

func TestSliceIsolation(t *testing.T) {
	c := NewCell(mustBits(t, "1100"), nil, false)
	s1 := c.Parse()
	s2 := c.Parse()

	_, _ = s1.LoadBits(2)
	if s2.RemainingBits() != 4 {
		t.Error("Slices parsed from the same cell must be independent")
	}
	if c.BitsLen() != 4 {
		t.Error("Consuming a slice must not change its cell")
	}

	bits := s2.Bits()
	bits[0] = Zero
	if got, _ := s2.PreloadBit(); got != One {
		t.Error("Mutating Bits() result must not affect the slice")
	}
}
