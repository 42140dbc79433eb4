package tvmcell

import (
	"fmt"
	"strings"
)

// Bit is a single cell data bit. Only Zero and One are valid.
type Bit uint8

const (
	Zero Bit = 0
	One  Bit = 1
)

// hexDigits is the upper-case alphabet used by Fift-style dumps.
const hexDigits = "0123456789ABCDEF"

// BytesToBits expands bytes into bits, most-significant bit first.
func BytesToBits(data []byte) []Bit {
	bits := make([]Bit, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, Bit((b>>uint(i))&1))
		}
	}
	return bits
}

// BitsToBytes packs bits into bytes, most-significant bit first. A trailing
// partial byte is padded with zero bits on the right.
func BitsToBytes(bits []Bit) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit != Zero {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

// StringToBits returns the bits of the UTF-8 encoding of text.
func StringToBits(text string) []Bit {
	return BytesToBits([]byte(text))
}

// BitsToString reinterprets bits as UTF-8 text.
func BitsToString(bits []Bit) string {
	return string(BitsToBytes(bits))
}

// BitsToBinaryString renders bits as a string of '0' and '1' characters.
func BitsToBinaryString(bits []Bit) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for _, bit := range bits {
		if bit == Zero {
			sb.WriteByte('0')
		} else {
			sb.WriteByte('1')
		}
	}
	return sb.String()
}

// BinaryStringToBits parses a string of '0' and '1' characters.
func BinaryStringToBits(s string) ([]Bit, error) {
	bits := make([]Bit, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			bits[i] = Zero
		case '1':
			bits[i] = One
		default:
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidBit, s[i], i)
		}
	}
	return bits, nil
}

// BitsToHex renders bits in the Fift hex notation. A sequence whose length
// is not a multiple of four is augmented to a nibble boundary and marked
// with a trailing '_'.
func BitsToHex(bits []Bit) string {
	tagged := len(bits)%4 != 0
	if tagged {
		bits = AugmentBits(bits, 4)
	}

	var sb strings.Builder
	sb.Grow(len(bits)/4 + 1)
	for i := 0; i < len(bits); i += 4 {
		nibble := bits[i]<<3 | bits[i+1]<<2 | bits[i+2]<<1 | bits[i+3]
		sb.WriteByte(hexDigits[nibble])
	}
	if tagged {
		sb.WriteByte('_')
	}
	return sb.String()
}

// HexToBits parses the Fift hex notation produced by BitsToHex.
func HexToBits(s string) ([]Bit, error) {
	tagged := strings.HasSuffix(s, "_")
	if tagged {
		s = s[:len(s)-1]
	}

	bits := make([]Bit, 0, len(s)*4)
	for i := 0; i < len(s); i++ {
		nibble := strings.IndexByte(hexDigits, upper(s[i]))
		if nibble < 0 {
			return nil, fmt.Errorf("tvmcell: invalid hex digit %q at offset %d", s[i], i)
		}
		for j := 3; j >= 0; j-- {
			bits = append(bits, Bit((nibble>>uint(j))&1))
		}
	}

	if !tagged {
		return bits, nil
	}
	// The completion tag must sit in the final nibble.
	if len(bits) == 0 || BitsToBinaryString(bits[len(bits)-4:]) == "0000" {
		return nil, ErrMalformedPadding
	}
	return RollbackBits(bits)
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'f' {
		return c - 'a' + 'A'
	}
	return c
}

// validBits reports the index of the first value outside {0,1}, or -1.
func validBits(bits []Bit) int {
	for i, bit := range bits {
		if bit > One {
			return i
		}
	}
	return -1
}
