package tvmcell

import (
	"fmt"
	"math/big"
	"strings"
)

// Coins encoding parameters.
const (
	// CoinsLengthBits is the width of the byte-length prefix.
	CoinsLengthBits = 4

	// MaxCoinsBytes is the largest magnitude the length prefix can describe.
	MaxCoinsBytes = 1<<CoinsLengthBits - 1

	// CoinsDecimals is the number of decimal places in one whole coin.
	CoinsDecimals = 9
)

var nanoPerCoin = big.NewInt(1_000_000_000)

// Coins is an amount in nano units. The zero value is zero coins.
type Coins struct {
	nano *big.Int
}

// NewCoins creates an amount from nano units.
func NewCoins(nano int64) Coins {
	return Coins{nano: big.NewInt(nano)}
}

// CoinsFromNano creates an amount from a copy of nano.
func CoinsFromNano(nano *big.Int) Coins {
	if nano == nil {
		return Coins{}
	}
	return Coins{nano: new(big.Int).Set(nano)}
}

// ParseCoins parses a decimal amount of whole coins, e.g. "1.5" or "0.05".
func ParseCoins(s string) (Coins, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return Coins{}, fmt.Errorf("tvmcell: invalid coins amount %q", s)
	}
	if len(frac) > CoinsDecimals {
		return Coins{}, fmt.Errorf("tvmcell: coins amount %q has more than %d decimals", s, CoinsDecimals)
	}
	if whole == "" {
		whole = "0"
	}
	frac += strings.Repeat("0", CoinsDecimals-len(frac))

	nano, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok || strings.ContainsAny(whole+frac, "+-") {
		return Coins{}, fmt.Errorf("tvmcell: invalid coins amount %q", s)
	}
	if neg {
		nano.Neg(nano)
	}
	return Coins{nano: nano}, nil
}

// MustParseCoins is like ParseCoins but panics on error.
func MustParseCoins(s string) Coins {
	c, err := ParseCoins(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Nano returns a copy of the amount in nano units.
func (c Coins) Nano() *big.Int {
	if c.nano == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(c.nano)
}

// IsZero reports whether the amount is zero.
func (c Coins) IsZero() bool {
	return c.nano == nil || c.nano.Sign() == 0
}

// IsNegative reports whether the amount is below zero.
func (c Coins) IsNegative() bool {
	return c.nano != nil && c.nano.Sign() < 0
}

// Equal reports whether two amounts are the same.
func (c Coins) Equal(other Coins) bool {
	return c.Nano().Cmp(other.Nano()) == 0
}

// String returns the amount in whole coins with trailing zeros trimmed.
func (c Coins) String() string {
	nano := c.Nano()
	sign := ""
	if nano.Sign() < 0 {
		sign = "-"
		nano.Neg(nano)
	}
	whole, frac := new(big.Int).QuoRem(nano, nanoPerCoin, new(big.Int))
	if frac.Sign() == 0 {
		return sign + whole.String()
	}
	fs := frac.String()
	fs = strings.Repeat("0", CoinsDecimals-len(fs)) + fs
	return sign + whole.String() + "." + strings.TrimRight(fs, "0")
}

// byteLen returns the number of bytes needed for the magnitude, zero for
// a zero amount.
func (c Coins) byteLen() int {
	if c.nano == nil {
		return 0
	}
	return (c.nano.BitLen() + 7) / 8
}
