package tvmcell

// rollbackWindow is the number of trailing bits RollbackBits searches for
// the completion tag. It equals the largest block AugmentBits appends.
const rollbackWindow = 8

// AugmentBits returns a copy of bits followed by a single 1 bit and then
// zeros up to the next multiple of divisor. When bits is already aligned a
// full extra block is appended, so the padding is never empty.
//
// divisor must be 4 or 8; any other value panics.
func AugmentBits(bits []Bit, divisor int) []Bit {
	if divisor != 4 && divisor != 8 {
		panic("tvmcell: augmentation divisor must be 4 or 8")
	}
	pad := divisor - len(bits)%divisor

	out := make([]Bit, len(bits), len(bits)+pad)
	copy(out, bits)
	out = append(out, One)
	for i := 1; i < pad; i++ {
		out = append(out, Zero)
	}
	return out
}

// RollbackBits removes the padding added by AugmentBits: the last 1 bit
// within the trailing window and every bit after it.
func RollbackBits(bits []Bit) ([]Bit, error) {
	stop := len(bits) - rollbackWindow
	if stop < 0 {
		stop = 0
	}
	for i := len(bits) - 1; i >= stop; i-- {
		if bits[i] == One {
			out := make([]Bit, i)
			copy(out, bits[:i])
			return out, nil
		}
	}
	return nil, ErrMalformedPadding
}
