package tvmcell

import (
	"errors"
	"fmt"
	"math/big"
)

// Sentinel errors for common failure conditions.
var (
	// ErrBitOverflow indicates more bits were requested than remain.
	ErrBitOverflow = errors.New("tvmcell: bit overflow")

	// ErrRefOverflow indicates the 4-reference ceiling was exceeded, or no
	// references remain to be loaded.
	ErrRefOverflow = errors.New("tvmcell: ref overflow")

	// ErrInvalidBit indicates a value other than 0 or 1 was used as a bit.
	ErrInvalidBit = errors.New("tvmcell: invalid bit value")

	// ErrValueOutOfRange indicates an integer does not fit the requested width.
	ErrValueOutOfRange = errors.New("tvmcell: value out of range")

	// ErrNegativeAmount indicates a negative coins amount.
	ErrNegativeAmount = errors.New("tvmcell: negative coins amount")

	// ErrInvalidAddressFlag indicates an unknown 2-bit address flag.
	ErrInvalidAddressFlag = errors.New("tvmcell: invalid address flag")

	// ErrMalformedPadding indicates no completion tag was found.
	ErrMalformedPadding = errors.New("tvmcell: malformed bit padding")

	// ErrInvalidAddress indicates a textual address could not be parsed.
	ErrInvalidAddress = errors.New("tvmcell: invalid address")

	// ErrNilCell indicates a required cell argument was nil.
	ErrNilCell = errors.New("tvmcell: required cell is nil")

	// ErrUnsupportedLayout indicates a decoded cell uses a layout this
	// package does not build.
	ErrUnsupportedLayout = errors.New("tvmcell: unsupported cell layout")
)

// OverflowError reports a bit or reference request that exceeded what was
// available. Err is ErrBitOverflow or ErrRefOverflow.
type OverflowError struct {
	Op        string
	Requested int
	Available int
	Err       error
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%v: %s needs %d, %d available", e.Err, e.Op, e.Requested, e.Available)
}

func (e *OverflowError) Unwrap() error {
	return e.Err
}

// RangeError indicates an integer value does not fit the requested width.
type RangeError struct {
	Value  *big.Int
	Bits   int
	Signed bool
}

func (e *RangeError) Error() string {
	kind := "unsigned"
	if e.Signed {
		kind = "signed"
	}
	return fmt.Sprintf("tvmcell: value %v does not fit in %d-bit %s integer", e.Value, e.Bits, kind)
}

func (e *RangeError) Unwrap() error {
	return ErrValueOutOfRange
}

// MessageError wraps failures that occur while composing or decoding a
// message cell.
type MessageError struct {
	Part string
	Err  error
}

func (e *MessageError) Error() string {
	return fmt.Sprintf("tvmcell: message %s: %v", e.Part, e.Err)
}

func (e *MessageError) Unwrap() error {
	return e.Err
}

func bitOverflow(op string, requested, available int) error {
	return &OverflowError{Op: op, Requested: requested, Available: available, Err: ErrBitOverflow}
}

func refOverflow(op string, requested, available int) error {
	return &OverflowError{Op: op, Requested: requested, Available: available, Err: ErrRefOverflow}
}
