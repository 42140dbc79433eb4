// Package tvmcell provides the bit-level encoding core for TON Virtual
// Machine cells: a capacity-bounded Builder, its consuming counterpart
// Slice, the canonical encodings for integers, byte strings, text,
// addresses and coin amounts, and composers for protocol message cells.
//
// A cell holds at most 1023 data bits and 4 references to child cells.
// Every store operation checks the ceiling before it mutates anything, so a
// rejected call leaves the Builder exactly as it was.
//
// # Basic Usage
//
// Build a cell, then read it back:
//
//	b := tvmcell.NewBuilder()
//	if err := b.StoreUint(0x0f8a7ea5, 32); err != nil {
//	    log.Fatal(err)
//	}
//	if err := b.StoreCoins(tvmcell.NewCoins(1_000_000_000)); err != nil {
//	    log.Fatal(err)
//	}
//	c := b.Cell()
//
//	s := c.Parse()
//	op, _ := s.LoadUint(32)
//	amount, _ := s.LoadCoins()
//
// # Encodings
//
//   - Unsigned and signed integers of any width, most-significant bit first,
//     signed values in two's complement.
//   - Byte strings and UTF-8 text, eight bits per byte.
//   - Addresses: the 2-bit flag "10", a zero anycast bit, an 8-bit signed
//     workchain and a 256-bit account hash (267 bits). A nil *Address is the
//     2-bit flag "00".
//   - Coins: a 4-bit byte length followed by the big-endian magnitude. Zero
//     is the length nibble alone.
//
// # Padding
//
// AugmentBits appends a single 1 bit and then zeros up to a nibble or byte
// boundary; RollbackBits strips it again. The flag is always present, so
// the original length is recoverable from aligned storage.
//
// # Messages
//
// NewInternalMessageHeader, NewExternalInMessageHeader and NewStateInit
// build the fixed protocol layouts. NewMessage assembles the envelope and
// places the state init and the body inline when they fit, or by reference
// when they do not.
//
// # References
//
//   - https://docs.ton.org/develop/data-formats/cell-boc
//   - https://docs.ton.org/develop/data-formats/msg-tlb
package tvmcell
