package tvmcell

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"
)

// Message layout constants.
const (
	// InternalHeaderFlagBits covers the discriminator and the ihr_disabled,
	// bounce and bounced flags.
	InternalHeaderFlagBits = 4

	// ExternalInTagBits is the width of the ext_in_msg_info discriminator.
	ExternalInTagBits = 2

	// StateInitPrefixBits covers split_depth, special and the code
	// presence bit.
	StateInitPrefixBits = 3

	// TextCommentOp is the op code that marks a plain text comment body.
	TextCommentOp = 0
)

// InternalMessageHeader is the int_msg_info header of a message sent
// between contracts.
type InternalMessageHeader struct {
	IHRDisabled bool
	Bounce      bool
	Bounced     bool
	Src         *Address
	Dest        *Address
	Value       Coins
	IHRFee      Coins
	FwdFee      Coins
	CreatedLt   uint64
	CreatedAt   uint32
}

// NewInternalMessageHeader builds an internal message header cell.
// IHR is disabled and both bounce flags are cleared unless options say
// otherwise.
func NewInternalMessageHeader(src, dest *Address, value Coins, opts ...InternalHeaderOption) (*Cell, error) {
	h := &InternalMessageHeader{
		IHRDisabled: true,
		Src:         src,
		Dest:        dest,
		Value:       value,
	}
	for _, opt := range opts {
		opt(h)
	}

	b := NewBuilder()
	if err := h.Store(b); err != nil {
		return nil, &MessageError{Part: "internal header", Err: err}
	}
	return b.Cell(), nil
}

// Store appends the header to b. Nothing is appended on error.
func (h *InternalMessageHeader) Store(b *Builder) error {
	return b.transact(func(w *Builder) error {
		// int_msg_info$0
		if err := w.StoreBit(Zero); err != nil {
			return err
		}
		for _, flag := range []bool{h.IHRDisabled, h.Bounce, h.Bounced} {
			if err := w.StoreBool(flag); err != nil {
				return err
			}
		}
		if err := w.StoreAddress(h.Src); err != nil {
			return err
		}
		if err := w.StoreAddress(h.Dest); err != nil {
			return err
		}
		if err := w.StoreCoins(h.Value); err != nil {
			return err
		}
		// Empty extra currency collection.
		if err := w.StoreBit(Zero); err != nil {
			return err
		}
		if err := w.StoreCoins(h.IHRFee); err != nil {
			return err
		}
		if err := w.StoreCoins(h.FwdFee); err != nil {
			return err
		}
		if err := w.StoreUint(h.CreatedLt, 64); err != nil {
			return err
		}
		return w.StoreUint(uint64(h.CreatedAt), 32)
	})
}

// LoadInternalMessageHeader decodes an internal message header from the
// front of s. Nothing is consumed on error.
func LoadInternalMessageHeader(s *Slice) (*InternalMessageHeader, error) {
	h := &InternalMessageHeader{}
	err := s.transact(func(r *Slice) error {
		tag, err := r.LoadBit()
		if err != nil {
			return err
		}
		if tag != Zero {
			return fmt.Errorf("%w: not an internal message header", ErrUnsupportedLayout)
		}
		for _, flag := range []*bool{&h.IHRDisabled, &h.Bounce, &h.Bounced} {
			if *flag, err = r.LoadBool(); err != nil {
				return err
			}
		}
		if h.Src, err = r.LoadAddress(); err != nil {
			return err
		}
		if h.Dest, err = r.LoadAddress(); err != nil {
			return err
		}
		if h.Value, err = r.LoadCoins(); err != nil {
			return err
		}
		extra, err := r.LoadBit()
		if err != nil {
			return err
		}
		if extra != Zero {
			return fmt.Errorf("%w: extra currencies", ErrUnsupportedLayout)
		}
		if h.IHRFee, err = r.LoadCoins(); err != nil {
			return err
		}
		if h.FwdFee, err = r.LoadCoins(); err != nil {
			return err
		}
		if h.CreatedLt, err = r.LoadUint(64); err != nil {
			return err
		}
		at, err := r.LoadUint(32)
		if err != nil {
			return err
		}
		h.CreatedAt = uint32(at)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ExternalInMessageHeader is the ext_in_msg_info header of a message
// arriving from outside the chain.
type ExternalInMessageHeader struct {
	Src       *Address
	Dest      *Address
	ImportFee Coins
}

// NewExternalInMessageHeader builds an inbound external message header
// cell. Nil addresses are stored as "no address".
func NewExternalInMessageHeader(src, dest *Address, opts ...ExternalInHeaderOption) (*Cell, error) {
	h := &ExternalInMessageHeader{
		Src:  src,
		Dest: dest,
	}
	for _, opt := range opts {
		opt(h)
	}

	b := NewBuilder()
	if err := h.Store(b); err != nil {
		return nil, &MessageError{Part: "external header", Err: err}
	}
	return b.Cell(), nil
}

// Store appends the header to b. Nothing is appended on error.
func (h *ExternalInMessageHeader) Store(b *Builder) error {
	return b.transact(func(w *Builder) error {
		// ext_in_msg_info$10
		if err := w.StoreBits([]Bit{One, Zero}); err != nil {
			return err
		}
		if err := w.StoreAddress(h.Src); err != nil {
			return err
		}
		if err := w.StoreAddress(h.Dest); err != nil {
			return err
		}
		return w.StoreCoins(h.ImportFee)
	})
}

// LoadExternalInMessageHeader decodes an inbound external message header
// from the front of s. Nothing is consumed on error.
func LoadExternalInMessageHeader(s *Slice) (*ExternalInMessageHeader, error) {
	h := &ExternalInMessageHeader{}
	err := s.transact(func(r *Slice) error {
		tag, err := r.LoadUint(ExternalInTagBits)
		if err != nil {
			return err
		}
		if tag != 0b10 {
			return fmt.Errorf("%w: not an external inbound message header", ErrUnsupportedLayout)
		}
		if h.Src, err = r.LoadAddress(); err != nil {
			return err
		}
		if h.Dest, err = r.LoadAddress(); err != nil {
			return err
		}
		h.ImportFee, err = r.LoadCoins()
		return err
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// StateInit holds the code and optional data a contract is deployed with.
type StateInit struct {
	Code *Cell
	Data *Cell
}

// NewStateInit builds a state init cell without split depth, special flags
// or libraries. data may be nil.
func NewStateInit(code, data *Cell) (*Cell, error) {
	b := NewBuilder()
	if err := (&StateInit{Code: code, Data: data}).Store(b); err != nil {
		return nil, &MessageError{Part: "state init", Err: err}
	}
	return b.Cell(), nil
}

// Store appends the state init to b. Nothing is appended on error.
func (si *StateInit) Store(b *Builder) error {
	if si.Code == nil {
		return ErrNilCell
	}
	return b.transact(func(w *Builder) error {
		// No split_depth, not special, code present.
		if err := w.StoreBits([]Bit{Zero, Zero, One}); err != nil {
			return err
		}
		if err := w.StoreRef(si.Code); err != nil {
			return err
		}
		if err := w.StoreMaybeRef(si.Data); err != nil {
			return err
		}
		// No library.
		return w.StoreBit(Zero)
	})
}

// Cell returns the state init as a standalone cell.
func (si *StateInit) Cell() (*Cell, error) {
	return NewStateInit(si.Code, si.Data)
}

// LoadStateInit decodes a state init in the form NewStateInit builds.
// Split depth, special flags, missing code and libraries fail with
// ErrUnsupportedLayout. Nothing is consumed on error.
func LoadStateInit(s *Slice) (*StateInit, error) {
	si := &StateInit{}
	err := s.transact(func(r *Slice) error {
		prefix, err := r.LoadUint(StateInitPrefixBits)
		if err != nil {
			return err
		}
		if prefix != 0b001 {
			return fmt.Errorf("%w: state init prefix %03b", ErrUnsupportedLayout, prefix)
		}
		if si.Code, err = r.LoadRef(); err != nil {
			return err
		}
		if si.Data, err = r.LoadMaybeRef(); err != nil {
			return err
		}
		lib, err := r.LoadBit()
		if err != nil {
			return err
		}
		if lib != Zero {
			return fmt.Errorf("%w: state init libraries", ErrUnsupportedLayout)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return si, nil
}

// NewTextComment builds a message body carrying a plain text comment.
func NewTextComment(text string) (*Cell, error) {
	b := NewBuilder()
	if err := b.StoreUint(TextCommentOp, 32); err != nil {
		return nil, &MessageError{Part: "comment", Err: err}
	}
	if err := b.StoreString(text); err != nil {
		return nil, &MessageError{Part: "comment", Err: err}
	}
	return b.Cell(), nil
}

// NewMessage assembles a message cell from a header cell and optional
// state init and body cells.
func NewMessage(header, init, body *Cell) (*Cell, error) {
	b := NewBuilder()
	if err := StoreMessage(b, header, init, body); err != nil {
		return nil, err
	}
	return b.Cell(), nil
}

// StoreMessage appends a message envelope to b. The header's bits and
// references are copied in directly. The state init and the body are each
// placed inline when they fit in what remains of b, and by reference
// otherwise. Nothing is appended on error.
func StoreMessage(b *Builder, header, init, body *Cell) error {
	if header == nil {
		return &MessageError{Part: "header", Err: ErrNilCell}
	}
	return b.transact(func(w *Builder) error {
		if err := w.StoreSlice(header.Parse()); err != nil {
			return &MessageError{Part: "header", Err: err}
		}
		if err := storeInit(w, init); err != nil {
			return &MessageError{Part: "init", Err: err}
		}
		if err := storeBody(w, body); err != nil {
			return &MessageError{Part: "body", Err: err}
		}
		return nil
	})
}

func storeInit(w *Builder, init *Cell) error {
	if init == nil {
		return w.StoreBit(Zero)
	}
	if err := w.StoreBit(One); err != nil {
		return err
	}
	// The placement bit and the body presence bit must still fit after an
	// inline init.
	if init.BitsLen() <= w.RemainingBits()-2 && init.RefsLen() <= w.RemainingRefs() {
		log.Trace("Placing message init inline", "bits", init.BitsLen(), "refs", init.RefsLen(), "remaining", w.RemainingBits())
		if err := w.StoreBit(Zero); err != nil {
			return err
		}
		return w.StoreSlice(init.Parse())
	}
	log.Trace("Placing message init by reference", "bits", init.BitsLen(), "refs", init.RefsLen(), "remaining", w.RemainingBits())
	if err := w.StoreBit(One); err != nil {
		return err
	}
	return w.StoreRef(init)
}

func storeBody(w *Builder, body *Cell) error {
	if body == nil {
		return w.StoreBit(Zero)
	}
	if body.BitsLen() <= w.RemainingBits()-1 && body.RefsLen() <= w.RemainingRefs() {
		log.Trace("Placing message body inline", "bits", body.BitsLen(), "refs", body.RefsLen(), "remaining", w.RemainingBits())
		if err := w.StoreBit(Zero); err != nil {
			return err
		}
		return w.StoreSlice(body.Parse())
	}
	log.Trace("Placing message body by reference", "bits", body.BitsLen(), "refs", body.RefsLen(), "remaining", w.RemainingBits())
	if err := w.StoreBit(One); err != nil {
		return err
	}
	return w.StoreRef(body)
}

// Message is a decoded message envelope. Exactly one of Internal and
// ExternalIn is set.
type Message struct {
	Internal   *InternalMessageHeader
	ExternalIn *ExternalInMessageHeader
	Init       *StateInit
	Body       *Cell
}

// ParseMessage decodes a message cell built by NewMessage. An inline body
// is returned as a cell holding every remaining bit and reference; an
// empty inline body decodes as nil, the same as an absent one.
func ParseMessage(c *Cell) (*Message, error) {
	if c == nil {
		return nil, &MessageError{Part: "header", Err: ErrNilCell}
	}
	s := c.Parse()
	m := &Message{}

	tag, err := s.PreloadBit()
	if err != nil {
		return nil, &MessageError{Part: "header", Err: err}
	}
	if tag == Zero {
		m.Internal, err = LoadInternalMessageHeader(s)
	} else {
		m.ExternalIn, err = LoadExternalInMessageHeader(s)
	}
	if err != nil {
		return nil, &MessageError{Part: "header", Err: err}
	}

	if m.Init, err = loadInit(s); err != nil {
		return nil, &MessageError{Part: "init", Err: err}
	}
	if m.Body, err = loadBody(s); err != nil {
		return nil, &MessageError{Part: "body", Err: err}
	}
	return m, nil
}

func loadInit(s *Slice) (*StateInit, error) {
	present, err := s.LoadBit()
	if err != nil || present == Zero {
		return nil, err
	}
	byRef, err := s.LoadBit()
	if err != nil {
		return nil, err
	}
	if byRef == Zero {
		return LoadStateInit(s)
	}
	ref, err := s.LoadRef()
	if err != nil {
		return nil, err
	}
	return LoadStateInit(ref.Parse())
}

func loadBody(s *Slice) (*Cell, error) {
	byRef, err := s.LoadBit()
	if err != nil {
		return nil, err
	}
	if byRef == One {
		return s.LoadRef()
	}
	if s.RemainingBits() == 0 && s.RemainingRefs() == 0 {
		return nil, nil
	}
	body := NewCell(s.bits, s.refs, false)
	s.bits, s.refs = s.bits[len(s.bits):], s.refs[len(s.refs):]
	return body, nil
}
