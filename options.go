package tvmcell

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithCapacity sets the Builder's bit capacity.
// Values above MaxCellBits are clamped to MaxCellBits, negative values to 0.
func WithCapacity(bits int) BuilderOption {
	return func(b *Builder) {
		switch {
		case bits > MaxCellBits:
			bits = MaxCellBits
		case bits < 0:
			bits = 0
		}
		b.capacity = bits
	}
}

// InternalHeaderOption configures an internal message header.
type InternalHeaderOption func(*InternalMessageHeader)

// WithIHRDisabled sets the ihr_disabled flag. Default is true.
func WithIHRDisabled(disabled bool) InternalHeaderOption {
	return func(h *InternalMessageHeader) {
		h.IHRDisabled = disabled
	}
}

// WithBounce sets the bounce flag. Default is false.
func WithBounce(bounce bool) InternalHeaderOption {
	return func(h *InternalMessageHeader) {
		h.Bounce = bounce
	}
}

// WithBounced sets the bounced flag. Default is false.
func WithBounced(bounced bool) InternalHeaderOption {
	return func(h *InternalMessageHeader) {
		h.Bounced = bounced
	}
}

// WithIHRFee sets the instant hypercube routing fee. Default is zero.
func WithIHRFee(fee Coins) InternalHeaderOption {
	return func(h *InternalMessageHeader) {
		h.IHRFee = fee
	}
}

// WithFwdFee sets the forwarding fee. Default is zero.
func WithFwdFee(fee Coins) InternalHeaderOption {
	return func(h *InternalMessageHeader) {
		h.FwdFee = fee
	}
}

// WithCreatedLt sets the creation logical time. Default is 0.
func WithCreatedLt(lt uint64) InternalHeaderOption {
	return func(h *InternalMessageHeader) {
		h.CreatedLt = lt
	}
}

// WithCreatedAt sets the creation unix time. Default is 0.
func WithCreatedAt(at uint32) InternalHeaderOption {
	return func(h *InternalMessageHeader) {
		h.CreatedAt = at
	}
}

// ExternalInHeaderOption configures an inbound external message header.
type ExternalInHeaderOption func(*ExternalInMessageHeader)

// WithImportFee sets the import fee. Default is zero.
func WithImportFee(fee Coins) ExternalInHeaderOption {
	return func(h *ExternalInMessageHeader) {
		h.ImportFee = fee
	}
}
