package bitstream

type option struct {
	order       ByteOrder
	orderLocked bool
	// whether Close leaves the underlying stream open, flushing it instead
	leaveOpen bool
	// writer only
	positionLocked bool
	startOffset    int64
}

func applyOpts(options ...OptionFunc) *option {
	opts := &option{
		order: LittleEndian,
	}
	for _, opt := range options {
		opt(opts)
	}
	return opts
}

type OptionFunc func(*option)

func WithByteOrder(order ByteOrder) OptionFunc {
	return func(o *option) {
		o.order = order
	}
}

// OrderLocked makes the byte order immutable after construction.
func OrderLocked() OptionFunc {
	return func(o *option) {
		o.orderLocked = true
	}
}

// LeaveOpen makes Close flush the underlying stream instead of closing it.
func LeaveOpen() OptionFunc {
	return func(o *option) {
		o.leaveOpen = true
	}
}

// PositionLocked prevents external reassignment of a writer's bit cursor.
// Ignored by readers.
func PositionLocked() OptionFunc {
	return func(o *option) {
		o.positionLocked = true
	}
}

// WithStartOffset sets a writer's initial bit cursor. Ignored by readers.
func WithStartOffset(bits int64) OptionFunc {
	return func(o *option) {
		o.startOffset = bits
	}
}
