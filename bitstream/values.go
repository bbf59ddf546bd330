package bitstream

import (
	"math"
)

// Value enumerates the fixed-layout types with a declared wire size. Host
// struct layout is never consulted; every type serializes through its
// unsigned bit pattern.
type Value interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 |
		int64 | uint64 | float32 | float64
}

// WriteValue writes v at its natural bit size in the writer's byte order.
func WriteValue[T Value](w *Writer, v T) error {
	return WriteValueBits(w, v, BitSizeOf[T]())
}

// WriteValueBits writes the numBits least significant bits of v's bit
// pattern in the writer's byte order. Integers may be narrowed to any width
// in [1, natural size]; floating-point values require their exact size.
func WriteValueBits[T Value](w *Writer, v T, numBits uint) error {
	u, err := checkedPattern(v, numBits)
	if err != nil {
		return err
	}
	return w.WriteUint64(u, numBits)
}

// ReadValue reads a value of T's natural bit size in the reader's byte
// order.
func ReadValue[T Value](r *Reader) (T, error) {
	return ReadValueBits[T](r, BitSizeOf[T]())
}

// ReadValueBits reads numBits bits in the reader's byte order and
// reinterprets them as a T. Narrowed signed integers are sign-extended from
// bit numBits-1, so any in-range value round-trips exactly.
func ReadValueBits[T Value](r *Reader, numBits uint) (T, error) {
	var zero T
	size := BitSizeOf[T]()
	if err := checkBits[T](numBits, size); err != nil {
		return zero, err
	}

	u, err := r.ReadUint64(numBits)
	if err != nil {
		return zero, err
	}

	switch any(zero).(type) {
	case int8, int16, int32, int64:
		if numBits < 64 && u&(1<<(numBits-1)) != 0 {
			u |= ^uint64(0) << numBits
		}
	}
	return fromPattern[T](u), nil
}

// BitSizeOf returns the natural wire size of T in bits.
func BitSizeOf[T Value]() uint {
	var zero T
	switch any(zero).(type) {
	case int8, uint8:
		return 8
	case int16, uint16:
		return 16
	case int32, uint32, float32:
		return 32
	default:
		return 64
	}
}

func checkBits[T Value](numBits, size uint) error {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		// A truncated float pattern is meaningless.
		if numBits != size {
			return &RangeError{Op: "float value", NumBits: numBits, Max: size}
		}
	default:
		if numBits == 0 || numBits > size {
			return &RangeError{Op: "value", NumBits: numBits, Max: size}
		}
	}
	return nil
}

func checkedPattern[T Value](v T, numBits uint) (uint64, error) {
	if err := checkBits[T](numBits, BitSizeOf[T]()); err != nil {
		return 0, err
	}
	switch x := any(v).(type) {
	case int8:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case int16:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case int32:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case int64:
		return uint64(x), nil
	case uint64:
		return x, nil
	case float32:
		return uint64(math.Float32bits(x)), nil
	case float64:
		return math.Float64bits(x), nil
	default:
		return 0, &RangeError{Op: "value", NumBits: numBits, Max: 64}
	}
}

func fromPattern[T Value](u uint64) T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return any(int8(u)).(T)
	case uint8:
		return any(uint8(u)).(T)
	case int16:
		return any(int16(u)).(T)
	case uint16:
		return any(uint16(u)).(T)
	case int32:
		return any(int32(u)).(T)
	case uint32:
		return any(uint32(u)).(T)
	case int64:
		return any(int64(u)).(T)
	case uint64:
		return any(u).(T)
	case float32:
		return any(math.Float32frombits(uint32(u))).(T)
	default:
		return any(math.Float64frombits(u)).(T)
	}
}
