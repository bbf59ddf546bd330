// Package layout packs and unpacks sequences of named unsigned fields of
// declared bit widths through the bitstream engine. It is a generic
// consumer of the engine, not a protocol message format.
package layout

import (
	"fmt"

	"github.com/spacemeshos/bitpack/bitstream"
)

const (
	MinFieldBits = 1
	MaxFieldBits = 64
)

type Field struct {
	Name string `mapstructure:"name"`
	Bits uint32 `mapstructure:"bits"`
}

type Layout struct {
	// "little" or "big"; empty defaults to "little"
	ByteOrder string  `mapstructure:"byteorder"`
	Fields    []Field `mapstructure:"fields"`
}

func (l *Layout) Validate() error {
	if len(l.Fields) == 0 {
		return fmt.Errorf("invalid `Fields`; expected: at least one field, given: none")
	}
	if _, err := bitstream.ParseByteOrder(l.ByteOrder); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(l.Fields))
	for i, f := range l.Fields {
		if f.Name == "" {
			return fmt.Errorf("invalid `Name` of field %d; expected: non-empty, given: empty", i)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("invalid `Name` of field %d; expected: unique, given: duplicate %q", i, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Bits < MinFieldBits || f.Bits > MaxFieldBits {
			return fmt.Errorf("invalid `Bits` of field %q; expected: in range [%d, %d], given: %d",
				f.Name, MinFieldBits, MaxFieldBits, f.Bits)
		}
	}
	return nil
}

// Order returns the layout byte order.
func (l *Layout) Order() (bitstream.ByteOrder, error) {
	return bitstream.ParseByteOrder(l.ByteOrder)
}

// TotalBits returns the number of bits one record occupies.
func (l *Layout) TotalBits() uint {
	var total uint
	for _, f := range l.Fields {
		total += uint(f.Bits)
	}
	return total
}

// Pack writes one record of field values through w, in field order.
func (l *Layout) Pack(w *bitstream.Writer, values []uint64) error {
	if len(values) != len(l.Fields) {
		return fmt.Errorf("invalid number of values; expected: %d, given: %d", len(l.Fields), len(values))
	}
	for i, f := range l.Fields {
		if f.Bits < 64 && values[i] >= uint64(1)<<f.Bits {
			return fmt.Errorf("invalid value for field %q; expected: < %d, given: %d",
				f.Name, uint64(1)<<f.Bits, values[i])
		}
		if err := w.WriteUint64(values[i], uint(f.Bits)); err != nil {
			return fmt.Errorf("failed to pack field %q: %w", f.Name, err)
		}
	}
	return nil
}

// Unpack reads one record of field values through r, in field order.
func (l *Layout) Unpack(r *bitstream.Reader) ([]uint64, error) {
	values := make([]uint64, len(l.Fields))
	for i, f := range l.Fields {
		v, err := r.ReadUint64(uint(f.Bits))
		if err != nil {
			return nil, fmt.Errorf("failed to unpack field %q: %w", f.Name, err)
		}
		values[i] = v
	}
	return values, nil
}
