package layout

import (
	"bytes"
	"fmt"
	"os"

	xdr "github.com/nullstyle/go-xdr/xdr3"
)

// Meta is the sidecar metadata persisted next to a packed data file. It
// carries enough to unpack the file without the original layout description.
type Meta struct {
	Layout  Layout
	Records uint64
}

// MetaFilename returns the sidecar path for a packed data file.
func MetaFilename(datafile string) string {
	return datafile + ".meta"
}

// SaveMeta serializes meta and writes it next to datafile.
func SaveMeta(datafile string, meta *Meta) error {
	var w bytes.Buffer
	if _, err := xdr.Marshal(&w, meta); err != nil {
		return fmt.Errorf("serialization failure: %w", err)
	}

	if err := os.WriteFile(MetaFilename(datafile), w.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write to disk failure: %w", err)
	}
	return nil
}

// LoadMeta reads and validates the sidecar metadata of datafile.
func LoadMeta(datafile string) (*Meta, error) {
	data, err := os.ReadFile(MetaFilename(datafile))
	if err != nil {
		return nil, fmt.Errorf("read file failure: %w", err)
	}

	meta := new(Meta)
	if _, err := xdr.Unmarshal(bytes.NewReader(data), meta); err != nil {
		return nil, err
	}
	if err := meta.Layout.Validate(); err != nil {
		return nil, err
	}
	return meta, nil
}
