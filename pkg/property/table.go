package property

import (
	"fmt"
	"slices"
)

// Table is an immutable set of property descriptors for one backend or
// model class. It is shared by all devices using it.
type Table struct {
	name   string
	rows   []Descriptor
	byID   map[uint32]int
	byType map[Type]int
}

// NewTable builds a table. Backend ids must be unique, as must neutral
// types other than TypeUnknown. Rows without a codec use RawCodec.
func NewTable(name string, rows ...Descriptor) (*Table, error) {
	t := &Table{
		name:   name,
		rows:   slices.Clone(rows),
		byID:   make(map[uint32]int, len(rows)),
		byType: make(map[Type]int, len(rows)),
	}

	for i, row := range t.rows {
		if row.Codec.Decode == nil {
			t.rows[i].Codec.Decode = RawCodec.Decode
		}
		if row.Codec.Encode == nil {
			t.rows[i].Codec.Encode = RawCodec.Encode
		}

		if _, dup := t.byID[row.ID]; dup {
			return nil, fmt.Errorf("%w: %s: backend id 0x%04x", ErrDuplicateProperty, name, row.ID)
		}
		t.byID[row.ID] = i

		if row.Type == TypeUnknown {
			continue
		}
		if _, dup := t.byType[row.Type]; dup {
			return nil, fmt.Errorf("%w: %s: type %s", ErrDuplicateProperty, name, row.Type)
		}
		t.byType[row.Type] = i
	}

	return t, nil
}

// MustTable is like NewTable but panics on error. For tables declared
// as package variables.
func MustTable(name string, rows ...Descriptor) *Table {
	t, err := NewTable(name, rows...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the backend name of the table.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Lookup returns the descriptor for a backend id.
func (t *Table) Lookup(id uint32) (Descriptor, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return t.rows[i], true
}

// ByType returns the descriptor for a neutral type.
func (t *Table) ByType(typ Type) (Descriptor, bool) {
	i, ok := t.byType[typ]
	if !ok {
		return Descriptor{}, false
	}
	return t.rows[i], true
}

// Rows returns a copy of all rows in registration order.
func (t *Table) Rows() []Descriptor {
	return slices.Clone(t.rows)
}
