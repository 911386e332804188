package schema

import (
	"errors"
	"fmt"
)

// Kind identifies the primitive encoding of a column.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindBytes
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

func kindFromString(s string) (Kind, bool) {
	for k := KindInt32; k <= KindBytes; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KindInvalid, false
}

// Type is the logical type of a column. Width is the byte capacity for
// KindBytes and ignored for all other kinds.
type Type struct {
	Kind  Kind
	Width int
}

func (t Type) String() string {
	if t.Kind == KindBytes {
		return fmt.Sprintf("bytes(%d)", t.Width)
	}
	return t.Kind.String()
}

// Convenience constructors for the supported logical types.
func Int32() Type   { return Type{Kind: KindInt32} }
func Int64() Type   { return Type{Kind: KindInt64} }
func Uint8() Type   { return Type{Kind: KindUint8} }
func Uint16() Type  { return Type{Kind: KindUint16} }
func Uint32() Type  { return Type{Kind: KindUint32} }
func Uint64() Type  { return Type{Kind: KindUint64} }
func Float32() Type { return Type{Kind: KindFloat32} }
func Float64() Type { return Type{Kind: KindFloat64} }
func Bool() Type    { return Type{Kind: KindBool} }

// FixedBytes is a zero-padded byte string with a fixed capacity of width bytes.
func FixedBytes(width int) Type { return Type{Kind: KindBytes, Width: width} }

// ErrUnsupportedType indicates a logical type with no fixed-width encoding.
type ErrUnsupportedType struct {
	Type Type
}

func (e *ErrUnsupportedType) Error() string {
	return fmt.Sprintf("schema: no fixed-width encoding for type %s", e.Type)
}

// Size returns the encoded byte width of the type.
func (t Type) Size() (int, error) {
	switch t.Kind {
	case KindUint8, KindBool:
		return 1, nil
	case KindUint16:
		return 2, nil
	case KindInt32, KindUint32, KindFloat32:
		return 4, nil
	case KindInt64, KindUint64, KindFloat64:
		return 8, nil
	case KindBytes:
		if t.Width < 1 {
			return 0, &ErrUnsupportedType{Type: t}
		}
		return t.Width, nil
	default:
		return 0, &ErrUnsupportedType{Type: t}
	}
}

// Column is a named, typed, fixed-width field present in every row.
// Offset and Width are derived; callers only set Name and Type.
type Column struct {
	Name   string
	Type   Type
	Offset int
	Width  int
}

// Descriptor is the byte-level layout of a store: column order, per-column
// offsets and widths, the total row width and the allocated row count.
//
// A descriptor is immutable after derivation except for RowCount, which may
// only increase while the store grows.
type Descriptor struct {
	Columns  []Column
	RowWidth int
	RowCount int64
}

// Derive computes the packed row layout for the given columns. Column order
// is preserved; offsets are assigned by summing the preceding widths. It
// fails before any file is touched if a type has no fixed-width encoding,
// a name is empty or a name repeats.
func Derive(cols []Column) (*Descriptor, error) {
	if len(cols) == 0 {
		return nil, errors.New("schema: at least one column is required")
	}

	seen := make(map[string]struct{}, len(cols))
	d := &Descriptor{Columns: make([]Column, len(cols))}

	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("schema: column %d has no name", i)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate column %q", c.Name)
		}
		seen[c.Name] = struct{}{}

		w, err := c.Type.Size()
		if err != nil {
			return nil, err
		}
		c.Offset = d.RowWidth
		c.Width = w
		d.Columns[i] = c
		d.RowWidth += w
	}

	return d, nil
}

// Column returns the column with the given name.
func (d *Descriptor) Column(name string) (Column, bool) {
	i := d.Index(name)
	if i < 0 {
		return Column{}, false
	}
	return d.Columns[i], true
}

// Index returns the position of the named column, or -1.
func (d *Descriptor) Index(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the column names in declared order.
func (d *Descriptor) Names() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}
