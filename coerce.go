package rawstore

import (
	"github.com/spf13/cast"

	"github.com/hupe1980/rawstore/schema"
)

// coerceRow converts every value to its column's declared type, collecting
// every failing column instead of stopping at the first.
func coerceRow(d *schema.Descriptor, row Row) (Row, error) {
	out := make(Row, len(row))
	var failed []ColumnError

	for i, c := range d.Columns {
		v, err := coerceValue(c.Type, row[i])
		if err != nil {
			failed = append(failed, ColumnError{Name: c.Name, Value: row[i], Err: err})
			continue
		}
		out[i] = v
	}

	if len(failed) > 0 {
		return nil, &ErrTypeMismatch{Columns: failed}
	}
	return out, nil
}

// coerceValue is the explicit fallible conversion for one column type.
func coerceValue(t schema.Type, v any) (any, error) {
	switch t.Kind {
	case schema.KindInt32:
		return cast.ToInt32E(v)
	case schema.KindInt64:
		return cast.ToInt64E(v)
	case schema.KindUint8:
		return cast.ToUint8E(v)
	case schema.KindUint16:
		return cast.ToUint16E(v)
	case schema.KindUint32:
		return cast.ToUint32E(v)
	case schema.KindUint64:
		return cast.ToUint64E(v)
	case schema.KindFloat32:
		return cast.ToFloat32E(v)
	case schema.KindFloat64:
		return cast.ToFloat64E(v)
	case schema.KindBool:
		return cast.ToBoolE(v)
	case schema.KindBytes:
		if b, ok := v.([]byte); ok {
			return string(b), nil
		}
		return cast.ToStringE(v)
	default:
		return nil, &schema.ErrUnsupportedType{Type: t}
	}
}
