package schema

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Raw stores are little endian.

// Encode writes v into dst using the type's fixed-width encoding. dst must be
// at least the type's width. The value must already have the column's exact
// Go type: Encode performs no coercion. Byte-string values longer than the
// column width are truncated, shorter values are zero padded.
func (t Type) Encode(dst []byte, v any) error {
	switch t.Kind {
	case KindInt32:
		x, ok := v.(int32)
		if !ok {
			return encodeErr(t, v)
		}
		binary.LittleEndian.PutUint32(dst, uint32(x))
	case KindInt64:
		x, ok := v.(int64)
		if !ok {
			return encodeErr(t, v)
		}
		binary.LittleEndian.PutUint64(dst, uint64(x))
	case KindUint8:
		x, ok := v.(uint8)
		if !ok {
			return encodeErr(t, v)
		}
		dst[0] = x
	case KindUint16:
		x, ok := v.(uint16)
		if !ok {
			return encodeErr(t, v)
		}
		binary.LittleEndian.PutUint16(dst, x)
	case KindUint32:
		x, ok := v.(uint32)
		if !ok {
			return encodeErr(t, v)
		}
		binary.LittleEndian.PutUint32(dst, x)
	case KindUint64:
		x, ok := v.(uint64)
		if !ok {
			return encodeErr(t, v)
		}
		binary.LittleEndian.PutUint64(dst, x)
	case KindFloat32:
		x, ok := v.(float32)
		if !ok {
			return encodeErr(t, v)
		}
		binary.LittleEndian.PutUint32(dst, math.Float32bits(x))
	case KindFloat64:
		x, ok := v.(float64)
		if !ok {
			return encodeErr(t, v)
		}
		binary.LittleEndian.PutUint64(dst, math.Float64bits(x))
	case KindBool:
		x, ok := v.(bool)
		if !ok {
			return encodeErr(t, v)
		}
		if x {
			dst[0] = 1
		} else {
			dst[0] = 0
		}
	case KindBytes:
		var s []byte
		switch x := v.(type) {
		case string:
			s = []byte(x)
		case []byte:
			s = x
		default:
			return encodeErr(t, v)
		}
		if len(s) > t.Width {
			s = s[:t.Width]
		}
		n := copy(dst[:t.Width], s)
		for i := n; i < t.Width; i++ {
			dst[i] = 0
		}
	default:
		return &ErrUnsupportedType{Type: t}
	}
	return nil
}

// Decode reads one value of the type from src. Byte-string columns are
// returned as strings with trailing zero padding stripped.
func (t Type) Decode(src []byte) any {
	switch t.Kind {
	case KindInt32:
		return int32(binary.LittleEndian.Uint32(src))
	case KindInt64:
		return int64(binary.LittleEndian.Uint64(src))
	case KindUint8:
		return src[0]
	case KindUint16:
		return binary.LittleEndian.Uint16(src)
	case KindUint32:
		return binary.LittleEndian.Uint32(src)
	case KindUint64:
		return binary.LittleEndian.Uint64(src)
	case KindFloat32:
		return math.Float32frombits(binary.LittleEndian.Uint32(src))
	case KindFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(src))
	case KindBool:
		return src[0] != 0
	case KindBytes:
		return string(bytes.TrimRight(src[:t.Width], "\x00"))
	default:
		return nil
	}
}

func encodeErr(t Type, v any) error {
	return fmt.Errorf("schema: cannot encode %T as %s", v, t)
}
