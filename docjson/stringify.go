package docjson

import (
	"encoding/base64"

	"go.streamy.dev/streamy/doc"
)

// Stringify renders v as canonical JSON bytes. The output buffer is
// preallocated from the value's size hint, so encoding never reallocates.
func Stringify(v doc.Value) []byte {
	return AppendValue(make([]byte, 0, v.SizeHint()), v)
}

// AppendValue appends the canonical JSON form of v to dst.
func AppendValue(dst []byte, v doc.Value) []byte {
	switch t := v.(type) {
	case doc.Null:
		return append(dst, "null"...)
	case doc.Bool:
		if t {
			return append(dst, "true"...)
		}

		return append(dst, "false"...)
	case doc.Int:
		return append(dst, t.Text()...)
	case doc.Long:
		return append(dst, t.Text()...)
	case doc.Float:
		return append(dst, t.Text()...)
	case doc.Double:
		return append(dst, t.Text()...)
	case doc.BigDecimal:
		return append(dst, t.Text()...)
	case doc.String:
		return doc.AppendQuoted(dst, string(t))
	case doc.Bytes:
		return appendBase64(dst, t)
	case doc.Array:
		return appendArray(dst, t)
	case doc.Object:
		return appendObject(dst, t)
	}

	return append(dst, "null"...)
}

func appendBase64(dst []byte, b doc.Bytes) []byte {
	dst = append(dst, '"')

	n := base64.StdEncoding.EncodedLen(len(b))
	off := len(dst)
	dst = append(dst, make([]byte, n)...)
	base64.StdEncoding.Encode(dst[off:], b)

	return append(dst, '"')
}

func appendArray(dst []byte, arr doc.Array) []byte {
	dst = append(dst, '[')

	for i, item := range arr {
		if i > 0 {
			dst = append(dst, ',')
		}

		dst = AppendValue(dst, item)
	}

	return append(dst, ']')
}

func appendObject(dst []byte, obj doc.Object) []byte {
	dst = append(dst, '{')

	for i, f := range obj.Fields() {
		if i > 0 {
			dst = append(dst, ',')
		}

		dst = doc.AppendQuoted(dst, f.Name)
		dst = append(dst, ':')
		dst = AppendValue(dst, f.Value)
	}

	return append(dst, '}')
}
