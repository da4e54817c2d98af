// Package bind implements binders: named, typed projectors between raw
// scalars and document fields.
//
// A binder works in two directions with symmetric contracts. Forward,
// [Binder.Bind] converts a raw scalar (bool, int32, int64, float32,
// float64, string, or []byte) according to the binder's type and writes it
// under the binder's key into an object builder, reporting false with no
// side effects when the conversion fails. Reverse, [Binder.BindOut] looks
// the key up at the top level of a document, and when present with the
// matching variant fires the caller's pre hook (typically a separator) and
// appends the canonical textual form to the output buffer.
//
// Parsers combine binders with [go.streamy.dev/streamy/parse.Capture] to
// project captured slices directly into a builder; printers drive the
// reverse contract to produce wire bytes.
package bind

import (
	"bytes"
	"math"
	"strconv"

	"golang.org/x/text/encoding"

	"go.streamy.dev/streamy/doc"
)

// Binder is a named typed projector between raw scalars and a document
// field.
type Binder interface {
	// Key returns the field name the binder reads and writes.
	Key() string

	// Bind converts raw and writes it under the binder's key into b.
	// It returns false without side effects when raw cannot be converted.
	Bind(b *doc.ObjectBuilder, raw any) bool

	// BindOut evaluates the binder's key at the top level of v. When
	// present and type-matched it fires pre, appends the canonical text
	// form to out, and returns true. Otherwise it returns false and pre
	// is never fired.
	BindOut(out *bytes.Buffer, v doc.Value, pre func()) bool
}

// None is the inert binder: it has no key, always rejects, and is used as
// a sentinel to capture-and-discard optional groups.
var None Binder = noneBinder{}

type noneBinder struct{}

func (noneBinder) Key() string { return "" }
func (noneBinder) Bind(*doc.ObjectBuilder, any) bool { return false }
func (noneBinder) BindOut(*bytes.Buffer, doc.Value, func()) bool { return false }

// NewString returns a binder projecting UTF-8 text under key.
func NewString(key string) Binder {
	return stringBinder{key: key}
}

// NewStringCharset returns a string binder that decodes raw bytes with enc
// on the way in and encodes field text with enc on the way out. A nil enc
// behaves like [NewString].
func NewStringCharset(key string, enc encoding.Encoding) Binder {
	return stringBinder{key: key, enc: enc}
}

type stringBinder struct {
	key string
	enc encoding.Encoding
}

func (b stringBinder) Key() string { return b.key }

func (b stringBinder) Bind(ob *doc.ObjectBuilder, raw any) bool {
	switch r := raw.(type) {
	case string:
		ob.Put(b.key, doc.String(r))
	case []byte:
		s, ok := b.decode(r)
		if !ok {
			return false
		}

		ob.Put(b.key, doc.String(s))
	case bool:
		ob.Put(b.key, doc.String(strconv.FormatBool(r)))
	case int32:
		ob.Put(b.key, doc.String(strconv.FormatInt(int64(r), 10)))
	case int64:
		ob.Put(b.key, doc.String(strconv.FormatInt(r, 10)))
	case float32:
		ob.Put(b.key, doc.String(doc.Float(r).Text()))
	case float64:
		ob.Put(b.key, doc.String(doc.Double(r).Text()))
	default:
		return false
	}

	return true
}

func (b stringBinder) BindOut(out *bytes.Buffer, v doc.Value, pre func()) bool {
	field, ok := topLevel(v, b.key)
	if !ok {
		return false
	}

	s, ok := field.(doc.String)
	if !ok {
		return false
	}

	text := string(s)

	if b.enc != nil {
		encoded, err := b.enc.NewEncoder().String(text)
		if err != nil {
			return false
		}

		text = encoded
	}

	pre()
	out.WriteString(text)

	return true
}

func (b stringBinder) decode(raw []byte) (string, bool) {
	if b.enc == nil {
		return string(raw), true
	}

	s, err := b.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}

	return string(s), true
}

// NewBytes returns a binder projecting opaque byte sequences under key.
// Strings bind as their UTF-8 bytes.
func NewBytes(key string) Binder {
	return bytesBinder{key: key}
}

type bytesBinder struct {
	key string
}

func (b bytesBinder) Key() string { return b.key }

func (b bytesBinder) Bind(ob *doc.ObjectBuilder, raw any) bool {
	switch r := raw.(type) {
	case []byte:
		ob.Put(b.key, doc.Bytes(append([]byte(nil), r...)))
	case string:
		ob.Put(b.key, doc.Bytes(r))
	default:
		return false
	}

	return true
}

func (b bytesBinder) BindOut(out *bytes.Buffer, v doc.Value, pre func()) bool {
	field, ok := topLevel(v, b.key)
	if !ok {
		return false
	}

	raw, ok := field.(doc.Bytes)
	if !ok {
		return false
	}

	pre()
	out.Write(raw)

	return true
}

// NewInt returns a binder projecting 32-bit integers under key. Strings and
// byte slices parse as decimal ASCII; booleans map to 1 and 0; wider or
// fractional numerics must fit after truncation toward zero.
func NewInt(key string) Binder {
	return intBinder{key: key}
}

type intBinder struct {
	key string
}

func (b intBinder) Key() string { return b.key }

func (b intBinder) Bind(ob *doc.ObjectBuilder, raw any) bool {
	n, ok := coerceInt64(raw)
	if !ok || n < math.MinInt32 || n > math.MaxInt32 {
		return false
	}

	ob.Put(b.key, doc.Int(int32(n)))

	return true
}

func (b intBinder) BindOut(out *bytes.Buffer, v doc.Value, pre func()) bool {
	field, ok := topLevel(v, b.key)
	if !ok {
		return false
	}

	n, ok := field.(doc.Int)
	if !ok {
		return false
	}

	pre()
	out.WriteString(n.Text())

	return true
}

// NewLong returns a binder projecting 64-bit integers under key, with the
// same coercions as [NewInt].
func NewLong(key string) Binder {
	return longBinder{key: key}
}

type longBinder struct {
	key string
}

func (b longBinder) Key() string { return b.key }

func (b longBinder) Bind(ob *doc.ObjectBuilder, raw any) bool {
	n, ok := coerceInt64(raw)
	if !ok {
		return false
	}

	ob.Put(b.key, doc.Long(n))

	return true
}

func (b longBinder) BindOut(out *bytes.Buffer, v doc.Value, pre func()) bool {
	field, ok := topLevel(v, b.key)
	if !ok {
		return false
	}

	n, ok := field.(doc.Long)
	if !ok {
		return false
	}

	pre()
	out.WriteString(n.Text())

	return true
}

// NewFloat returns a binder projecting 32-bit floats under key.
func NewFloat(key string) Binder {
	return floatBinder{key: key}
}

type floatBinder struct {
	key string
}

func (b floatBinder) Key() string { return b.key }

func (b floatBinder) Bind(ob *doc.ObjectBuilder, raw any) bool {
	f, ok := coerceFloat64(raw, 32)
	if !ok {
		return false
	}

	ob.Put(b.key, doc.Float(float32(f)))

	return true
}

func (b floatBinder) BindOut(out *bytes.Buffer, v doc.Value, pre func()) bool {
	field, ok := topLevel(v, b.key)
	if !ok {
		return false
	}

	f, ok := field.(doc.Float)
	if !ok {
		return false
	}

	pre()
	out.WriteString(f.Text())

	return true
}

// NewDouble returns a binder projecting 64-bit floats under key.
func NewDouble(key string) Binder {
	return doubleBinder{key: key}
}

type doubleBinder struct {
	key string
}

func (b doubleBinder) Key() string { return b.key }

func (b doubleBinder) Bind(ob *doc.ObjectBuilder, raw any) bool {
	f, ok := coerceFloat64(raw, 64)
	if !ok {
		return false
	}

	ob.Put(b.key, doc.Double(f))

	return true
}

func (b doubleBinder) BindOut(out *bytes.Buffer, v doc.Value, pre func()) bool {
	field, ok := topLevel(v, b.key)
	if !ok {
		return false
	}

	f, ok := field.(doc.Double)
	if !ok {
		return false
	}

	pre()
	out.WriteString(f.Text())

	return true
}

func topLevel(v doc.Value, key string) (doc.Value, bool) {
	obj, ok := v.(doc.Object)
	if !ok {
		return nil, false
	}

	return obj.Get(key)
}

func coerceInt64(raw any) (int64, bool) {
	switch r := raw.(type) {
	case bool:
		if r {
			return 1, true
		}

		return 0, true
	case int32:
		return int64(r), true
	case int64:
		return r, true
	case float32:
		return floatToInt64(float64(r))
	case float64:
		return floatToInt64(r)
	case string:
		return parseInt64(r)
	case []byte:
		return parseInt64(string(r))
	}

	return 0, false
}

func parseInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	return int64(f), true
}

func coerceFloat64(raw any, bits int) (float64, bool) {
	switch r := raw.(type) {
	case bool:
		if r {
			return 1, true
		}

		return 0, true
	case int32:
		return float64(r), true
	case int64:
		return float64(r), true
	case float32:
		return float64(r), true
	case float64:
		if bits == 32 && !fitsFloat32(r) {
			return 0, false
		}

		return r, true
	case string:
		return parseFloat(r, bits)
	case []byte:
		return parseFloat(string(r), bits)
	}

	return 0, false
}

func parseFloat(s string, bits int) (float64, bool) {
	f, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, false
	}

	return f, true
}

func fitsFloat32(f float64) bool {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return true
	}

	abs := math.Abs(f)

	return abs == 0 || (abs >= math.SmallestNonzeroFloat32 && abs <= math.MaxFloat32)
}
