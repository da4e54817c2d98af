package doc

import (
	"bytes"
	"encoding/base64"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies the variant of a [Value].
type Kind uint8

// Value variants.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBigDecimal
	KindString
	KindBytes
	KindArray
	KindObject
	numKinds
)

var kindStrings = [numKinds]string{
	"null",
	"bool",
	"int",
	"long",
	"float",
	"double",
	"bigdecimal",
	"string",
	"bytes",
	"array",
	"object",
}

// String returns the lowercase variant name.
func (k Kind) String() string {
	if k >= numKinds {
		return "unknown"
	}

	return kindStrings[k]
}

// Value is one node of a document tree. Implementations are the variant
// types in this package and nothing else.
type Value interface {
	// Kind reports the variant.
	Kind() Kind

	// SizeHint returns the exact byte length of the value's canonical JSON
	// stringification. Encoders use it to preallocate output buffers.
	SizeHint() int

	// Equal reports structural equality with another value.
	Equal(other Value) bool
}

// Null is the null variant. The zero value is the only value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) SizeHint() int { return len("null") }
func (Null) Equal(o Value) bool {
	_, ok := o.(Null)
	return ok
}

// Bool is the boolean variant.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

func (v Bool) SizeHint() int {
	if v {
		return len("true")
	}

	return len("false")
}

func (v Bool) Equal(o Value) bool {
	b, ok := o.(Bool)
	return ok && b == v
}

// Int is the 32-bit signed integer variant.
type Int int32

func (Int) Kind() Kind { return KindInt }
func (v Int) SizeHint() int { return decimalLen(int64(v)) }
func (v Int) Text() string { return strconv.FormatInt(int64(v), 10) }
func (v Int) Equal(o Value) bool {
	i, ok := o.(Int)
	return ok && i == v
}

// Long is the 64-bit signed integer variant.
type Long int64

func (Long) Kind() Kind { return KindLong }
func (v Long) SizeHint() int { return decimalLen(int64(v)) }
func (v Long) Text() string { return strconv.FormatInt(int64(v), 10) }
func (v Long) Equal(o Value) bool {
	l, ok := o.(Long)
	return ok && l == v
}

// Float is the 32-bit IEEE-754 variant.
type Float float32

func (Float) Kind() Kind { return KindFloat }
func (v Float) SizeHint() int { return len(v.Text()) }

// Text returns the shortest round-trip decimal form with at least one
// fractional digit.
func (v Float) Text() string { return floatText(float64(v), 32) }

func (v Float) Equal(o Value) bool {
	f, ok := o.(Float)
	return ok && f == v
}

// Double is the 64-bit IEEE-754 variant.
type Double float64

func (Double) Kind() Kind { return KindDouble }
func (v Double) SizeHint() int { return len(v.Text()) }

// Text returns the shortest round-trip decimal form with at least one
// fractional digit.
func (v Double) Text() string { return floatText(float64(v), 64) }

func (v Double) Equal(o Value) bool {
	d, ok := o.(Double)
	return ok && d == v
}

// BigDecimal is the arbitrary-precision decimal variant.
type BigDecimal struct {
	dec decimal.Decimal
}

// NewBigDecimal wraps a [decimal.Decimal].
func NewBigDecimal(d decimal.Decimal) BigDecimal {
	return BigDecimal{dec: d}
}

// ParseBigDecimal parses a decimal literal, including exponent notation.
func ParseBigDecimal(s string) (BigDecimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return BigDecimal{}, err
	}

	return BigDecimal{dec: d}, nil
}

// Decimal returns the underlying [decimal.Decimal].
func (v BigDecimal) Decimal() decimal.Decimal { return v.dec }

func (BigDecimal) Kind() Kind { return KindBigDecimal }
func (v BigDecimal) SizeHint() int { return len(v.Text()) }

func (v BigDecimal) Equal(o Value) bool {
	d, ok := o.(BigDecimal)
	return ok && d.dec.Equal(v.dec)
}

// Text returns the canonical decimal form: exponent notation when the
// stored exponent pushes the value outside plain-notation range, plain
// decimal otherwise. "2e128" renders as "2E+128", "3.14" as "3.14".
func (v BigDecimal) Text() string {
	coeff := v.dec.Coefficient()
	exp := int(v.dec.Exponent())

	neg := coeff.Sign() < 0
	digits := new(big.Int).Abs(coeff).String()
	adjusted := exp + len(digits) - 1

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}

	if exp <= 0 && adjusted >= -6 {
		scale := -exp
		switch {
		case scale == 0:
			sb.WriteString(digits)
		case len(digits) > scale:
			sb.WriteString(digits[:len(digits)-scale])
			sb.WriteByte('.')
			sb.WriteString(digits[len(digits)-scale:])
		default:
			sb.WriteString("0.")
			for range scale - len(digits) {
				sb.WriteByte('0')
			}
			sb.WriteString(digits)
		}

		return sb.String()
	}

	sb.WriteByte(digits[0])
	if len(digits) > 1 {
		sb.WriteByte('.')
		sb.WriteString(digits[1:])
	}

	sb.WriteByte('E')
	if adjusted >= 0 {
		sb.WriteByte('+')
	}
	sb.WriteString(strconv.Itoa(adjusted))

	return sb.String()
}

// String is the UTF-8 text variant.
type String string

func (String) Kind() Kind { return KindString }
func (v String) SizeHint() int { return quotedLen(string(v)) }

func (v String) Equal(o Value) bool {
	s, ok := o.(String)
	return ok && s == v
}

// Bytes is the opaque byte sequence variant. It stringifies as a
// base64-encoded JSON string.
type Bytes []byte

func (Bytes) Kind() Kind { return KindBytes }

func (v Bytes) SizeHint() int {
	return base64.StdEncoding.EncodedLen(len(v)) + 2
}

func (v Bytes) Equal(o Value) bool {
	b, ok := o.(Bytes)
	return ok && bytes.Equal(b, v)
}

// Array is the ordered sequence variant. Equality is position-sensitive.
type Array []Value

func (Array) Kind() Kind { return KindArray }

func (v Array) SizeHint() int {
	if len(v) == 0 {
		return len("[]")
	}

	n := 1 + len(v) // brackets plus len-1 commas
	for _, item := range v {
		n += item.SizeHint()
	}

	return n
}

func (v Array) Equal(o Value) bool {
	a, ok := o.(Array)
	if !ok || len(a) != len(v) {
		return false
	}

	for i, item := range v {
		if !item.Equal(a[i]) {
			return false
		}
	}

	return true
}

// Field is one member of an [Object].
type Field struct {
	Name  string
	Value Value
}

// Object is the mapping variant. Insertion order is preserved and observable
// via [Object.Fields]; equality is order-insensitive. Field names are unique;
// construct objects through [ObjectBuilder] or [NewObject] with distinct
// names.
type Object struct {
	fields []Field
}

// NewObject builds an object from fields, which must have distinct names.
func NewObject(fields ...Field) Object {
	return Object{fields: fields}
}

func (Object) Kind() Kind { return KindObject }

// Len returns the number of fields.
func (v Object) Len() int { return len(v.fields) }

// Fields returns the fields in insertion order. The returned slice is shared
// with the object and must not be modified.
func (v Object) Fields() []Field { return v.fields }

// Get returns the value under name and whether it is present.
func (v Object) Get(name string) (Value, bool) {
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return nil, false
}

func (v Object) SizeHint() int {
	if len(v.fields) == 0 {
		return len("{}")
	}

	n := 1 + len(v.fields) // braces plus len-1 commas
	for _, f := range v.fields {
		n += quotedLen(f.Name) + 1 + f.Value.SizeHint()
	}

	return n
}

func (v Object) Equal(o Value) bool {
	obj, ok := o.(Object)
	if !ok || len(obj.fields) != len(v.fields) {
		return false
	}

	for _, f := range v.fields {
		other, ok := obj.Get(f.Name)
		if !ok || !f.Value.Equal(other) {
			return false
		}
	}

	return true
}

// AsInt64 converts an integer variant to int64.
func AsInt64(v Value) (int64, bool) {
	switch n := v.(type) {
	case Int:
		return int64(n), true
	case Long:
		return int64(n), true
	}

	return 0, false
}

// AsFloat64 converts any numeric variant to float64. BigDecimal conversion
// rounds half-even.
func AsFloat64(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Long:
		return float64(n), true
	case Float:
		return float64(n), true
	case Double:
		return float64(n), true
	case BigDecimal:
		f, _ := n.dec.Float64()
		return f, true
	}

	return 0, false
}

// decimalLen returns the length of the base-10 rendering of n, sign included.
func decimalLen(n int64) int {
	if n == 0 {
		return 1
	}

	l := 0
	if n < 0 {
		l = 1
		if n == -1<<63 {
			return l + 19
		}
		n = -n
	}

	for n > 0 {
		l++
		n /= 10
	}

	return l
}

// floatText renders f in shortest round-trip form, forcing at least one
// fractional digit so integers stay distinguishable from floats.
func floatText(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if strings.IndexByte(s, '.') >= 0 {
		return s
	}

	if e := strings.IndexAny(s, "eE"); e >= 0 {
		return s[:e] + ".0" + s[e:]
	}

	last := s[len(s)-1]
	if last >= '0' && last <= '9' {
		s += ".0"
	}

	return s
}

const hexDigits = "0123456789abcdef"

// quotedLen returns the byte length of s as a quoted JSON string, escapes
// included.
func quotedLen(s string) int {
	n := 2
	for i := 0; i < len(s); i++ {
		n += escapedLen(s[i])
	}

	return n
}

func escapedLen(c byte) int {
	switch c {
	case '"', '\\', '\b', '\f', '\n', '\r', '\t':
		return 2
	}

	if c < 0x20 {
		return 6 // \u00XX
	}

	return 1
}

// AppendQuoted appends s as a quoted JSON string, escaping the quote,
// backslash, and control characters. The output length always matches
// the string's contribution to [Value.SizeHint].
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if c < 0x20 {
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			} else {
				dst = append(dst, c)
			}
		}
	}

	return append(dst, '"')
}
