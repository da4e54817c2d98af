package doc_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.streamy.dev/streamy/doc"
)

func bd(t *testing.T, s string) doc.BigDecimal {
	t.Helper()

	d, err := doc.ParseBigDecimal(s)
	require.NoError(t, err)

	return d
}

func TestEquality(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		a    doc.Value
		b    doc.Value
		want bool
	}{
		"null equals null": {
			a:    doc.Null{},
			b:    doc.Null{},
			want: true,
		},
		"null not bool": {
			a:    doc.Null{},
			b:    doc.Bool(false),
			want: false,
		},
		"int not long": {
			a:    doc.Int(1),
			b:    doc.Long(1),
			want: false,
		},
		"float not double": {
			a:    doc.Float(1.5),
			b:    doc.Double(1.5),
			want: false,
		},
		"same long": {
			a:    doc.Long(42),
			b:    doc.Long(42),
			want: true,
		},
		"string vs bytes": {
			a:    doc.String("abc"),
			b:    doc.Bytes("abc"),
			want: false,
		},
		"bytes equal": {
			a:    doc.Bytes{1, 2, 3},
			b:    doc.Bytes{1, 2, 3},
			want: true,
		},
		"array order sensitive": {
			a:    doc.Array{doc.Int(1), doc.Int(2)},
			b:    doc.Array{doc.Int(2), doc.Int(1)},
			want: false,
		},
		"object order insensitive": {
			a: doc.NewObject(
				doc.Field{Name: "a", Value: doc.Int(1)},
				doc.Field{Name: "b", Value: doc.Int(2)},
			),
			b: doc.NewObject(
				doc.Field{Name: "b", Value: doc.Int(2)},
				doc.Field{Name: "a", Value: doc.Int(1)},
			),
			want: true,
		},
		"object extra key": {
			a: doc.NewObject(doc.Field{Name: "a", Value: doc.Int(1)}),
			b: doc.NewObject(
				doc.Field{Name: "a", Value: doc.Int(1)},
				doc.Field{Name: "b", Value: doc.Int(2)},
			),
			want: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.a.Equal(tc.b))
			assert.Equal(t, tc.want, tc.b.Equal(tc.a))
		})
	}
}

func TestBigDecimalText(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   string
		want string
	}{
		"large positive exponent": {in: "2e128", want: "2E+128"},
		"plain fraction":          {in: "3.14", want: "3.14"},
		"plain integer":           {in: "42", want: "42"},
		"negative":                {in: "-1.5", want: "-1.5"},
		"small fraction":          {in: "0.001", want: "0.001"},
		"tiny goes scientific":    {in: "1e-10", want: "1E-10"},
		"mantissa with fraction":  {in: "1.25e30", want: "1.25E+30"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, bd(t, tc.in).Text())
		})
	}
}

func TestFloatText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.0", doc.Double(1).Text())
	assert.Equal(t, "1.5", doc.Double(1.5).Text())
	assert.Equal(t, "-2.0", doc.Float(-2).Text())
	assert.Equal(t, "0.0", doc.Double(0).Text())
}

func TestAsFloat64HalfEven(t *testing.T) {
	t.Parallel()

	d := doc.NewBigDecimal(decimal.RequireFromString("0.1"))

	f, ok := doc.AsFloat64(d)
	require.True(t, ok)
	assert.InDelta(t, 0.1, f, 0)
}

func TestAsInt64(t *testing.T) {
	t.Parallel()

	n, ok := doc.AsInt64(doc.Int(7))
	require.True(t, ok)
	assert.Equal(t, int64(7), n)

	n, ok = doc.AsInt64(doc.Long(-9))
	require.True(t, ok)
	assert.Equal(t, int64(-9), n)

	_, ok = doc.AsInt64(doc.Double(7))
	assert.False(t, ok)
}
