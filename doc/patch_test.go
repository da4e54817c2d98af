package doc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.streamy.dev/streamy/doc"
)

func obj(fields ...doc.Field) doc.Value { return doc.NewObject(fields...) }

func TestPatchApply(t *testing.T) {
	t.Parallel()

	base := obj(
		doc.Field{Name: "a", Value: doc.Int(1)},
		doc.Field{Name: "arr", Value: doc.Array{doc.Int(10), doc.Int(20)}},
	)

	tcs := map[string]struct {
		patch   doc.Patch
		want    doc.Value
		wantErr error
	}{
		"add new field": {
			patch: doc.Patch{doc.Add{Path: doc.Root.Field("b"), Value: doc.Int(2)}},
			want: obj(
				doc.Field{Name: "a", Value: doc.Int(1)},
				doc.Field{Name: "arr", Value: doc.Array{doc.Int(10), doc.Int(20)}},
				doc.Field{Name: "b", Value: doc.Int(2)},
			),
		},
		"add overwrites field": {
			patch: doc.Patch{doc.Add{Path: doc.Root.Field("a"), Value: doc.Bool(true)}},
			want: obj(
				doc.Field{Name: "a", Value: doc.Bool(true)},
				doc.Field{Name: "arr", Value: doc.Array{doc.Int(10), doc.Int(20)}},
			),
		},
		"add inserts into array": {
			patch: doc.Patch{doc.Add{Path: doc.Root.Field("arr").At(1), Value: doc.Int(15)}},
			want: obj(
				doc.Field{Name: "a", Value: doc.Int(1)},
				doc.Field{Name: "arr", Value: doc.Array{doc.Int(10), doc.Int(15), doc.Int(20)}},
			),
		},
		"add appends at length": {
			patch: doc.Patch{doc.Add{Path: doc.Root.Field("arr").At(2), Value: doc.Int(30)}},
			want: obj(
				doc.Field{Name: "a", Value: doc.Int(1)},
				doc.Field{Name: "arr", Value: doc.Array{doc.Int(10), doc.Int(20), doc.Int(30)}},
			),
		},
		"add beyond length fails": {
			patch:   doc.Patch{doc.Add{Path: doc.Root.Field("arr").At(5), Value: doc.Int(30)}},
			wantErr: doc.ErrMissing,
		},
		"add through missing parent fails": {
			patch:   doc.Patch{doc.Add{Path: doc.Root.Field("nope").Field("x"), Value: doc.Int(1)}},
			wantErr: doc.ErrMissing,
		},
		"add into scalar fails": {
			patch:   doc.Patch{doc.Add{Path: doc.Root.Field("a").Field("x"), Value: doc.Int(1)}},
			wantErr: doc.ErrTypeMismatch,
		},
		"remove": {
			patch: doc.Patch{doc.Remove{Path: doc.Root.Field("a"), MustExist: true}},
			want: obj(
				doc.Field{Name: "arr", Value: doc.Array{doc.Int(10), doc.Int(20)}},
			),
		},
		"remove array element": {
			patch: doc.Patch{doc.Remove{Path: doc.Root.Field("arr").At(0), MustExist: true}},
			want: obj(
				doc.Field{Name: "a", Value: doc.Int(1)},
				doc.Field{Name: "arr", Value: doc.Array{doc.Int(20)}},
			),
		},
		"remove missing fails when required": {
			patch:   doc.Patch{doc.Remove{Path: doc.Root.Field("ghost"), MustExist: true}},
			wantErr: doc.ErrMissing,
		},
		"remove missing is noop when optional": {
			patch: doc.Patch{doc.Remove{Path: doc.Root.Field("ghost")}},
			want:  base,
		},
		"replace": {
			patch: doc.Patch{doc.Replace{Path: doc.Root.Field("a"), Value: doc.String("new")}},
			want: obj(
				doc.Field{Name: "a", Value: doc.String("new")},
				doc.Field{Name: "arr", Value: doc.Array{doc.Int(10), doc.Int(20)}},
			),
		},
		"replace missing fails": {
			patch:   doc.Patch{doc.Replace{Path: doc.Root.Field("ghost"), Value: doc.Int(0)}},
			wantErr: doc.ErrMissing,
		},
		"copy": {
			patch: doc.Patch{doc.Copy{From: doc.Root.Field("a"), To: doc.Root.Field("b")}},
			want: obj(
				doc.Field{Name: "a", Value: doc.Int(1)},
				doc.Field{Name: "arr", Value: doc.Array{doc.Int(10), doc.Int(20)}},
				doc.Field{Name: "b", Value: doc.Int(1)},
			),
		},
		"move": {
			patch: doc.Patch{doc.Move{From: doc.Root.Field("a"), To: doc.Root.Field("b")}},
			want: obj(
				doc.Field{Name: "arr", Value: doc.Array{doc.Int(10), doc.Int(20)}},
				doc.Field{Name: "b", Value: doc.Int(1)},
			),
		},
		"test pass": {
			patch: doc.Patch{doc.Test{Path: doc.Root.Field("a"), Value: doc.Int(1)}},
			want:  base,
		},
		"test fail": {
			patch:   doc.Patch{doc.Test{Path: doc.Root.Field("a"), Value: doc.Int(2)}},
			wantErr: doc.ErrTestFailed,
		},
		"test cross-variant fails": {
			patch:   doc.Patch{doc.Test{Path: doc.Root.Field("a"), Value: doc.Long(1)}},
			wantErr: doc.ErrTestFailed,
		},
		"bulk": {
			patch: doc.Patch{doc.Bulk{Ops: []doc.Op{
				doc.Add{Path: doc.Root.Field("b"), Value: doc.Int(2)},
				doc.Remove{Path: doc.Root.Field("a"), MustExist: true},
			}}},
			want: obj(
				doc.Field{Name: "arr", Value: doc.Array{doc.Int(10), doc.Int(20)}},
				doc.Field{Name: "b", Value: doc.Int(2)},
			),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.patch.Apply(base)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %#v got %#v", tc.want, got)
		})
	}
}

func TestPatchAtomicity(t *testing.T) {
	t.Parallel()

	base := obj(doc.Field{Name: "a", Value: doc.Int(1)})

	p := doc.Patch{
		doc.Add{Path: doc.Root.Field("b"), Value: doc.Int(2)},
		doc.Replace{Path: doc.Root.Field("missing"), Value: doc.Int(3)},
	}

	got, err := p.Apply(base)
	require.ErrorIs(t, err, doc.ErrMissing)
	assert.Nil(t, got, "an intermediate Add must be discarded on later failure")

	// The input document is untouched.
	want := obj(doc.Field{Name: "a", Value: doc.Int(1)})
	assert.True(t, want.Equal(base))
}

func TestPatchInverse(t *testing.T) {
	t.Parallel()

	base := obj(
		doc.Field{Name: "a", Value: doc.Int(1)},
		doc.Field{Name: "b", Value: doc.String("keep")},
	)

	forward := doc.Patch{
		doc.Add{Path: doc.Root.Field("c"), Value: doc.Int(3)},
		doc.Replace{Path: doc.Root.Field("a"), Value: doc.Int(9)},
	}
	inverse := doc.Patch{
		doc.Replace{Path: doc.Root.Field("a"), Value: doc.Int(1)},
		doc.Remove{Path: doc.Root.Field("c"), MustExist: true},
	}

	patched, err := forward.Apply(base)
	require.NoError(t, err)

	restored, err := inverse.Apply(patched)
	require.NoError(t, err)
	assert.True(t, base.Equal(restored))
}

func TestPatchDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	inner := doc.Array{doc.Int(1)}
	base := obj(doc.Field{Name: "arr", Value: inner})

	_, err := doc.Patch{
		doc.Add{Path: doc.Root.Field("arr").At(0), Value: doc.Int(0)},
	}.Apply(base)
	require.NoError(t, err)

	assert.True(t, doc.Array{doc.Int(1)}.Equal(inner))
}
