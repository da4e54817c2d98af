package doc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.streamy.dev/streamy/doc"
)

func TestMergeShallow(t *testing.T) {
	t.Parallel()

	a := obj(
		doc.Field{Name: "x", Value: obj(doc.Field{Name: "a", Value: doc.Int(1)})},
		doc.Field{Name: "y", Value: doc.Int(2)},
	)
	b := obj(
		doc.Field{Name: "x", Value: obj(doc.Field{Name: "b", Value: doc.Int(3)})},
	)

	got := doc.Merge(a, b)

	// Shallow: b's "x" replaces a's entirely.
	want := obj(
		doc.Field{Name: "x", Value: obj(doc.Field{Name: "b", Value: doc.Int(3)})},
		doc.Field{Name: "y", Value: doc.Int(2)},
	)
	assert.True(t, want.Equal(got))
}

func TestMergeNonObjects(t *testing.T) {
	t.Parallel()

	assert.True(t, doc.Int(2).Equal(doc.Merge(doc.Int(1), doc.Int(2))))
	assert.True(t, doc.Int(2).Equal(doc.Merge(obj(), doc.Int(2))))
}

func TestDeepMergePrecedence(t *testing.T) {
	t.Parallel()

	a := obj(doc.Field{Name: "x", Value: obj(
		doc.Field{Name: "a", Value: doc.Int(1)},
		doc.Field{Name: "b", Value: doc.Int(2)},
	)})
	b := obj(doc.Field{Name: "x", Value: obj(
		doc.Field{Name: "b", Value: doc.Int(3)},
		doc.Field{Name: "c", Value: doc.Int(4)},
	)})

	want := obj(doc.Field{Name: "x", Value: obj(
		doc.Field{Name: "a", Value: doc.Int(1)},
		doc.Field{Name: "b", Value: doc.Int(3)},
		doc.Field{Name: "c", Value: doc.Int(4)},
	)})

	assert.True(t, want.Equal(doc.DeepMerge(a, b)))
}

func TestDeepMergeEmptyIsIdempotent(t *testing.T) {
	t.Parallel()

	a := obj(
		doc.Field{Name: "x", Value: obj(doc.Field{Name: "a", Value: doc.Int(1)})},
		doc.Field{Name: "y", Value: doc.Array{doc.Int(1)}},
	)

	assert.True(t, a.Equal(doc.DeepMerge(a, obj())))
	assert.True(t, a.Equal(doc.DeepMerge(doc.DeepMerge(a, obj()), obj())))
}

func TestDeepMergeNullOverrides(t *testing.T) {
	t.Parallel()

	a := obj(doc.Field{Name: "x", Value: doc.Int(1)})
	b := obj(doc.Field{Name: "x", Value: doc.Null{}})

	got := doc.DeepMerge(a, b)

	want := obj(doc.Field{Name: "x", Value: doc.Null{}})
	assert.True(t, want.Equal(got))
}

func TestDeepMergeArrays(t *testing.T) {
	t.Parallel()

	a := obj(doc.Field{Name: "arr", Value: doc.Array{
		obj(doc.Field{Name: "a", Value: doc.Int(1)}),
		doc.Int(2),
		doc.Int(3),
	}})
	b := obj(doc.Field{Name: "arr", Value: doc.Array{
		obj(doc.Field{Name: "b", Value: doc.Int(9)}),
		doc.Int(20),
	}})

	want := obj(doc.Field{Name: "arr", Value: doc.Array{
		obj(
			doc.Field{Name: "a", Value: doc.Int(1)},
			doc.Field{Name: "b", Value: doc.Int(9)},
		),
		doc.Int(20),
		doc.Int(3),
	}})

	assert.True(t, want.Equal(doc.DeepMerge(a, b)))
}
