package doc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.streamy.dev/streamy/doc"
)

func TestObjectBuilderBasics(t *testing.T) {
	t.Parallel()

	b := doc.NewObjectBuilder().
		Put("a", doc.Int(1)).
		Put("b", doc.String("x"))

	assert.True(t, b.Contains("a"))
	assert.False(t, b.Contains("z"))
	assert.Equal(t, 2, b.Len())

	got, ok := b.Get("b")
	require.True(t, ok)
	assert.Equal(t, doc.String("x"), got)

	// Overwrite keeps the original position.
	b.Put("a", doc.Int(9))

	obj, ok := b.Result().(doc.Object)
	require.True(t, ok)
	assert.Equal(t, "a", obj.Fields()[0].Name)
	assert.Equal(t, doc.Int(9), obj.Fields()[0].Value)
}

func TestObjectBuilderSnapshotSemantics(t *testing.T) {
	t.Parallel()

	b := doc.NewObjectBuilder().Put("a", doc.Int(1))

	first := b.Result()

	b.Put("b", doc.Int(2))
	b.Remove("a")

	second := b.Result()

	// The first snapshot is unaffected by later mutations.
	obj, ok := first.(doc.Object)
	require.True(t, ok)
	require.Equal(t, 1, obj.Len())

	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, doc.Int(1), v)

	obj2, ok := second.(doc.Object)
	require.True(t, ok)
	assert.Equal(t, 1, obj2.Len())
	assert.False(t, func() bool { _, ok := obj2.Get("a"); return ok }())
}

func TestObjectBuilderPutAll(t *testing.T) {
	t.Parallel()

	a := doc.NewObjectBuilder().Put("x", doc.Int(1)).Put("y", doc.Int(2))
	b := doc.NewObjectBuilder().Put("y", doc.Int(3)).Put("z", doc.Int(4))

	a.PutAll(b)

	want := doc.NewObject(
		doc.Field{Name: "x", Value: doc.Int(1)},
		doc.Field{Name: "y", Value: doc.Int(3)},
		doc.Field{Name: "z", Value: doc.Int(4)},
	)
	assert.True(t, want.Equal(a.Result()))
}

func TestArrayBuilderSnapshotSemantics(t *testing.T) {
	t.Parallel()

	b := doc.NewArrayBuilder().Add(doc.Int(1)).Add(doc.Int(2))

	first := b.Result()

	b.Add(doc.Int(3))
	b.Remove(0)

	arr, ok := first.(doc.Array)
	require.True(t, ok)
	assert.True(t, doc.Array{doc.Int(1), doc.Int(2)}.Equal(arr))

	second, ok := b.Result().(doc.Array)
	require.True(t, ok)
	assert.True(t, doc.Array{doc.Int(2), doc.Int(3)}.Equal(second))
}

func TestArrayBuilderBounds(t *testing.T) {
	t.Parallel()

	b := doc.NewArrayBuilder().Add(doc.String("only"))

	_, ok := b.Get(1)
	assert.False(t, ok)

	b.Remove(5) // out of range, ignored
	assert.Equal(t, 1, b.Len())

	other := doc.NewArrayBuilder().Add(doc.Int(1))
	b.AddAll(other)
	assert.Equal(t, 2, b.Len())
}
