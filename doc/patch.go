package doc

import (
	"errors"
	"fmt"
)

// Patch application errors.
var (
	// ErrMissing indicates a required path was absent.
	ErrMissing = errors.New("missing target")
	// ErrTypeMismatch indicates the value at a path has the wrong variant
	// for the operation.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrTestFailed indicates a Test operation found a different value.
	ErrTestFailed = errors.New("test failed")
)

// Op is a single patch operation.
type Op interface {
	apply(v Value) (Value, error)
}

// Add inserts or overwrites the value at Path. Object targets insert or
// replace the field; array targets insert at the index, where an index equal
// to the length appends. Parent nodes must exist.
type Add struct {
	Path  Pointer
	Value Value
}

func (op Add) apply(v Value) (Value, error) {
	out, err := setAt(v, op.Path.Tokens(), op.Value, true, false)
	if err != nil {
		return nil, fmt.Errorf("add %q: %w", op.Path.String(), err)
	}

	return out, nil
}

// Remove deletes the value at Path. When MustExist is false a missing
// target is a no-op rather than an error.
type Remove struct {
	Path      Pointer
	MustExist bool
}

func (op Remove) apply(v Value) (Value, error) {
	out, err := removeAt(v, op.Path.Tokens(), op.MustExist)
	if err != nil {
		return nil, fmt.Errorf("remove %q: %w", op.Path.String(), err)
	}

	return out, nil
}

// Replace overwrites the value at Path, which must exist.
type Replace struct {
	Path  Pointer
	Value Value
}

func (op Replace) apply(v Value) (Value, error) {
	out, err := setAt(v, op.Path.Tokens(), op.Value, false, true)
	if err != nil {
		return nil, fmt.Errorf("replace %q: %w", op.Path.String(), err)
	}

	return out, nil
}

// Copy inserts the value found at From into To.
type Copy struct {
	From Pointer
	To   Pointer
}

func (op Copy) apply(v Value) (Value, error) {
	src, ok := op.From.Evaluate(v)
	if !ok {
		return nil, fmt.Errorf("copy from %q: %w", op.From.String(), ErrMissing)
	}

	out, err := setAt(v, op.To.Tokens(), src, true, false)
	if err != nil {
		return nil, fmt.Errorf("copy to %q: %w", op.To.String(), err)
	}

	return out, nil
}

// Move removes the value at From and inserts it at To.
type Move struct {
	From Pointer
	To   Pointer
}

func (op Move) apply(v Value) (Value, error) {
	src, ok := op.From.Evaluate(v)
	if !ok {
		return nil, fmt.Errorf("move from %q: %w", op.From.String(), ErrMissing)
	}

	out, err := removeAt(v, op.From.Tokens(), true)
	if err != nil {
		return nil, fmt.Errorf("move from %q: %w", op.From.String(), err)
	}

	out, err = setAt(out, op.To.Tokens(), src, true, false)
	if err != nil {
		return nil, fmt.Errorf("move to %q: %w", op.To.String(), err)
	}

	return out, nil
}

// Test asserts that the value at Path equals Value.
type Test struct {
	Path  Pointer
	Value Value
}

func (op Test) apply(v Value) (Value, error) {
	got, ok := op.Path.Evaluate(v)
	if !ok {
		return nil, fmt.Errorf("test %q: %w", op.Path.String(), ErrMissing)
	}

	if !got.Equal(op.Value) {
		return nil, fmt.Errorf("test %q: %w", op.Path.String(), ErrTestFailed)
	}

	return v, nil
}

// Bulk applies a group of operations in order.
type Bulk struct {
	Ops []Op
}

func (op Bulk) apply(v Value) (Value, error) {
	cur := v

	for _, o := range op.Ops {
		var err error

		cur, err = o.apply(cur)
		if err != nil {
			return nil, err
		}
	}

	return cur, nil
}

// Patch is an ordered sequence of operations.
type Patch []Op

// Apply runs the operations in order against v and returns the resulting
// value. Application is all-or-nothing: any failing operation returns a nil
// value and an error wrapping [ErrMissing], [ErrTypeMismatch], or
// [ErrTestFailed], and the input (which is never mutated) remains the only
// valid document.
func (p Patch) Apply(v Value) (Value, error) {
	cur := v

	for _, op := range p {
		var err error

		cur, err = op.apply(cur)
		if err != nil {
			return nil, err
		}
	}

	return cur, nil
}

// setAt rebuilds the path spine of v with val placed at the token path.
// insert controls array semantics (insert versus overwrite); mustExist
// requires the final target to already be present.
func setAt(v Value, toks []Token, val Value, insert, mustExist bool) (Value, error) {
	if len(toks) == 0 {
		return val, nil
	}

	t := toks[0]

	if t.IsIndex() {
		arr, ok := v.(Array)
		if !ok {
			return nil, ErrTypeMismatch
		}

		i := t.Position()

		if len(toks) == 1 {
			switch {
			case !insert || mustExist:
				if i < 0 || i >= len(arr) {
					return nil, ErrMissing
				}

				out := make(Array, len(arr))
				copy(out, arr)
				out[i] = val

				return out, nil
			default:
				if i < 0 || i > len(arr) {
					return nil, ErrMissing
				}

				out := make(Array, 0, len(arr)+1)
				out = append(out, arr[:i]...)
				out = append(out, val)
				out = append(out, arr[i:]...)

				return out, nil
			}
		}

		if i < 0 || i >= len(arr) {
			return nil, ErrMissing
		}

		child, err := setAt(arr[i], toks[1:], val, insert, mustExist)
		if err != nil {
			return nil, err
		}

		out := make(Array, len(arr))
		copy(out, arr)
		out[i] = child

		return out, nil
	}

	obj, ok := v.(Object)
	if !ok {
		return nil, ErrTypeMismatch
	}

	name := t.FieldName()
	cur, present := obj.Get(name)

	if len(toks) == 1 {
		if mustExist && !present {
			return nil, ErrMissing
		}

		return objectWith(obj, name, val, present), nil
	}

	if !present {
		return nil, ErrMissing
	}

	child, err := setAt(cur, toks[1:], val, insert, mustExist)
	if err != nil {
		return nil, err
	}

	return objectWith(obj, name, child, true), nil
}

// objectWith returns a copy of obj with name set to val, preserving field
// order and appending when the name is new.
func objectWith(obj Object, name string, val Value, present bool) Object {
	n := len(obj.fields)
	if !present {
		n++
	}

	fields := make([]Field, 0, n)
	for _, f := range obj.fields {
		if f.Name == name {
			f.Value = val
		}

		fields = append(fields, f)
	}

	if !present {
		fields = append(fields, Field{Name: name, Value: val})
	}

	return Object{fields: fields}
}

func removeAt(v Value, toks []Token, mustExist bool) (Value, error) {
	if len(toks) == 0 {
		return nil, fmt.Errorf("cannot remove the document root: %w", ErrTypeMismatch)
	}

	t := toks[0]

	if t.IsIndex() {
		arr, ok := v.(Array)
		if !ok {
			if mustExist {
				return nil, ErrTypeMismatch
			}

			return v, nil
		}

		i := t.Position()
		if i < 0 || i >= len(arr) {
			if mustExist {
				return nil, ErrMissing
			}

			return v, nil
		}

		if len(toks) == 1 {
			out := make(Array, 0, len(arr)-1)
			out = append(out, arr[:i]...)
			out = append(out, arr[i+1:]...)

			return out, nil
		}

		child, err := removeAt(arr[i], toks[1:], mustExist)
		if err != nil {
			return nil, err
		}

		out := make(Array, len(arr))
		copy(out, arr)
		out[i] = child

		return out, nil
	}

	obj, ok := v.(Object)
	if !ok {
		if mustExist {
			return nil, ErrTypeMismatch
		}

		return v, nil
	}

	name := t.FieldName()
	cur, present := obj.Get(name)

	if !present {
		if mustExist {
			return nil, ErrMissing
		}

		return v, nil
	}

	if len(toks) == 1 {
		fields := make([]Field, 0, len(obj.fields)-1)
		for _, f := range obj.fields {
			if f.Name != name {
				fields = append(fields, f)
			}
		}

		return Object{fields: fields}, nil
	}

	child, err := removeAt(cur, toks[1:], mustExist)
	if err != nil {
		return nil, err
	}

	return objectWith(obj, name, child, true), nil
}
