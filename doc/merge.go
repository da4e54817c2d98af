package doc

// Merge merges two values shallowly. When both are objects, b's top-level
// fields override a's; otherwise b wins outright.
func Merge(a, b Value) Value {
	objA, okA := a.(Object)
	objB, okB := b.(Object)

	if !okA || !okB {
		return b
	}

	fields := make([]Field, 0, len(objA.fields)+len(objB.fields))
	fields = append(fields, objA.fields...)

	for _, f := range objB.fields {
		fields = put(fields, f.Name, f.Value)
	}

	return Object{fields: fields}
}

// DeepMerge merges two values recursively. When both sides at a path are
// objects (or both arrays) they merge recursively; otherwise b's value wins,
// including an explicit Null in b overriding a present value in a. Arrays
// merge element-wise over the common prefix, with the longer side's tail
// kept.
func DeepMerge(a, b Value) Value {
	if objA, ok := a.(Object); ok {
		if objB, ok := b.(Object); ok {
			return deepMergeObjects(objA, objB)
		}
	}

	if arrA, ok := a.(Array); ok {
		if arrB, ok := b.(Array); ok {
			return deepMergeArrays(arrA, arrB)
		}
	}

	return b
}

func deepMergeObjects(a, b Object) Object {
	fields := make([]Field, 0, len(a.fields)+len(b.fields))
	fields = append(fields, a.fields...)

	for _, f := range b.fields {
		if cur, ok := a.Get(f.Name); ok {
			fields = put(fields, f.Name, DeepMerge(cur, f.Value))
		} else {
			fields = put(fields, f.Name, f.Value)
		}
	}

	return Object{fields: fields}
}

func deepMergeArrays(a, b Array) Array {
	n := max(len(a), len(b))
	out := make(Array, 0, n)

	for i := range n {
		switch {
		case i < len(a) && i < len(b):
			out = append(out, DeepMerge(a[i], b[i]))
		case i < len(a):
			out = append(out, a[i])
		default:
			out = append(out, b[i])
		}
	}

	return out
}

func put(fields []Field, name string, v Value) []Field {
	for i, f := range fields {
		if f.Name == name {
			fields[i].Value = v
			return fields
		}
	}

	return append(fields, Field{Name: name, Value: v})
}
