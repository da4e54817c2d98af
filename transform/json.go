package transform

import (
	"bytes"

	"go.streamy.dev/streamy/doc"
	"go.streamy.dev/streamy/docjson"
)

// JSONMode selects the direction of a [JSON] transformer.
type JSONMode int

const (
	// Serialize stringifies the source field's value into JSON text at
	// the target.
	Serialize JSONMode = iota
	// Deserialize parses the source field's JSON text and writes the
	// resulting value at the target.
	Deserialize
)

// JSON is a [Simple] transformer that serializes or deserializes one field.
//
// Fast skips return the input unchanged without touching the codec: a
// missing source field, an empty source value, and (for deserialization)
// text that does not look like an object — first non-space byte not '{' or
// last not '}'. JSON arrays in a field therefore never deserialize. An
// actual codec failure goes through the configured [OnError] policy.
type JSON struct {
	cfg  Config
	mode JSONMode
}

// NewJSON builds a JSON field transformer.
func NewJSON(mode JSONMode, cfg Config) *JSON {
	return &JSON{cfg: cfg, mode: mode}
}

// Apply transforms one document.
func (t *JSON) Apply(v doc.Value) (doc.Value, bool) {
	src, ok := t.cfg.Source.Evaluate(v)
	if !ok || isEmpty(src) {
		return v, true
	}

	if t.mode == Deserialize {
		return t.deserialize(v, src)
	}

	return t.serialize(v, src)
}

func (t *JSON) deserialize(v, src doc.Value) (doc.Value, bool) {
	raw, ok := rawText(src)
	if !ok {
		return t.failed(v)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return v, true
	}

	parsed, err := docjson.Parse(raw)
	if err != nil {
		return t.failed(v)
	}

	return t.place(v, parsed)
}

func (t *JSON) serialize(v, src doc.Value) (doc.Value, bool) {
	return t.place(v, doc.String(docjson.Stringify(src)))
}

// place writes out at the target and applies the on-success policy. A root
// target merges object results into the top level, overwriting existing
// fields on collision; any other result replaces the root outright.
func (t *JSON) place(v, out doc.Value) (doc.Value, bool) {
	tgt := t.cfg.target()

	var next doc.Value

	if tgt.IsRoot() {
		if _, isObj := out.(doc.Object); isObj {
			next = doc.Merge(v, out)
		} else {
			next = out
		}
	} else {
		res, err := doc.Patch{doc.Add{Path: tgt, Value: out}}.Apply(v)
		if err != nil {
			return t.failed(v)
		}

		next = res
	}

	if t.cfg.OnSuccess == SuccessRemove && !t.cfg.Source.Equal(tgt) {
		res, err := doc.Patch{doc.Remove{Path: t.cfg.Source}}.Apply(next)
		if err == nil {
			next = res
		}
	}

	return next, true
}

func (t *JSON) failed(v doc.Value) (doc.Value, bool) {
	if t.cfg.OnError == ErrorDiscard {
		return nil, false
	}

	return v, true
}

func rawText(v doc.Value) ([]byte, bool) {
	switch s := v.(type) {
	case doc.String:
		return []byte(s), true
	case doc.Bytes:
		return s, true
	}

	return nil, false
}
