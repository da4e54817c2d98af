// Package transform defines the unit of pipeline computation: a transformer
// maps one input element to zero or one output element.
//
// Three shapes exist. A [Source] decodes raw frames into documents, a
// [Sink] encodes documents back into frames, and a [Simple] rewrites one
// document into another, usually by transforming a single field addressed
// by a pointer. Transformers never propagate codec errors: a failure is
// absorbed by the configured [OnError] policy, so callers see either a
// well-formed output or the unchanged input, and a false second return
// means the element is discarded.
//
// Transformer instances are single-threaded: one instance processes one
// element at a time and must not be shared across concurrent callers.
package transform

import (
	"go.streamy.dev/streamy/doc"
)

// Source decodes one raw frame into a document.
type Source interface {
	Apply(frame []byte) (doc.Value, bool)
}

// Sink encodes one document into a raw frame.
type Sink interface {
	Apply(v doc.Value) ([]byte, bool)
}

// Simple rewrites one document.
type Simple interface {
	Apply(v doc.Value) (doc.Value, bool)
}

// OnSuccess selects what happens to the source field after a successful
// write to a distinct target.
type OnSuccess int

const (
	// SuccessSkip leaves the source field in place.
	SuccessSkip OnSuccess = iota
	// SuccessRemove deletes the source field.
	SuccessRemove
)

// OnError selects what happens when the inner codec fails on an element.
type OnError int

const (
	// ErrorSkip passes the element through unchanged. A [Source], whose
	// output type differs from its input, instead wraps the raw frame
	// under "message".
	ErrorSkip OnError = iota
	// ErrorDiscard drops the element.
	ErrorDiscard
)

// Config addresses the field a [Simple] transformer operates on and its
// success and error behaviors.
type Config struct {
	// Source is the field to read.
	Source doc.Pointer
	// Target is where to write; nil means the source pointer.
	Target *doc.Pointer
	// OnSuccess applies after a successful write.
	OnSuccess OnSuccess
	// OnError applies when the transform itself fails.
	OnError OnError
}

func (c Config) target() doc.Pointer {
	if c.Target != nil {
		return *c.Target
	}

	return c.Source
}

// isEmpty reports whether v is an empty string or empty byte sequence,
// which short-circuits field transformers.
func isEmpty(v doc.Value) bool {
	switch t := v.(type) {
	case doc.String:
		return len(t) == 0
	case doc.Bytes:
		return len(t) == 0
	}

	return false
}
