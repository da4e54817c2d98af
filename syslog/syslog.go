// Package syslog parses and prints RFC 5424 and RFC 3164 (BSD) syslog
// frames against the document model.
//
// Field extraction is driven by binders: the parser captures each header
// field as a raw slice and hands it to the binder configured for that field,
// which projects it into the output document. A field bound to [bind.None]
// (or left nil) is captured and discarded. Printing walks the fixed field
// order in reverse, asking each binder to emit the canonical text with the
// separator fired as a pre hook.
//
// The two RFC 5424 modes differ only in per-field length caps; every frame
// accepted in [Strict] mode is also accepted in [Lenient] mode and produces
// the same document.
package syslog

import (
	"errors"
	"fmt"

	"go.streamy.dev/streamy/bind"
	"go.streamy.dev/streamy/parse"
)

// Mode selects the RFC 5424 length-cap profile.
type Mode int

const (
	// Strict enforces the RFC 5424 field length limits.
	Strict Mode = iota
	// Lenient doubles the appName and msgId caps for producers that
	// exceed the RFC.
	Lenient
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}

	return "strict"
}

// ErrUnknownMode indicates an unrecognized mode string.
var ErrUnknownMode = errors.New("unknown syslog mode")

// ParseMode parses "strict" or "lenient".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Binding assigns a binder to each wire field. A nil binder (or
// [bind.None]) discards the field on parse and elides it on print.
type Binding struct {
	Facility   bind.Binder
	Severity   bind.Binder
	Timestamp  bind.Binder
	Hostname   bind.Binder
	AppName    bind.Binder
	ProcID     bind.Binder
	MsgID      bind.Binder
	StructData bind.Binder
	Message    bind.Binder
}

// DefaultBinding binds every field under its conventional key.
func DefaultBinding() Binding {
	return Binding{
		Facility:   bind.NewInt("facility"),
		Severity:   bind.NewInt("severity"),
		Timestamp:  bind.NewString("timestamp"),
		Hostname:   bind.NewString("hostname"),
		AppName:    bind.NewString("appName"),
		ProcID:     bind.NewString("procId"),
		MsgID:      bind.NewString("msgId"),
		StructData: bind.NewString("structData"),
		Message:    bind.NewString("message"),
	}
}

// Config configures an RFC 5424 parse.
type Config struct {
	Mode    Mode
	Binding Binding
}

// ParseError reports a malformed frame at a byte offset.
type ParseError struct {
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed syslog frame at offset %d", e.Offset)
}

func malformed(s *parse.Scanner, err error) error {
	var perr *parse.Error
	if errors.As(err, &perr) {
		return &ParseError{Offset: perr.Offset}
	}

	return &ParseError{Offset: s.Pos()}
}

// caps holds the per-field length limits of one mode.
type caps struct {
	hostname int
	appName  int
	procID   int
	msgID    int
}

func (m Mode) caps() caps {
	if m == Lenient {
		return caps{hostname: 255, appName: 96, procID: 128, msgID: 64}
	}

	return caps{hostname: 255, appName: 48, procID: 128, msgID: 32}
}

func inert(b bind.Binder) bool {
	return b == nil || b == bind.None
}
