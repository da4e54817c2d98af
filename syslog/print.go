package syslog

import (
	"bytes"
	"strconv"

	"go.streamy.dev/streamy/bind"
	"go.streamy.dev/streamy/doc"
)

// PrintRFC5424 renders a document as an RFC 5424 frame. Fields walk the
// fixed wire order; a field whose binder finds nothing emits the NILVALUE
// "-". Facility and severity values are not range-checked; producing valid
// numbers is the pipeline's responsibility.
func PrintRFC5424(v doc.Value, b Binding) []byte {
	var out bytes.Buffer

	out.WriteByte('<')
	out.WriteString(strconv.FormatInt(priOf(v, b), 10))
	out.WriteString(">1")

	nilvalue := func(bd bind.Binder) {
		if inert(bd) || !bd.BindOut(&out, v, func() { out.WriteByte(' ') }) {
			out.WriteString(" -")
		}
	}

	nilvalue(b.Timestamp)
	nilvalue(b.Hostname)
	nilvalue(b.AppName)
	nilvalue(b.ProcID)
	nilvalue(b.MsgID)
	nilvalue(b.StructData)

	if !inert(b.Message) {
		b.Message.BindOut(&out, v, func() { out.WriteByte(' ') })
	}

	return out.Bytes()
}

// PrintRFC3164 renders a document as a BSD syslog frame. Missing fields
// are skipped with their separators elided.
func PrintRFC3164(v doc.Value, b Binding) []byte {
	var out bytes.Buffer

	out.WriteByte('<')
	out.WriteString(strconv.FormatInt(priOf(v, b), 10))
	out.WriteByte('>')

	if !inert(b.Timestamp) {
		b.Timestamp.BindOut(&out, v, func() {})
	}

	if !inert(b.Hostname) {
		b.Hostname.BindOut(&out, v, func() { out.WriteByte(' ') })
	}

	if !inert(b.AppName) {
		b.AppName.BindOut(&out, v, func() { out.WriteByte(' ') })
	}

	if !inert(b.ProcID) {
		if b.ProcID.BindOut(&out, v, func() { out.WriteByte('[') }) {
			out.WriteByte(']')
		}
	}

	if !inert(b.Message) {
		b.Message.BindOut(&out, v, func() { out.WriteString(": ") })
	}

	return out.Bytes()
}

// priOf computes facility*8+severity from the document through the binding
// keys, defaulting each missing side to zero.
func priOf(v doc.Value, b Binding) int64 {
	var fac, sev int64

	if !inert(b.Facility) {
		if f, ok := fieldInt(v, b.Facility.Key()); ok {
			fac = f
		}
	}

	if !inert(b.Severity) {
		if s, ok := fieldInt(v, b.Severity.Key()); ok {
			sev = s
		}
	}

	return fac*8 + sev
}

func fieldInt(v doc.Value, key string) (int64, bool) {
	obj, ok := v.(doc.Object)
	if !ok {
		return 0, false
	}

	field, ok := obj.Get(key)
	if !ok {
		return 0, false
	}

	return doc.AsInt64(field)
}
