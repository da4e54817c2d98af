package transform

import (
	"go.streamy.dev/streamy/doc"
	"go.streamy.dev/streamy/docjson"
	"go.streamy.dev/streamy/syslog"
)

// JSONSink encodes documents as canonical JSON frames. It is total: every
// document stringifies.
type JSONSink struct{}

// NewJSONSink builds a JSON sink.
func NewJSONSink() *JSONSink {
	return &JSONSink{}
}

// Apply encodes one document.
func (*JSONSink) Apply(v doc.Value) ([]byte, bool) {
	return docjson.Stringify(v), true
}

// SyslogSink prints documents as syslog frames through the configured
// binders. Missing fields render as the NILVALUE (RFC 5424) or are elided
// (RFC 3164), so printing is total as well.
type SyslogSink struct {
	format  SyslogFormat
	binding syslog.Binding
}

// NewSyslogSink builds a syslog sink.
func NewSyslogSink(format SyslogFormat, binding syslog.Binding) *SyslogSink {
	return &SyslogSink{format: format, binding: binding}
}

// Apply encodes one document.
func (s *SyslogSink) Apply(v doc.Value) ([]byte, bool) {
	if s.format == RFC3164 {
		return syslog.PrintRFC3164(v, s.binding), true
	}

	return syslog.PrintRFC5424(v, s.binding), true
}
