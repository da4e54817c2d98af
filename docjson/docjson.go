// Package docjson is the JSON codec for the document model: it parses
// RFC 8259 text into [go.streamy.dev/streamy/doc.Value] trees and
// stringifies them back.
//
// Numeric literals map onto document variants by width: integers fitting
// 32 bits become Int, integers fitting 64 bits become Long, and everything
// else (including any literal with a fraction or exponent) becomes
// BigDecimal, so no precision is lost on the way in. Stringification emits
// object members in insertion order and numbers in their canonical form,
// which makes parse and stringify inverses on codec-produced documents.
package docjson
