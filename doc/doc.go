// Package doc implements the structured document model used throughout the
// pipeline: a JSON-shaped value tree with byte-string and numeric variants,
// one-shot builders, pointer evaluation, RFC 6902-style patch operations,
// and shallow/deep merging.
//
// A [Value] is immutable once constructed. Values handed out of a builder or
// a codec are safe to share read-only across goroutines. Builders are not.
//
// Equality is structural: object equality ignores field order but requires
// identical key sets, array equality is position-sensitive, and numeric
// variants are never equal across kinds ([Int](1) does not equal [Long](1)).
// Cross-variant numeric access goes through the explicit conversion helpers
// [AsInt64] and [AsFloat64].
package doc
