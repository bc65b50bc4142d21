// Package records flattens nested JSON documents into fixed-schema rows.
//
// A [Schema] is an ordered list of [Field] values, each pairing an output column name with a dot-separated path
// into the decoded document (numeric segments index arrays, e.g. "media.0.url").
//
// [Project] is total: a missing key, a null, an out-of-range index or a segment that hits the wrong container type
// all produce the sentinel null (a nil value) for that field instead of an error. Every [Record] built from a schema
// therefore carries the same columns, in declaration order, no matter how sparse the upstream payload is.
//
// Values are never coerced. Numbers decoded with [encoding/json.Decoder.UseNumber] stay [encoding/json.Number],
// strings stay strings and booleans (such as is_verified) pass through unchanged.
package records
