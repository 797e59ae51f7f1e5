// Package roll segments the text of a property-assessment roll into parcels.
//
// A roll is a flat document in which each parcel begins with a delimiter
// line: a band of pad characters (usually '*') framing the parcel's
// print-key code, its section-block-lot identifier.
//
//	******************************** 123.45-1-7 ********************************
//	SMITH JOHN                       123 MAIN ST
//	...
//
// # Pipeline
//
// [Scanner] splits the document into [Segment] values at delimiter lines.
// [ParseKey] parses each segment's marker into a [Key], and [Build] collects
// the results into a [Table], rejecting duplicate keys. Bands without a
// marker end the current parcel but start none.
//
// Builds fail as a whole: a malformed marker or a repeated key yields an
// error matching [ErrMalformedKeyCode] or [ErrDuplicateKeyCode] and no
// table.
//
// # Output
//
// Tables render as JSON, YAML, or back into roll text, and can be filtered
// with expr-lang expressions compiled by [CompileQuery].
package roll
