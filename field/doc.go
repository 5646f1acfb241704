// Package field selects delimiter-separated tokens of a line.
//
// A selector list such as "2", "1,3" or "2..-1" picks which tokens are
// displayed or matched. Indexes are 1-based; negative indexes count from
// the end of the line, so -1 is the last token.
//
//	ranges := field.ParseList("2..")
//	tokens := field.Tokenize("a b c", field.DefaultDelimiter)
//	text := field.Extract("a b c", field.TransformSpans(tokens, ranges)) // "b c"
package field
