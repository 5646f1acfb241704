// Package ingest turns a byte stream into items.
//
// Loop.Run reads whatever the source has ready, completes the last partial
// line, splits the chunk on the line terminator and publishes one item per
// line. Output is independent of how the source fragments its reads.
package ingest
