// Package logtail reads the end of tower's own log file for the log view.
//
// Read keeps a ring buffer of maxLines entries while scanning, so memory is
// bounded by the window rather than the file size. Parse turns each JSON
// line written by the logging package into an Entry; anything else, such as
// a panic trace, is kept verbatim as the message.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//	entries := logtail.ParseLines(lines)
//
// A missing file is not an error: the log view just starts empty.
package logtail
