// Package fetch downloads media through the yt-dlp command line tool.
//
// The client drives the external binary through an Executor interface so
// tests can substitute a fake process. Progress is reported by parsing
// tagged lines the tool prints on stdout; metadata (final path, title,
// uploader) arrives the same way via --print directives.
package fetch
