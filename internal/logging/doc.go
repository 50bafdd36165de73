// Package logging constructs the process-wide slog logger and provides
// attribute helpers so call sites stay terse. Two output formats are
// supported: a human-oriented console format and line-delimited JSON.
package logging
