// Package daemon assembles the bot's components and enforces
// single-instance execution via a lock file.
package daemon
