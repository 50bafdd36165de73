// Package main hosts the grabbot CLI entrypoint and command graph.
//
// The Cobra-based command tree starts the bot daemon, inspects the job
// history ledger, checks external tool availability, and scaffolds
// configuration. Configuration resolution and logging setup are
// centralized here so subcommands stay declarative; the heavy lifting
// lives in the internal packages.
package main
