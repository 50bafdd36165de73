// Package preflight provides readiness checks for the directories, tools,
// and chat API grabbot depends on.
//
// The daemon runs RunAll at startup and refuses to serve when a check
// fails; the CLI uses the same checks to display health without starting
// the bot.
package preflight
