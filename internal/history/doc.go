// Package history persists one record per finished job in SQLite so
// operators can review what the bot has delivered, declined, or failed.
// Pending selections are deliberately not persisted; only outcomes are.
package history
