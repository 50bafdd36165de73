// Package textutil provides small text helpers shared across the pipeline:
// terminal escape stripping, user-facing truncation, and filename sanitizing.
package textutil
