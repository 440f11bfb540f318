// Package history persists a ledger of caption-generation runs in SQLite so
// `reelcap history` can show what was produced, from which source, and
// whether the caches were hit.
package history
