// Package logging wires log/slog with reelcap conventions: a human-oriented
// console handler (colored on TTYs), a JSON handler for machine consumption,
// and shared attribute helpers so call sites stay terse.
package logging
