package diag

import "log/slog"

// WithCondition returns a logger annotated with the kind of condition being
// planned or executed. Use this at the start of mode selection.
func WithCondition(kind string) *slog.Logger {
	return Logger().With("condition", kind)
}

// WithMode returns a logger annotated with the chosen execution mode.
func WithMode(mode string) *slog.Logger {
	return Logger().With("mode", mode)
}

// WithSide returns a logger annotated with which side (L or R) an event
// concerns, used for cardinality-violation diagnostics.
func WithSide(side string) *slog.Logger {
	return Logger().With("side", side)
}
