package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyParentPath = "parent_path"
	KeyDepth      = "depth"
	KeyTitle      = "title"
	KeyParent     = "parent"
	KeyStage      = "stage"
	KeyOutcome    = "outcome"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func ParentPath(p string) slog.Attr   { return slog.String(KeyParentPath, p) }
func Depth(d int) slog.Attr           { return slog.Int(KeyDepth, d) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Parent(t string) slog.Attr       { return slog.String(KeyParent, t) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
