// Package history keeps the bounded, oldest-dropped event logs each demo page
// persists alongside its inputs.
package history

// Append adds entry to log and keeps at most limit of the newest entries.
func Append[T any](log []T, entry T, limit int) []T {
	return Truncate(append(log, entry), limit)
}

// Truncate drops the oldest entries so that len(log) <= limit. Relative order
// of the survivors is preserved. The result never aliases the dropped prefix.
func Truncate[T any](log []T, limit int) []T {
	if limit <= 0 {
		return []T{}
	}
	if len(log) <= limit {
		return log
	}
	out := make([]T, limit)
	copy(out, log[len(log)-limit:])
	return out
}

// Tail returns a copy of the last n entries of log.
func Tail[T any](log []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(log) {
		n = len(log)
	}
	out := make([]T, n)
	copy(out, log[len(log)-n:])
	return out
}
