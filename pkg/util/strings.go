package util

// MaxValueSize is the default maximum size for logged values (10KB).
const MaxValueSize = 10 * 1024

// Truncate caps a string at maxSize bytes, appending "...(truncated)" if cut.
// If maxSize <= 0, uses MaxValueSize.
func Truncate(s string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxValueSize
	}
	if len(s) > maxSize {
		return s[:maxSize] + "...(truncated)"
	}
	return s
}
