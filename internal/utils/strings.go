package utils

// MaxDescriptionLength is the column width of free-text description fields.
const MaxDescriptionLength = 255

// CutTooLongString truncates s to the description field length.
func CutTooLongString(s string) string {
	return CutToLength(s, MaxDescriptionLength)
}

// CutToLength truncates s to at most n runes.
func CutToLength(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
