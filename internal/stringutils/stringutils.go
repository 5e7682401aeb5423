package stringutils

import "strings"

// IndentString prefixes each line of the string with indent.
func IndentString(str, indent string) string {
	spl := strings.SplitAfter(str, "\n")
	return strings.Join(append([]string{""}, spl...), indent)
}

// Truncate shortens str to at most maxRunes runes. If str is shortened, the
// last rune is replaced with an ellipsis.
func Truncate(str string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}

	runes := []rune(str)
	if len(runes) <= maxRunes {
		return str
	}

	return string(runes[:maxRunes-1]) + "…"
}

// NormalizeNewlines replaces CRLF and CR line endings with LF and removes
// trailing newlines.
func NormalizeNewlines(str string) string {
	str = strings.ReplaceAll(str, "\r\n", "\n")
	str = strings.ReplaceAll(str, "\r", "\n")

	return strings.TrimRight(str, "\n")
}
