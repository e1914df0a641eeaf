package link

import "strings"

// DecodeLine converts raw bytes of a reply into text.
// Bytes which are not valid UTF-8 are dropped and surrounding
// whitespace, including CR/LF, is trimmed.
func DecodeLine(raw []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(raw), ""))
}

// IsReady tells whether a decoded reply acknowledges a ping.
func IsReady(line string) bool {
	return strings.Contains(line, KeywordReady)
}

// IsComplete tells whether a decoded reply ends a feed.
func IsComplete(line string) bool {
	return strings.Contains(line, KeywordComplete)
}
