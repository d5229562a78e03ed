package types

import "strings"

// Slugify lowercases s and replaces runs of non-alphanumeric characters with
// single hyphens. Leading and trailing hyphens are trimmed. Returns "" for
// input with no usable characters; callers fall back to the record id.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
