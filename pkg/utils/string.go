package utils

import (
	"strings"
)

// StripCodeFence removes a surrounding markdown code fence, with or without a
// language tag, and trims whitespace. Text without a fence passes through
// untouched.
func StripCodeFence(s string) string {
	out := strings.TrimSpace(s)

	if strings.HasPrefix(out, "```") {
		if newline := strings.Index(out, "\n"); newline >= 0 {
			out = out[newline+1:]
		} else {
			out = strings.TrimPrefix(out, "```")
		}
	}

	out = strings.TrimSpace(out)
	out = strings.TrimSuffix(out, "```")

	return strings.TrimSpace(out)
}
