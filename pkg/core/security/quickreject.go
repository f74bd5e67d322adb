package security

import "strings"

var quickRejectKeywords = []string{
	"api", "key", "secret", "token", "password", "credential",
	"auth", "private", "-----begin", "sk_", "pk_", "eyj",
}

var dataURLPrefixes = []string{"data:image/", "data:font/"}

// maybeHasSecret is the cheap pre-scan spec 4.H calls for before running
// any matcher against a file's content: a substring check for indicator
// keywords, short-circuited for content that plainly isn't code.
func maybeHasSecret(content string) bool {
	lower := strings.ToLower(content)

	for _, prefix := range dataURLPrefixes {
		if strings.Contains(lower, prefix) {
			return false
		}
	}
	if looksMinified(content) {
		return false
	}
	if looksLikeSVGOrCSS(lower) {
		return false
	}
	if highBase64Ratio(content) && !strings.Contains(lower, "eyj") {
		return false
	}

	for _, kw := range quickRejectKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// looksMinified flags very long lines with a low whitespace ratio, which
// quick-reject treats as generated/bundled code rather than source.
func looksMinified(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if len(line) < 500 {
			continue
		}
		spaces := strings.Count(line, " ")
		if float64(spaces)/float64(len(line)) < 0.02 {
			return true
		}
	}
	return false
}

func looksLikeSVGOrCSS(lowerContent string) bool {
	trimmed := strings.TrimSpace(lowerContent)
	if strings.HasPrefix(trimmed, "<svg") || strings.Contains(lowerContent, "<svg ") {
		return true
	}
	if strings.Contains(lowerContent, "{") && strings.Contains(lowerContent, "}") &&
		(strings.Contains(lowerContent, "px;") || strings.Contains(lowerContent, "rem;")) {
		return true
	}
	return false
}

// highBase64Ratio flags content that is almost entirely base64 alphabet
// characters, which quick-reject treats as encoded binary data rather
// than code — unless it carries a JWT marker ("eyJ"), which is handled
// by the caller.
func highBase64Ratio(content string) bool {
	if len(content) < 64 {
		return false
	}
	var b64 int
	for _, r := range content {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '/', r == '=', r == '\n':
			b64++
		}
	}
	return float64(b64)/float64(len(content)) > 0.95
}
