package logging

import (
	"regexp"
	"strings"
)

var bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)\S+`)

// MaskSecret replaces every occurrence of secret in s with a short redacted
// form so long-lived tokens never end up in log output verbatim.
func MaskSecret(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, redact(secret))
}

// MaskBearer scrubs the value of any "Bearer <token>" fragment in s.
func MaskBearer(s string) string {
	return bearerPattern.ReplaceAllString(s, "${1}***")
}

func redact(secret string) string {
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "***"
}
