package zap

import (
	"strings"
)

const redacted = "[REDACTED]"

// controlCharReplacer escapes control characters that can forge log entries (CWE-117).
var controlCharReplacer = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func sanitizeString(s string) string {
	return controlCharReplacer.Replace(s)
}
