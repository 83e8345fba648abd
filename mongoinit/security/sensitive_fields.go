package security

import (
	"regexp"
	"strings"
	"unicode"
)

// sensitiveWords match when they appear as a whole word of the normalized
// field name, so "key" hits "api_key" but not "monkey" or "keys".
var sensitiveWords = map[string]struct{}{
	"password":      {},
	"passwd":        {},
	"pwd":           {},
	"secret":        {},
	"token":         {},
	"credential":    {},
	"credentials":   {},
	"key":           {},
	"apikey":        {},
	"privatekey":    {},
	"auth":          {},
	"authorization": {},
	"uri":           {},
	"dsn":           {},
}

// sensitivePhrases are multi-word names where no single word is a secret.
var sensitivePhrases = []string{
	"connection_string",
	"conn_string",
}

var separators = regexp.MustCompile(`[^a-z0-9]+`)

// IsSensitiveField reports whether a value logged under name must be hidden.
// Matching ignores case and treats camelCase humps, underscores, dashes and
// dots as word breaks: "mongoPassword", "MONGO_INIT_URI" and "x-api-key" all
// match.
func IsSensitiveField(name string) bool {
	words := separators.Split(splitCamel(name), -1)

	for _, word := range words {
		if _, ok := sensitiveWords[word]; ok {
			return true
		}
	}

	joined := "_" + strings.Join(words, "_") + "_"

	for _, phrase := range sensitivePhrases {
		if strings.Contains(joined, "_"+phrase+"_") {
			return true
		}
	}

	return false
}

// splitCamel lowercases name and inserts an underscore at each camelCase
// boundary. An upper-case run keeps its last letter for the next word, so
// "APIKey" becomes "api_key".
func splitCamel(name string) string {
	runes := []rune(name)

	var b strings.Builder

	b.Grow(len(name) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
