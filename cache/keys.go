package cache

import (
	"strings"
	"unicode"
)

// ListKey derives the cache key for a full-collection listing of the
// given entity kind, e.g. ListKey("Author") == "all-authors".
// Kinds are normalized so reflected or mixed-case type names still map
// to the same key.
func ListKey(kind string) string {
	k := normalizeKind(kind)
	if k == "" {
		return "all"
	}
	return "all-" + pluralize(k)
}

// pluralize covers the English forms entity kinds actually take:
// trailing consonant+y becomes -ies ("category" -> "categories"),
// sibilant endings take -es ("address" -> "addresses"), everything
// else takes -s. Already-plural input is left alone.
func pluralize(s string) string {
	switch {
	case strings.HasSuffix(s, "s"):
		if strings.HasSuffix(s, "ss") {
			return s + "es"
		}
		return s
	case strings.HasSuffix(s, "y") && len(s) > 1 && !isVowel(rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "x"), strings.HasSuffix(s, "z"),
		strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	default:
		return s + "s"
	}
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// normalizeKind converts the provided string to lower-kebab using
// ASCII-aware rules. We aggressively strip punctuation (pointers,
// generic suffixes) that can show up in reflected type names; leaving
// those characters in the key namespace would produce keys that
// collide with nothing and invalidate nothing.
func normalizeKind(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastDash := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if (unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower) && !lastDash {
					b.WriteByte('-')
					lastDash = true
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastDash = false

		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false

		case r == '-' || r == '_' || unicode.IsSpace(r):
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}

		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
