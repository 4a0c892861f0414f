package localmirror

import "strings"

const maxNameLength = 200

// SanitizeName makes a remote display name safe to use as one path segment.
// Quip lets authors put anything in a title, slashes included.  The policy,
// in order:
//
//  1. each of  < > : " / \ | ? *  becomes a dash
//  2. control characters are dropped
//  3. runs of dashes collapse to one
//  4. leading/trailing dashes and spaces are trimmed
//  5. an empty result becomes "untitled"
//  6. the result is capped at 200 characters, re-trimmed
//
// Applying it twice is a no-op.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('-')
		case r < 32:
			// drop control characters
		default:
			b.WriteRune(r)
		}
	}

	sanitized := b.String()

	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}

	sanitized = strings.Trim(sanitized, "- ")

	if sanitized == "" {
		return "untitled"
	}

	if runes := []rune(sanitized); len(runes) > maxNameLength {
		sanitized = strings.TrimRight(string(runes[:maxNameLength]), "- ")
	}

	return sanitized
}

// DocumentFilename sanitizes a document title and gives it a .docx suffix if
// it doesn't carry one already.
func DocumentFilename(title string) string {
	filename := SanitizeName(title)
	if !strings.HasSuffix(filename, ".docx") {
		filename += ".docx"
	}
	return filename
}
