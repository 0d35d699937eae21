package sanitizer

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	dotRunRegex    = regexp.MustCompile(`\.{2,}`)
	phoneCharRegex = regexp.MustCompile(`[^0-9+\-() .xX]`)
)

// Email normalizes an email address and returns the empty string when the
// input is not structurally valid. The result is lowercased with the display
// name stripped, consecutive dots in the local part consolidated, and always
// either empty or a value that passes structural email validation. The
// function is idempotent: Email(Email(x)) == Email(x).
func Email(raw string) string {
	s := RemoveNullBytes(raw)
	s = RemoveControlSequences(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	addr, err := mail.ParseAddress(s)
	if err != nil {
		return ""
	}

	email := strings.ToLower(addr.Address)
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return ""
	}

	// mail.ParseAddress accepts dotless domains; typical web use does not.
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return ""
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return ""
		}
	}

	local = dotRunRegex.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".")
	if local == "" {
		return ""
	}

	// Parsing unquotes quoted local parts, so the rebuilt address can be
	// invalid on its own (e.g. `"a b"@example.com` becomes `a b@...`).
	// Re-parse to keep the output either empty or structurally valid.
	result := local + "@" + domain
	if _, err := mail.ParseAddress(result); err != nil {
		return ""
	}
	return result
}

// Phone strips everything except digits, a leading plus, common grouping
// characters and an extension marker, giving the phone validation rule a
// stable shape to match against.
func Phone(raw string) string {
	s := RemoveNullBytes(raw)
	s = RemoveControlSequences(s)
	s = strings.TrimSpace(s)
	s = phoneCharRegex.ReplaceAllString(s, "")
	// Plus sign only makes sense as a country-code prefix.
	if strings.Contains(s, "+") {
		leading := strings.HasPrefix(s, "+")
		s = strings.ReplaceAll(s, "+", "")
		if leading {
			s = "+" + s
		}
	}
	return strings.TrimSpace(spaceRunRegex.ReplaceAllString(s, " "))
}
