package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// phoneRegex accepts an optional country code, grouped digits with common
// separators and an optional extension, e.g. "+91 98765 43210",
// "(022) 2345-6789" or "9876543210 x42".
var phoneRegex = regexp.MustCompile(`^(\+\d{1,3}[ .-]?)?(\(\d{1,5}\)[ .-]?)?\d(?:[ .-]?\d){6,14}(?:[ ]?(?:x|ext\.?)[ ]?\d{1,5})?$`)

// Required fails when the value is empty or whitespace-only.
func Required() Rule {
	return Rule{
		check: func(value string) bool {
			return strings.TrimSpace(value) != ""
		},
		message: "field is required",
	}
}

// Email fails when a non-empty value is not a structurally valid address.
// Beyond RFC 5322 parsing, the domain must contain at least one dot with no
// empty labels, matching what web forms conventionally accept.
func Email() Rule {
	return Rule{
		check: func(value string) bool {
			if value == "" {
				return true
			}
			addr, err := mail.ParseAddress(value)
			if err != nil {
				return false
			}
			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" {
				return false
			}
			if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return true
		},
		message: "must be a valid email address",
	}
}

// MinLen fails when a non-empty value has fewer than min characters.
// Lengths are counted in runes, not bytes.
func MinLen(min int) Rule {
	return Rule{
		check: func(value string) bool {
			return value == "" || utf8.RuneCountInString(value) >= min
		},
		message: fmt.Sprintf("must be at least %d characters long", min),
	}
}

// MaxLen fails when the value has more than max characters.
func MaxLen(max int) Rule {
	return Rule{
		check: func(value string) bool {
			return utf8.RuneCountInString(value) <= max
		},
		message: fmt.Sprintf("must be at most %d characters long", max),
	}
}

// AlphaSpace fails when a non-empty value contains anything besides letters
// and spaces. Letters are Unicode-aware so accented names pass.
func AlphaSpace() Rule {
	return Rule{
		check: func(value string) bool {
			for _, r := range value {
				if !unicode.IsLetter(r) && r != ' ' {
					return false
				}
			}
			return true
		},
		message: "must contain only letters and spaces",
	}
}

// Phone fails when a non-empty value does not match an accepted phone shape.
func Phone() Rule {
	return Rule{
		check: func(value string) bool {
			return value == "" || phoneRegex.MatchString(value)
		},
		message: "must be a valid phone number",
	}
}

// Contains fails when a non-empty value does not contain substr.
func Contains(substr string) Rule {
	return Rule{
		check: func(value string) bool {
			return value == "" || strings.Contains(value, substr)
		},
		message: fmt.Sprintf("must contain %q", substr),
	}
}

// OneOf fails when a non-empty value is not one of the allowed choices.
func OneOf(choices ...string) Rule {
	return Rule{
		check: func(value string) bool {
			if value == "" {
				return true
			}
			for _, c := range choices {
				if value == c {
					return true
				}
			}
			return false
		},
		message: "must be one of: " + strings.Join(choices, ", "),
	}
}
