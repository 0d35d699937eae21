package sanitizer

// Kind selects which sanitizer applies to a field value.
type Kind int

const (
	// KindLine is the default: single-line text, markup stripped.
	KindLine Kind = iota
	// KindText preserves newlines for multi-line input.
	KindText
	// KindEmail normalizes or blanks the value.
	KindEmail
	// KindPhone keeps only phone-shaped characters.
	KindPhone
)

func (k Kind) apply(raw string) string {
	switch k {
	case KindText:
		return Text(raw)
	case KindEmail:
		return Email(raw)
	case KindPhone:
		return Phone(raw)
	default:
		return Line(raw)
	}
}

// Fields returns a new map with every value cleaned according to the declared
// kinds. Fields without a declared kind are treated as single-line text.
// The input map is not modified.
func Fields(fields map[string]string, kinds map[string]Kind) map[string]string {
	cleaned := make(map[string]string, len(fields))
	for name, value := range fields {
		cleaned[name] = kinds[name].apply(value)
	}
	return cleaned
}
