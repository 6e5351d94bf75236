package naming

import (
	"strings"
	"time"
)

// fallbackName is returned by Sanitize when the input reduces to nothing at
// all. It doubles as the prefix literal for inputs that survive sanitizing
// but start with a character the engine rejects.
const fallbackName = "compose-stack"

// prefixLiteral is prepended when a sanitized name does not start with a
// lowercase letter or digit, which the engine requires for project names.
const prefixLiteral = "cs-"

// timeSuffixLayout formats the second-resolution suffix appended by
// ProjectName. Second resolution is a deliberate trade-off: two calls with
// identical inputs within the same wall-clock second collide, which is an
// accepted limitation, not a defect.
const timeSuffixLayout = "20060102150405"

// Sanitize maps an arbitrary identifier onto the engine's legal project-name
// charset. It lowercases the input, replaces every character outside
// [a-z0-9_-] with '-', collapses runs of '-', and strips leading and trailing
// '-'. If the result is empty or starts with a non-alphanumeric character, a
// fixed prefix is applied; if the result is still empty, a fixed fallback
// literal is returned. The output always matches ^[a-z0-9][a-z0-9_-]*$ or
// equals the fallback literal.
func Sanitize(name string) string {
	lowered := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lowered))
	prevDash := false
	for _, r := range lowered {
		legal := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-'
		if !legal {
			r = '-'
		}
		if r == '-' {
			if prevDash {
				continue
			}
			prevDash = true
		} else {
			prevDash = false
		}
		b.WriteRune(r)
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return fallbackName
	}
	if !isAlnum(rune(out[0])) {
		out = prefixLiteral + out
	}
	return out
}

// isAlnum reports whether r is a lowercase ASCII letter or digit.
func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// ProjectName builds a compose project name from the sanitized stack base
// name, test class identifier, optional test method identifier, and a
// second-resolution timestamp. The timestamp reduces collisions between
// concurrently running test processes that share the same identifiers;
// the remaining one-second window is accepted.
func ProjectName(base, classID, methodID string, now time.Time) string {
	parts := []string{Sanitize(base), Sanitize(classID)}
	if methodID != "" {
		parts = append(parts, Sanitize(methodID))
	}
	parts = append(parts, now.Format(timeSuffixLayout))
	return strings.Join(parts, "-")
}
