package codec

import (
	"fmt"
	"strings"
)

// isJSIdentifier reports whether s can be used in dot-notation property
// access (obj.foo). Names with spaces, dots, or a leading digit must use
// bracket notation instead.
func isJSIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$') {
				return false
			}
		} else if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '$') {
			return false
		}
	}
	return true
}

// propAccess returns a JavaScript property access expression: dot notation
// for valid identifiers, bracket notation otherwise (Invariant 5). __proto__
// always uses bracket notation to avoid shadowing the prototype accessor.
func propAccess(accessor, propName string) string {
	if propName == "__proto__" {
		return accessor + "[\"__proto__\"]"
	}
	if isJSIdentifier(propName) {
		return accessor + "." + propName
	}
	return accessor + "[\"" + stringEscape(propName) + "\"]"
}

// objectKey returns a JavaScript object-literal key: bare for valid
// identifiers, quoted otherwise.
func objectKey(propName string) string {
	if propName == "__proto__" {
		return "[\"__proto__\"]"
	}
	if isJSIdentifier(propName) {
		return propName
	}
	return "\"" + stringEscape(propName) + "\""
}

// stringEscape escapes s for embedding inside a JavaScript double-quoted
// string literal. It covers backslash, quote, control characters, and the
// two Unicode separators that are legal in JSON but not in an unescaped JS
// string literal.
func stringEscape(s string) string {
	const (
		lineSeparator      = 0x2028
		paragraphSeparator = 0x2029
	)
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == rune(lineSeparator) || r == rune(paragraphSeparator):
			fmt.Fprintf(&buf, `\u%04x`, r)
		case r < 0x20:
			fmt.Fprintf(&buf, `\x%02x`, r)
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
