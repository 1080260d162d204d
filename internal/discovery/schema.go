package discovery

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TypeNode is a tagged union over {any, array, boolean, integer, number,
// string, object, ref}. The active tag is inferred from which fields are
// populated rather than stored explicitly, mirroring the wire shape of a
// Discovery document.
type TypeNode struct {
	Type        string    `json:"type"`
	Ref         string    `json:"$ref"`
	Format      string    `json:"format"`
	Enum        []string  `json:"enum"`
	Items       *TypeNode `json:"items"`
	Properties  map[string]*TypeNode `json:"properties"`
	AdditionalProperties *TypeNode   `json:"additionalProperties"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	ReadOnly    bool   `json:"readOnly"`
	Repeated    bool   `json:"repeated"`
}

// Kind classifies a TypeNode's tag.
type Kind int

const (
	KindAny Kind = iota
	KindArray
	KindBoolean
	KindInteger
	KindNumber
	KindString
	KindObject
	KindRef
	KindUnknown
)

// StringFormat enumerates the string formats the generator understands.
type StringFormat string

const (
	FormatNone           StringFormat = ""
	FormatByte           StringFormat = "byte"
	FormatInt64          StringFormat = "int64"
	FormatUint64         StringFormat = "uint64"
	FormatDate           StringFormat = "date"
	FormatDateTime       StringFormat = "date-time"
	FormatGoogleDateTime StringFormat = "google-datetime"
	FormatGoogleDuration StringFormat = "google-duration"
	FormatGoogleFieldMask StringFormat = "google-fieldmask"
)

// Kind reports the node's tagged-union variant.
func (n *TypeNode) Kind() Kind {
	if n == nil {
		return KindAny
	}
	switch {
	case n.Ref != "":
		return KindRef
	case n.Type == "array":
		return KindArray
	case n.Type == "boolean":
		return KindBoolean
	case n.Type == "integer":
		return KindInteger
	case n.Type == "number":
		return KindNumber
	case n.Type == "string":
		return KindString
	case n.Type == "object":
		return KindObject
	case n.Type == "any", n.Type == "":
		return KindAny
	default:
		return KindUnknown
	}
}

// HasEnum reports whether this string node carries an enum list.
func (n *TypeNode) HasEnum() bool {
	return n != nil && len(n.Enum) > 0
}

var titleCaser = cases.Title(language.Und)

// Capitalize upper-cases the first rune of s, leaving the rest untouched.
// Used to join resource/method path segments into camelCase and PascalCase
// identifiers (§4.2).
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return titleCaser.String(s[:size]) + s[size:]
}

// PrimaryName computes the client class name from the document's raw `name`
// and a list of title words (typically title.split(" ")). It walks name
// left-to-right; at each position it tries each word in words and, if name
// starts with that word case-insensitively at the current position, splices
// the word's original casing into name and advances by the word's length;
// otherwise it advances by one character.
//
// For example, primaryName("bigquery", ["BigQuery", "API"]) yields
// "BigQuery".
func PrimaryName(name string, words []string) string {
	var out strings.Builder
	i := 0
	for i < len(name) {
		matched := false
		for _, w := range words {
			if w == "" {
				continue
			}
			if i+len(w) <= len(name) && strings.EqualFold(name[i:i+len(w)], w) {
				out.WriteString(w)
				i += len(w)
				matched = true
				break
			}
		}
		if !matched {
			out.WriteByte(name[i])
			i++
		}
	}
	return out.String()
}
