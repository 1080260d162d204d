// Package typeprint renders Discovery type nodes as TypeScript type
// expressions (§4.3 of the generator design).
package typeprint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/discoverygen/discoverygen/internal/discovery"
)

// Print emits the TypeScript type expression for an arbitrary type node.
// It is a pure function: given the same node it always produces the same
// text.
func Print(node *discovery.TypeNode) string {
	if node == nil {
		return "any"
	}

	switch node.Kind() {
	case discovery.KindRef:
		return node.Ref

	case discovery.KindAny:
		return "any"

	case discovery.KindBoolean:
		return "boolean"

	case discovery.KindInteger, discovery.KindNumber:
		return "number"

	case discovery.KindString:
		return printString(node)

	case discovery.KindArray:
		if node.Items == nil {
			panic(&discovery.SchemaError{Message: "array type node is missing \"items\""})
		}
		return printArray(node)

	case discovery.KindObject:
		return printObject(node)

	default:
		panic(&discovery.SchemaError{Message: fmt.Sprintf("unsupported type tag %q", node.Type)})
	}
}

func printString(node *discovery.TypeNode) string {
	ts := stringBaseType(node)
	if node.Repeated {
		return ts + "[]"
	}
	return ts
}

func stringBaseType(node *discovery.TypeNode) string {
	if node.HasEnum() {
		return printEnum(node.Enum)
	}
	switch discovery.StringFormat(node.Format) {
	case discovery.FormatByte:
		return "Uint8Array"
	case discovery.FormatInt64, discovery.FormatUint64:
		return "bigint"
	case discovery.FormatDate, discovery.FormatDateTime, discovery.FormatGoogleDateTime:
		return "Date"
	case discovery.FormatGoogleDuration:
		return "number /* Duration */"
	case discovery.FormatGoogleFieldMask:
		return "string /* FieldMask */"
	default:
		return "string"
	}
}

func printEnum(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Quote(v)
	}
	return strings.Join(parts, " | ")
}

func printArray(node *discovery.TypeNode) string {
	inner := Print(node.Items)
	if strings.Contains(inner, " | ") && !strings.HasPrefix(inner, "(") {
		return "(" + inner + ")[]"
	}
	return inner + "[]"
}

func printObject(node *discovery.TypeNode) string {
	// discovery.ValidateSchemas rejects a schema with both "properties" and
	// "additionalProperties" populated before any printing pass runs, so
	// additionalProperties taking precedence here never actually discards
	// a populated properties map.
	if node.AdditionalProperties != nil {
		return "{ [key: string]: " + Print(node.AdditionalProperties) + " }"
	}
	if len(node.Properties) > 0 {
		return printInlineFields(node)
	}
	return "Record<string, unknown>"
}

func printInlineFields(node *discovery.TypeNode) string {
	names := make([]string, 0, len(node.Properties))
	for name := range node.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]string, 0, len(names))
	for _, name := range names {
		prop := node.Properties[name]
		opt := "?"
		if prop.Required {
			opt = ""
		}
		fields = append(fields, fmt.Sprintf("%s%s: %s", PropertyKey(name), opt, Print(prop)))
	}
	return "{ " + strings.Join(fields, "; ") + " }"
}

// PropertyKey returns a TypeScript-safe object key: bare when name is a
// valid identifier, bracketed/quoted otherwise. Identifiers containing "."
// or other non-identifier characters must never be emitted bare (Invariant 5).
func PropertyKey(name string) string {
	if isIdentifier(name) {
		return name
	}
	return strconv.Quote(name)
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case i == 0 && (r == '_' || r == '$' || isAlpha(r)):
		case i > 0 && (r == '_' || r == '$' || isAlpha(r) || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
