package codec

import (
	"sort"

	"github.com/discoverygen/discoverygen/internal/discovery"
)

// RequiresConversion reports whether values of this type need a
// serialize/deserialize pair because their wire representation (JSON) and
// their runtime representation (what client code touches) differ: base64
// bytes, 64-bit integers carried as strings, and date/time/duration/
// fieldmask strings.
//
// visited is scoped to a single top-level query, not shared globally, so
// that cyclic schemas (A referencing B referencing A) terminate: a ref
// already on the current path is assumed not to force conversion by
// itself — if it does, the cycle's own recursive call already discovered
// that and a named codec function handles it at call time.
func RequiresConversion(node *discovery.TypeNode, schemas map[string]*discovery.TypeNode, visited map[string]bool) bool {
	if node == nil {
		return false
	}

	switch node.Kind() {
	case discovery.KindRef:
		if visited[node.Ref] {
			return false
		}
		// An unresolved ref here would mean a caller skipped
		// discovery.ValidateSchemas, which rejects this as fatal before any
		// analysis pass runs; this branch only guards against that.
		target, ok := schemas[node.Ref]
		if !ok {
			return false
		}
		visited[node.Ref] = true
		return RequiresConversion(target, schemas, visited)

	case discovery.KindString:
		// Every format, including google-duration/google-fieldmask, is
		// conversion-required: those two emit identity codecs today but are
		// classified this way for uniformity, so a future richer runtime
		// type can replace the identity without changing which schemas get
		// a codec pair (§4.4, §9).
		return discovery.StringFormat(node.Format) != discovery.FormatNone

	case discovery.KindArray:
		return RequiresConversion(node.Items, schemas, visited)

	case discovery.KindObject:
		if node.AdditionalProperties != nil {
			return RequiresConversion(node.AdditionalProperties, schemas, visited)
		}
		for _, prop := range sortedProps(node) {
			if RequiresConversion(prop, schemas, visited) {
				return true
			}
		}
		return false

	default:
		return false
	}
}

func sortedProps(node *discovery.TypeNode) []*discovery.TypeNode {
	names := make([]string, 0, len(node.Properties))
	for name := range node.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	props := make([]*discovery.TypeNode, 0, len(names))
	for _, name := range names {
		props = append(props, node.Properties[name])
	}
	return props
}

// UsesBase64 reports whether any schema in the table reaches a byte-format
// string, meaning the module needs the __base64Encode/__base64Decode
// prelude emitted once.
func UsesBase64(schemas map[string]*discovery.TypeNode) bool {
	for name := range schemas {
		if nodeUsesBase64(schemas[name], schemas, map[string]bool{name: true}) {
			return true
		}
	}
	return false
}

func nodeUsesBase64(node *discovery.TypeNode, schemas map[string]*discovery.TypeNode, visited map[string]bool) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case discovery.KindRef:
		if visited[node.Ref] {
			return false
		}
		target, ok := schemas[node.Ref]
		if !ok {
			return false
		}
		visited[node.Ref] = true
		return nodeUsesBase64(target, schemas, visited)
	case discovery.KindString:
		return discovery.StringFormat(node.Format) == discovery.FormatByte
	case discovery.KindArray:
		return nodeUsesBase64(node.Items, schemas, visited)
	case discovery.KindObject:
		if node.AdditionalProperties != nil {
			return nodeUsesBase64(node.AdditionalProperties, schemas, visited)
		}
		for _, prop := range sortedProps(node) {
			if nodeUsesBase64(prop, schemas, visited) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// SchemasRequiringConversion scans the full schema table and returns the
// sorted names of the named schemas for which a codec pair must be emitted.
// Each schema gets its own visited set per the per-query scoping rule above.
func SchemasRequiringConversion(schemas map[string]*discovery.TypeNode) []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		if RequiresConversion(schemas[name], schemas, map[string]bool{name: true}) {
			out = append(out, name)
		}
	}
	return out
}
