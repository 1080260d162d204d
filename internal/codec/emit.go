package codec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/discoverygen/discoverygen/internal/discovery"
	"github.com/discoverygen/discoverygen/internal/emit"
)

// Ctx tracks which named schemas are currently being expanded inline, so
// that a cyclic reference (A contains B contains A) is broken by emitting a
// call to the other schema's own codec function instead of recursing
// forever. The set of schemas being expanded is empty again whenever
// EmitPair returns, so one Ctx can be reused for every top-level schema.
type Ctx struct {
	Schemas    map[string]*discovery.TypeNode
	generating map[string]bool
}

// NewCtx creates a codec emission context over the document's schema table.
func NewCtx(schemas map[string]*discovery.TypeNode) *Ctx {
	return &Ctx{Schemas: schemas, generating: map[string]bool{}}
}

// EmitPair writes the serializeX/deserializeX function pair for a named
// schema that RequiresConversion reported true for.
func EmitPair(w *emit.Writer, name string, node *discovery.TypeNode, ctx *Ctx) {
	ctx.generating[name] = true
	w.Block("export function serialize%s(input)", name)
	w.Line("return %s;", serializeExpr("input", node, ctx))
	w.EndBlock()
	w.Blank()
	w.Block("export function deserialize%s(input)", name)
	w.Line("return %s;", deserializeExpr("input", node, ctx))
	w.EndBlock()
	delete(ctx.generating, name)
}

// SerializeFieldExpr renders the runtime-to-wire conversion expression for a
// single value of the given type, for use outside a named schema's own
// codec pair — e.g. a method's path or query parameter (§4.6.3). Callers
// should guard with RequiresConversion first; this always returns a valid
// expression (identity when no conversion applies).
func SerializeFieldExpr(accessor string, node *discovery.TypeNode, schemas map[string]*discovery.TypeNode) string {
	return serializeExpr(accessor, node, NewCtx(schemas))
}

func serializeExpr(accessor string, node *discovery.TypeNode, ctx *Ctx) string {
	switch node.Kind() {
	case discovery.KindRef:
		// discovery.ValidateSchemas rejects an unresolved ref before any
		// emission pass runs; this fallback only guards against a caller
		// that skipped it.
		target, ok := ctx.Schemas[node.Ref]
		if !ok {
			return accessor
		}
		if ctx.generating[node.Ref] {
			return fmt.Sprintf("serialize%s(%s)", node.Ref, accessor)
		}
		ctx.generating[node.Ref] = true
		result := serializeExpr(accessor, target, ctx)
		delete(ctx.generating, node.Ref)
		return result

	case discovery.KindString:
		return serializeString(accessor, node)

	case discovery.KindArray:
		if !RequiresConversion(node.Items, ctx.Schemas, map[string]bool{}) {
			return accessor
		}
		elem := serializeExpr("x", node.Items, ctx)
		return fmt.Sprintf("(%s == null ? %s : %s.map(function(x) { return %s; }))", accessor, accessor, accessor, elem)

	case discovery.KindObject:
		if node.AdditionalProperties != nil {
			if !RequiresConversion(node.AdditionalProperties, ctx.Schemas, map[string]bool{}) {
				return accessor
			}
			valExpr := serializeExpr("v", node.AdditionalProperties, ctx)
			return fmt.Sprintf(
				"(%s == null ? %s : Object.fromEntries(Object.entries(%s).map(function(e) { var v = e[1]; return [e[0], %s]; })))",
				accessor, accessor, accessor, valExpr,
			)
		}
		return serializeObject(accessor, node, ctx)

	default:
		return accessor
	}
}

func serializeString(accessor string, node *discovery.TypeNode) string {
	switch discovery.StringFormat(node.Format) {
	case discovery.FormatByte:
		return fmt.Sprintf("(%s == null ? %s : __base64Encode(%s))", accessor, accessor, accessor)
	case discovery.FormatInt64, discovery.FormatUint64:
		return fmt.Sprintf("(%s == null ? %s : String(%s))", accessor, accessor, accessor)
	case discovery.FormatDate, discovery.FormatDateTime, discovery.FormatGoogleDateTime:
		return fmt.Sprintf("(%s == null ? %s : %s.toISOString())", accessor, accessor, accessor)
	default:
		return accessor
	}
}

func serializeObject(accessor string, node *discovery.TypeNode, ctx *Ctx) string {
	names := sortedPropertyNames(node)
	if len(names) == 0 {
		return accessor
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("(function() { if (%s == null) return %s; var out = {};", accessor, accessor))
	for _, name := range names {
		prop := node.Properties[name]
		if prop.ReadOnly {
			// readOnly fields are server-assigned; the serializer never
			// sends them back on the wire (§4.5).
			continue
		}
		propAccessor := propAccess(accessor, name)
		valExpr := serializeExpr(propAccessor, prop, ctx)
		assign := fmt.Sprintf("out[%s] = %s;", quoteKey(name), valExpr)
		if !prop.Required {
			lines = append(lines, fmt.Sprintf("if (%s !== undefined) { %s }", propAccessor, assign))
		} else {
			lines = append(lines, assign)
		}
	}
	lines = append(lines, "return out; })()")
	return strings.Join(lines, " ")
}

func deserializeExpr(accessor string, node *discovery.TypeNode, ctx *Ctx) string {
	switch node.Kind() {
	case discovery.KindRef:
		// Same guard as serializeExpr: unreachable once ValidateSchemas has
		// run, kept only as a defensive fallback.
		target, ok := ctx.Schemas[node.Ref]
		if !ok {
			return accessor
		}
		if ctx.generating[node.Ref] {
			return fmt.Sprintf("deserialize%s(%s)", node.Ref, accessor)
		}
		ctx.generating[node.Ref] = true
		result := deserializeExpr(accessor, target, ctx)
		delete(ctx.generating, node.Ref)
		return result

	case discovery.KindString:
		return deserializeString(accessor, node)

	case discovery.KindArray:
		if !RequiresConversion(node.Items, ctx.Schemas, map[string]bool{}) {
			return accessor
		}
		elem := deserializeExpr("x", node.Items, ctx)
		return fmt.Sprintf("(%s == null ? %s : %s.map(function(x) { return %s; }))", accessor, accessor, accessor, elem)

	case discovery.KindObject:
		if node.AdditionalProperties != nil {
			if !RequiresConversion(node.AdditionalProperties, ctx.Schemas, map[string]bool{}) {
				return accessor
			}
			valExpr := deserializeExpr("v", node.AdditionalProperties, ctx)
			return fmt.Sprintf(
				"(%s == null ? %s : Object.fromEntries(Object.entries(%s).map(function(e) { var v = e[1]; return [e[0], %s]; })))",
				accessor, accessor, accessor, valExpr,
			)
		}
		return deserializeObject(accessor, node, ctx)

	default:
		return accessor
	}
}

func deserializeString(accessor string, node *discovery.TypeNode) string {
	switch discovery.StringFormat(node.Format) {
	case discovery.FormatByte:
		return fmt.Sprintf("(%s == null ? %s : __base64Decode(%s))", accessor, accessor, accessor)
	case discovery.FormatInt64, discovery.FormatUint64:
		return fmt.Sprintf("(%s == null ? %s : BigInt(%s))", accessor, accessor, accessor)
	case discovery.FormatDate, discovery.FormatDateTime, discovery.FormatGoogleDateTime:
		return fmt.Sprintf("(%s == null ? %s : new Date(%s))", accessor, accessor, accessor)
	default:
		return accessor
	}
}

func deserializeObject(accessor string, node *discovery.TypeNode, ctx *Ctx) string {
	names := sortedPropertyNames(node)
	if len(names) == 0 {
		return accessor
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("(function() { if (%s == null) return %s; var out = {};", accessor, accessor))
	for _, name := range names {
		prop := node.Properties[name]
		propAccessor := propAccess(accessor, name)
		valExpr := deserializeExpr(propAccessor, prop, ctx)
		assign := fmt.Sprintf("out[%s] = %s;", quoteKey(name), valExpr)
		if !prop.Required {
			lines = append(lines, fmt.Sprintf("if (%s !== undefined) { %s }", propAccessor, assign))
		} else {
			lines = append(lines, assign)
		}
	}
	lines = append(lines, "return out; })()")
	return strings.Join(lines, " ")
}

// sortedPropertyNames returns every property name on an object schema, in a
// deterministic order. Every property is copied into the codec's output
// object; conversion is applied per-property by serializeExpr/deserializeExpr,
// which fall through to a plain accessor for properties that need none.
func sortedPropertyNames(node *discovery.TypeNode) []string {
	names := make([]string, 0, len(node.Properties))
	for name := range node.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// quoteKey renders name as a double-quoted JavaScript string literal, for
// use as the index in an "out[...]" assignment.
func quoteKey(name string) string {
	return "\"" + stringEscape(name) + "\""
}

// Base64Prelude is the helper pair emitted once into a module when any
// codec function references __base64Encode/__base64Decode.
const Base64Prelude = `function __base64Encode(bytes) {
  var binary = "";
  for (var i = 0; i < bytes.length; i++) binary += String.fromCharCode(bytes[i]);
  return btoa(binary);
}

function __base64Decode(value) {
  var binary = atob(value);
  var bytes = new Uint8Array(binary.length);
  for (var i = 0; i < binary.length; i++) bytes[i] = binary.charCodeAt(i);
  return bytes;
}
`
