package codec

import (
	"strings"
	"testing"

	"github.com/discoverygen/discoverygen/internal/discovery"
	"github.com/discoverygen/discoverygen/internal/emit"
)

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output missing %q\ngot:\n%s", want, got)
	}
}

func TestEmitPairInt64RoundTrip(t *testing.T) {
	schemas := map[string]*discovery.TypeNode{
		"Balance": {
			Type: "object",
			Properties: map[string]*discovery.TypeNode{
				"amount": {Type: "string", Format: "int64", Required: true},
			},
		},
	}
	w := emit.NewWriter()
	EmitPair(w, "Balance", schemas["Balance"], NewCtx(schemas))
	out := w.String()

	assertContains(t, out, "export function serializeBalance(input)")
	assertContains(t, out, "export function deserializeBalance(input)")
	assertContains(t, out, "String(input.amount)")
	assertContains(t, out, "BigInt(input.amount)")
}

func TestEmitPairReadOnlyOmittedFromSerializer(t *testing.T) {
	schemas := map[string]*discovery.TypeNode{
		"Thing": {
			Type: "object",
			Properties: map[string]*discovery.TypeNode{
				"id":      {Type: "string", Format: "int64", Required: true, ReadOnly: true},
				"balance": {Type: "string", Format: "int64", Required: true},
			},
		},
	}
	w := emit.NewWriter()
	EmitPair(w, "Thing", schemas["Thing"], NewCtx(schemas))
	out := w.String()

	serializePart := out[:strings.Index(out, "deserializeThing")]
	if strings.Contains(serializePart, "input.id") {
		t.Errorf("serializer should omit readOnly field \"id\":\n%s", serializePart)
	}
	deserializePart := out[strings.Index(out, "deserializeThing"):]
	assertContains(t, deserializePart, "input.id")
}

func TestEmitPairByteEmitsBase64Prelude(t *testing.T) {
	schemas := map[string]*discovery.TypeNode{
		"Blob": {Type: "string", Format: "byte"},
	}
	w := emit.NewWriter()
	EmitPair(w, "Blob", schemas["Blob"], NewCtx(schemas))
	out := w.String()

	assertContains(t, out, "__base64Encode(input)")
	assertContains(t, out, "__base64Decode(input)")
	if !UsesBase64(schemas) {
		t.Error("expected UsesBase64 true for a byte-format schema")
	}
}

func TestEmitPairRecursiveSchema(t *testing.T) {
	schemas := map[string]*discovery.TypeNode{
		"Node": {
			Type: "object",
			Properties: map[string]*discovery.TypeNode{
				"amount": {Type: "string", Format: "int64", Required: true},
				"child":  {Ref: "Node"},
			},
		},
	}
	w := emit.NewWriter()
	EmitPair(w, "Node", schemas["Node"], NewCtx(schemas))
	out := w.String()

	assertContains(t, out, "export function serializeNode(input)")
	assertContains(t, out, "serializeNode(")
	assertContains(t, out, "deserializeNode(")
}

func TestPropAccessBracketsDottedNames(t *testing.T) {
	if got := propAccess("x", "plain"); got != "x.plain" {
		t.Errorf("got %q", got)
	}
	if got := propAccess("x", "has.dot"); got != `x["has.dot"]` {
		t.Errorf("got %q", got)
	}
	if got := propAccess("x", "__proto__"); got != `x["__proto__"]` {
		t.Errorf("got %q", got)
	}
}
