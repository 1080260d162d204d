package codec

import (
	"testing"

	"github.com/discoverygen/discoverygen/internal/discovery"
)

func requires(t *testing.T, node *discovery.TypeNode, schemas map[string]*discovery.TypeNode) bool {
	t.Helper()
	return RequiresConversion(node, schemas, map[string]bool{})
}

func TestRequiresConversionPrimitives(t *testing.T) {
	cases := []struct {
		name string
		node *discovery.TypeNode
		want bool
	}{
		{"any", &discovery.TypeNode{Type: "any"}, false},
		{"boolean", &discovery.TypeNode{Type: "boolean"}, false},
		{"integer", &discovery.TypeNode{Type: "integer"}, false},
		{"number", &discovery.TypeNode{Type: "number"}, false},
		{"plain string", &discovery.TypeNode{Type: "string"}, false},
		{"byte", &discovery.TypeNode{Type: "string", Format: "byte"}, true},
		{"int64", &discovery.TypeNode{Type: "string", Format: "int64"}, true},
		{"uint64", &discovery.TypeNode{Type: "string", Format: "uint64"}, true},
		{"date", &discovery.TypeNode{Type: "string", Format: "date"}, true},
		{"date-time", &discovery.TypeNode{Type: "string", Format: "date-time"}, true},
		{"google-datetime", &discovery.TypeNode{Type: "string", Format: "google-datetime"}, true},
		// Classified conversion-required for uniformity even though the
		// emitted codec is identity (§4.4, §9).
		{"google-duration", &discovery.TypeNode{Type: "string", Format: "google-duration"}, true},
		{"google-fieldmask", &discovery.TypeNode{Type: "string", Format: "google-fieldmask"}, true},
	}
	for _, tt := range cases {
		if got := requires(t, tt.node, nil); got != tt.want {
			t.Errorf("%s: RequiresConversion = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRequiresConversionArray(t *testing.T) {
	node := &discovery.TypeNode{Type: "array", Items: &discovery.TypeNode{Type: "string", Format: "byte"}}
	if !requires(t, node, nil) {
		t.Error("expected array of byte-format strings to require conversion")
	}
	plain := &discovery.TypeNode{Type: "array", Items: &discovery.TypeNode{Type: "string"}}
	if requires(t, plain, nil) {
		t.Error("expected array of plain strings to not require conversion")
	}
}

func TestRequiresConversionObject(t *testing.T) {
	schemas := map[string]*discovery.TypeNode{}
	node := &discovery.TypeNode{
		Type: "object",
		Properties: map[string]*discovery.TypeNode{
			"name":   {Type: "string"},
			"amount": {Type: "string", Format: "int64"},
		},
	}
	if !requires(t, node, schemas) {
		t.Error("expected object with an int64 field to require conversion")
	}

	allPlain := &discovery.TypeNode{
		Type: "object",
		Properties: map[string]*discovery.TypeNode{
			"name": {Type: "string"},
		},
	}
	if requires(t, allPlain, schemas) {
		t.Error("expected object with only plain fields to not require conversion")
	}
}

func TestRequiresConversionRefWraperOfPlainPrimitive(t *testing.T) {
	schemas := map[string]*discovery.TypeNode{
		"Plain": {Type: "string"},
	}
	ref := &discovery.TypeNode{Ref: "Plain"}
	if requires(t, ref, schemas) {
		t.Error("a $ref to a non-conversion-required primitive should not require conversion")
	}
}

func TestRequiresConversionCycleTerminates(t *testing.T) {
	schemas := map[string]*discovery.TypeNode{
		"A": {Type: "object", Properties: map[string]*discovery.TypeNode{"b": {Ref: "B"}}},
		"B": {Type: "object", Properties: map[string]*discovery.TypeNode{
			"a":      {Ref: "A"},
			"amount": {Type: "string", Format: "int64"},
		}},
	}
	// Must terminate and must discover the int64 leaf reachable through the
	// cycle.
	if !requires(t, schemas["A"], schemas) {
		t.Error("expected cyclic schema reaching an int64 leaf to require conversion")
	}
}

func TestSchemasRequiringConversionSorted(t *testing.T) {
	schemas := map[string]*discovery.TypeNode{
		"Zeta":  {Type: "string", Format: "byte"},
		"Alpha": {Type: "string", Format: "int64"},
		"Plain": {Type: "string"},
	}
	got := SchemasRequiringConversion(schemas)
	want := []string{"Alpha", "Zeta"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestUsesBase64(t *testing.T) {
	withByte := map[string]*discovery.TypeNode{"X": {Type: "string", Format: "byte"}}
	if !UsesBase64(withByte) {
		t.Error("expected UsesBase64 true")
	}
	without := map[string]*discovery.TypeNode{"X": {Type: "string", Format: "int64"}}
	if UsesBase64(without) {
		t.Error("expected UsesBase64 false")
	}
}
