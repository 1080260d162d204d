package methodgen

import (
	"strings"
	"testing"

	"github.com/discoverygen/discoverygen/internal/discovery"
	"github.com/discoverygen/discoverygen/internal/emit"
)

func TestOptionsTypeName(t *testing.T) {
	rec := discovery.MethodRecord{PascalCaseName: "ThingsGet"}
	if got := OptionsTypeName(rec); got != "" {
		t.Errorf("expected empty name with no query params, got %q", got)
	}
	rec.QueryParams = []discovery.NamedParam{{Name: "filter", Type: &discovery.TypeNode{Type: "string"}}}
	if got := OptionsTypeName(rec); got != "ThingsGetOptions" {
		t.Errorf("got %q, want ThingsGetOptions", got)
	}
}

func TestPlusPathTemplateEquivalentToPlain(t *testing.T) {
	plain := discovery.MethodRecord{Path: "things/{thingId}", CamelCaseName: "thingsGet",
		PathParams: []discovery.NamedParam{{Name: "thingId", Type: &discovery.TypeNode{Type: "string", Required: true}}}}
	plus := discovery.MethodRecord{Path: "things/{+thingId}", CamelCaseName: "thingsGet",
		PathParams: []discovery.NamedParam{{Name: "thingId", Type: &discovery.TypeNode{Type: "string", Required: true}}}}

	w1, w2 := emit.NewWriter(), emit.NewWriter()
	Emit(w1, plain, map[string]*discovery.TypeNode{})
	Emit(w2, plus, map[string]*discovery.TypeNode{})
	if w1.String() != w2.String() {
		t.Errorf("{name} and {+name} should emit identically:\n%s\n---\n%s", w1.String(), w2.String())
	}
}

func TestEmitDocWrapping(t *testing.T) {
	rec := discovery.MethodRecord{
		CamelCaseName: "thingsList",
		Description:   strings.Repeat("word ", 30),
	}
	w := emit.NewWriter()
	Emit(w, rec, map[string]*discovery.TypeNode{})
	out := w.String()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "*") && len(line) > WrapWidth(0)+3 {
			t.Errorf("doc comment line exceeds wrap width: %q", line)
		}
	}
}

func TestEmitDocEscapesCommentTerminator(t *testing.T) {
	rec := discovery.MethodRecord{CamelCaseName: "thingsList", Description: "contains */ inside"}
	w := emit.NewWriter()
	Emit(w, rec, map[string]*discovery.TypeNode{})
	out := w.String()
	if strings.Contains(out, "*/ inside") {
		t.Error("expected */ to be escaped in doc comment")
	}
	if !strings.Contains(out, `*\/`) {
		t.Error("expected escaped */ sequence in output")
	}
}

func TestEmitDocIncludesParamLines(t *testing.T) {
	rec := discovery.MethodRecord{
		CamelCaseName: "thingsGet",
		Description:   "Gets a thing.",
		PathParams: []discovery.NamedParam{
			{Name: "thingId", Type: &discovery.TypeNode{Type: "string", Required: true}, Description: "The thing ID."},
		},
		QueryParams: []discovery.NamedParam{
			{Name: "filter", Type: &discovery.TypeNode{Type: "string"}, Description: "A filter expression."},
		},
	}
	w := emit.NewWriter()
	Emit(w, rec, map[string]*discovery.TypeNode{})
	out := w.String()
	if !strings.Contains(out, "@param thingId The thing ID.") {
		t.Errorf("expected @param line for thingId:\n%s", out)
	}
	if !strings.Contains(out, "@param filter A filter expression.") {
		t.Errorf("expected @param line for filter:\n%s", out)
	}
}

func TestEmitDocOmitsParamLineWithoutDescription(t *testing.T) {
	rec := discovery.MethodRecord{
		CamelCaseName: "thingsGet",
		PathParams: []discovery.NamedParam{
			{Name: "thingId", Type: &discovery.TypeNode{Type: "string", Required: true}},
		},
	}
	w := emit.NewWriter()
	Emit(w, rec, map[string]*discovery.TypeNode{})
	out := w.String()
	if strings.Contains(out, "@param") {
		t.Errorf("expected no @param line when no parameter has a description:\n%s", out)
	}
	if strings.Contains(out, "/**") {
		t.Errorf("expected no doc comment at all when nothing has a description:\n%s", out)
	}
}

func TestQueryParamByteFormatIsBase64Encoded(t *testing.T) {
	rec := discovery.MethodRecord{
		CamelCaseName: "thingsList",
		HTTPMethod:    "GET",
		Path:          "things",
		QueryParams: []discovery.NamedParam{
			{Name: "cursor", Type: &discovery.TypeNode{Type: "string", Format: "byte"}},
		},
	}
	w := emit.NewWriter()
	Emit(w, rec, map[string]*discovery.TypeNode{})
	out := w.String()
	if !strings.Contains(out, "__base64Encode(opts.cursor)") {
		t.Errorf("expected byte-format query parameter to be base64 encoded before appending:\n%s", out)
	}
	if strings.Contains(out, "String(opts.cursor)") {
		t.Errorf("byte-format query parameter should not be coerced with a bare String():\n%s", out)
	}
}

func TestQueryParamDateFormatUsesISOString(t *testing.T) {
	rec := discovery.MethodRecord{
		CamelCaseName: "thingsList",
		HTTPMethod:    "GET",
		Path:          "things",
		QueryParams: []discovery.NamedParam{
			{Name: "since", Type: &discovery.TypeNode{Type: "string", Format: "date-time"}},
		},
	}
	w := emit.NewWriter()
	Emit(w, rec, map[string]*discovery.TypeNode{})
	out := w.String()
	if !strings.Contains(out, "opts.since.toISOString()") {
		t.Errorf("expected date-time query parameter to be ISO-stringified before appending:\n%s", out)
	}
}
