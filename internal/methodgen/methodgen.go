// Package methodgen emits the client-class method for one flattened
// Discovery method record: its JSDoc, its signature, URL-template and
// query-string assembly, and its request/response wiring to the codec
// functions produced by internal/codec.
package methodgen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/discoverygen/discoverygen/internal/codec"
	"github.com/discoverygen/discoverygen/internal/discovery"
	"github.com/discoverygen/discoverygen/internal/emit"
	"github.com/discoverygen/discoverygen/internal/typeprint"
)

var pathParamPattern = regexp.MustCompile(`\{(\+?)([a-zA-Z0-9_]+)\}`)

// OptionsTypeName returns the synthetic schema name a method record's query
// parameters are registered under (§4.6.2), or "" if it has none.
func OptionsTypeName(rec discovery.MethodRecord) string {
	if len(rec.QueryParams) == 0 {
		return ""
	}
	return rec.PascalCaseName + "Options"
}

// Emit writes a single method onto the primary client class. schemas is the
// (already synthetic-options-augmented) schema table, used to decide which
// parameters and the response need conversion.
func Emit(w *emit.Writer, rec discovery.MethodRecord, schemas map[string]*discovery.TypeNode) {
	emitDoc(w, rec)

	sig := buildSignature(rec)
	w.Block("async %s(%s)%s", rec.CamelCaseName, sig, returnType(rec))
	emitBody(w, rec, schemas)
	w.EndBlock()
	w.Blank()
}

func returnType(rec discovery.MethodRecord) string {
	if rec.Response == nil {
		return ": Promise<void>"
	}
	return fmt.Sprintf(": Promise<%s>", rec.Response.Ref)
}

// buildSignature renders the positional argument list: each path parameter
// (sorted), then req if the method has a request body, then opts if it has
// query parameters (§4.6.1).
func buildSignature(rec discovery.MethodRecord) string {
	var params []string
	for _, p := range rec.PathParams {
		params = append(params, fmt.Sprintf("%s: %s", p.Name, typeprint.Print(p.Type)))
	}
	if rec.Request != nil {
		params = append(params, fmt.Sprintf("req: %s", rec.Request.Ref))
	}
	if opts := OptionsTypeName(rec); opts != "" {
		params = append(params, fmt.Sprintf("opts: %s = {}", opts))
	}
	return strings.Join(params, ", ")
}

func emitBody(w *emit.Writer, rec discovery.MethodRecord, schemas map[string]*discovery.TypeNode) {
	emitParamConversions(w, rec, schemas)

	w.Line("const url = new URL(%s);", buildURLExpr(rec))
	if len(rec.QueryParams) > 0 {
		emitQueryString(w, rec, schemas)
	}

	reqOpts := fmt.Sprintf("{ client: this.#client, method: %s }", jsQuote(rec.HTTPMethod))
	if rec.Request != nil {
		bodyExpr := "req"
		reqSchema := &discovery.TypeNode{Ref: rec.Request.Ref}
		if codec.RequiresConversion(reqSchema, schemas, map[string]bool{}) {
			bodyExpr = fmt.Sprintf("serialize%s(req)", rec.Request.Ref)
		}
		w.Line("const body = JSON.stringify(%s);", bodyExpr)
		reqOpts = fmt.Sprintf("{ client: this.#client, method: %s, body }", jsQuote(rec.HTTPMethod))
	}
	w.Line("const data = await request(url.href, %s);", reqOpts)

	if rec.Response == nil {
		w.Line("return;")
		return
	}
	respSchema := &discovery.TypeNode{Ref: rec.Response.Ref}
	if codec.RequiresConversion(respSchema, schemas, map[string]bool{}) {
		w.Line("return deserialize%s(data);", rec.Response.Ref)
	} else {
		w.Line("return data as %s;", rec.Response.Ref)
	}
}

// emitParamConversions reassigns each path parameter that requires
// runtime-to-wire conversion through its serializer, in place, before the
// URL is built from it (§4.6.3).
func emitParamConversions(w *emit.Writer, rec discovery.MethodRecord, schemas map[string]*discovery.TypeNode) {
	for _, p := range rec.PathParams {
		if !codec.RequiresConversion(p.Type, schemas, map[string]bool{}) {
			continue
		}
		w.Line("%s = %s;", p.Name, codec.SerializeFieldExpr(p.Name, p.Type, schemas))
	}
}

// buildURLExpr renders the path-template substitution as a JS template
// literal anchored at this.baseUrl. {name} and {+name} are treated
// identically: both substitute the path parameter's string form via
// encodeURIComponent (Discovery path parameters never contain "/").
func buildURLExpr(rec discovery.MethodRecord) string {
	var b strings.Builder
	b.WriteString("`")
	b.WriteString("${this.baseUrl}")
	last := 0
	path := rec.Path
	for _, loc := range pathParamPattern.FindAllStringSubmatchIndex(path, -1) {
		b.WriteString(jsTemplateEscape(path[last:loc[0]]))
		name := path[loc[4]:loc[5]]
		b.WriteString("${encodeURIComponent(String(" + name + "))}")
		last = loc[1]
	}
	b.WriteString(jsTemplateEscape(path[last:]))
	b.WriteString("`")
	return b.String()
}

func jsTemplateEscape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "`", "\\`")
	s = strings.ReplaceAll(s, "${", "\\${")
	return s
}

// emitQueryString appends one url.searchParams entry per present query
// parameter (sorted), iterating repeated parameters element-wise (§4.6.5).
// Each parameter whose schema requires conversion is run through its
// serializer before being appended; a parameter that needs no conversion is
// just coerced to a string (§4.6.3 applies to query parameters exactly as it
// does to path parameters and the request body).
func emitQueryString(w *emit.Writer, rec discovery.MethodRecord, schemas map[string]*discovery.TypeNode) {
	names := make([]string, len(rec.QueryParams))
	byName := map[string]discovery.NamedParam{}
	for i, p := range rec.QueryParams {
		names[i] = p.Name
		byName[p.Name] = p
	}
	sort.Strings(names)

	for _, name := range names {
		p := byName[name]
		accessor := "opts." + name
		key := jsQuote(name)
		requiresConversion := codec.RequiresConversion(p.Type, schemas, map[string]bool{})
		if p.Repeated {
			w.Block("if (%s !== undefined)", accessor)
			w.Block("for (const v of %s)", accessor)
			w.Line("url.searchParams.append(%s, %s);", key, queryValueExpr("v", p.Type, schemas, requiresConversion))
			w.EndBlock()
			w.EndBlock()
		} else {
			w.Block("if (%s !== undefined)", accessor)
			w.Line("url.searchParams.append(%s, %s);", key, queryValueExpr(accessor, p.Type, schemas, requiresConversion))
			w.EndBlock()
		}
	}
}

// queryValueExpr renders the string expression appended to the query string
// for one value: its serializer output when the schema requires conversion
// (already wire-shaped, e.g. base64 or an ISO-8601 string), or a bare
// String() coercion otherwise.
func queryValueExpr(accessor string, node *discovery.TypeNode, schemas map[string]*discovery.TypeNode, requiresConversion bool) string {
	if requiresConversion {
		return codec.SerializeFieldExpr(accessor, node, schemas)
	}
	return fmt.Sprintf("String(%s)", accessor)
}

func jsQuote(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

// WrapWidth returns the usable text width for a doc-comment line at the
// given indentation depth, matching the module's output formatting.
func WrapWidth(indentLevel int) int {
	return emit.CommentWidth(indentLevel)
}

// emitDoc writes a method's JSDoc block: its own description, if any,
// followed by one "@param name text" line for every path or query
// parameter that carries a description. A method with no description and
// no described parameters gets no doc comment at all.
func emitDoc(w *emit.Writer, rec discovery.MethodRecord) {
	w.DocBlock(docParagraphs(rec)...)
}

func docParagraphs(rec discovery.MethodRecord) []string {
	var paragraphs []string
	if rec.Description != "" {
		paragraphs = append(paragraphs, rec.Description)
	}
	for _, p := range rec.PathParams {
		if p.Description != "" {
			paragraphs = append(paragraphs, fmt.Sprintf("@param %s %s", p.Name, p.Description))
		}
	}
	for _, p := range rec.QueryParams {
		if p.Description != "" {
			paragraphs = append(paragraphs, fmt.Sprintf("@param %s %s", p.Name, p.Description))
		}
	}
	return paragraphs
}
