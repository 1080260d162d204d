// Package module assembles the five upstream components (schema loading,
// flattening, type printing, codec emission, method emission) into the
// single TypeScript source string the generator produces as output.
package module

import (
	"sort"

	"github.com/discoverygen/discoverygen/internal/codec"
	"github.com/discoverygen/discoverygen/internal/discovery"
	"github.com/discoverygen/discoverygen/internal/emit"
	"github.com/discoverygen/discoverygen/internal/methodgen"
	"github.com/discoverygen/discoverygen/internal/typeprint"
)

// runtimeModuleURL is the fixed location of the auth/HTTP helper the
// generated module imports from. It is never configurable: every client
// this generator produces shares one runtime (§6).
const runtimeModuleURL = "/_/base@v1/mod.ts"

// Options configures a single generation run.
type Options struct {
	// SelfURL is the canonical URL the generated module documents itself
	// as having been generated from; it is not read back out of the
	// Discovery document.
	SelfURL string
}

// Generate compiles doc into a single TypeScript source string. The
// document's schema table is cloned internally before any synthetic
// query-options schema is added, so the caller's Document is never
// mutated (§9 Open Question).
func Generate(doc *discovery.Document, opts Options) (string, error) {
	schemas := cloneSchemas(doc.Schemas)

	records, err := discovery.Flatten(doc)
	if err != nil {
		return "", err
	}
	addOptionsSchemas(schemas, records)

	if err := discovery.ValidateSchemas(schemas, records); err != nil {
		return "", err
	}

	className := discovery.PrimaryName(doc.Name, titleWords(doc.Title))

	w := emit.NewWriter()
	emitHeader(w, doc, opts)
	emitImports(w)
	emitClass(w, className, doc, records, schemas)
	emitTypeDeclarations(w, schemas)
	emitCodecs(w, schemas)
	return w.String(), nil
}

func cloneSchemas(schemas map[string]*discovery.TypeNode) map[string]*discovery.TypeNode {
	out := make(map[string]*discovery.TypeNode, len(schemas))
	for name, node := range schemas {
		out[name] = node
	}
	return out
}

// addOptionsSchemas inserts one synthetic object schema per method record
// that has query parameters, named "${PascalCaseName}Options", with the
// method's query parameters as its properties (§4.6.2). This runs before
// the type and codec passes so the synthetic schemas are typed and, if
// needed, given codecs exactly like any other schema.
func addOptionsSchemas(schemas map[string]*discovery.TypeNode, records []discovery.MethodRecord) {
	for _, rec := range records {
		name := methodgen.OptionsTypeName(rec)
		if name == "" {
			continue
		}
		props := make(map[string]*discovery.TypeNode, len(rec.QueryParams))
		for _, p := range rec.QueryParams {
			node := *p.Type
			node.Repeated = p.Repeated
			props[p.Name] = &node
		}
		schemas[name] = &discovery.TypeNode{Type: "object", Properties: props}
	}
}

func titleWords(title string) []string {
	var words []string
	start := -1
	for i, r := range title {
		isSpace := r == ' ' || r == '\t'
		if !isSpace && start == -1 {
			start = i
		}
		if isSpace && start != -1 {
			words = append(words, title[start:i])
			start = -1
		}
	}
	if start != -1 {
		words = append(words, title[start:])
	}
	return words
}

const headerLineWidth = 77

func emitHeader(w *emit.Writer, doc *discovery.Document, opts Options) {
	w.Line("// Code generated from the %q Discovery document. DO NOT EDIT.", doc.ID)
	w.Line("//")
	w.Line("// %s", doc.Title)
	if doc.Description != "" {
		w.LineCommentBlock(doc.Description, headerLineWidth)
	}
	if doc.DocumentationLink != "" {
		w.Line("//")
		w.Line("// Documentation: %s", doc.DocumentationLink)
	}
	if opts.SelfURL != "" {
		w.Line("// Source: %s", opts.SelfURL)
	}
	w.Blank()
}

// emitImports writes the preamble importing the external auth/HTTP runtime
// (§6) and re-exporting the symbols a consumer of the generated module
// needs for constructing credentials without a second import line (§4.7.2).
func emitImports(w *emit.Writer) {
	w.Line("import { auth, CredentialsClient, GoogleAuth, request } from %q;", runtimeModuleURL)
	w.Line("export { auth, CredentialsClient, GoogleAuth };")
	w.Blank()
}

func emitClass(w *emit.Writer, className string, doc *discovery.Document, records []discovery.MethodRecord, schemas map[string]*discovery.TypeNode) {
	w.Block("export class %s", className)
	w.Line("#client: CredentialsClient | undefined;")
	w.Line("baseUrl: string;")
	w.Blank()
	w.Block("constructor(client?: CredentialsClient, baseUrl = %q)", doc.RootURL+doc.ServicePath)
	w.Line("this.#client = client;")
	w.Line("this.baseUrl = baseUrl;")
	w.EndBlock()
	w.Blank()

	for i, rec := range records {
		methodgen.Emit(w, rec, schemas)
		if i != len(records)-1 {
			w.Blank()
		}
	}
	w.EndBlock()
	w.Blank()
}

func emitTypeDeclarations(w *emit.Writer, schemas map[string]*discovery.TypeNode) {
	names := sortedSchemaNames(schemas)
	for _, name := range names {
		node := schemas[name]
		w.Line("export interface %s %s", name, typeprint.Print(node))
	}
	if len(names) > 0 {
		w.Blank()
	}
}

func emitCodecs(w *emit.Writer, schemas map[string]*discovery.TypeNode) {
	names := codec.SchemasRequiringConversion(schemas)
	if len(names) == 0 {
		return
	}

	ctx := codec.NewCtx(schemas)
	for i, name := range names {
		codec.EmitPair(w, name, schemas[name], ctx)
		if i != len(names)-1 {
			w.Blank()
		}
	}
	w.Blank()
	if codec.UsesBase64(schemas) {
		w.Raw(codec.Base64Prelude)
	}
}

func sortedSchemaNames(schemas map[string]*discovery.TypeNode) []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
