// Package discovery loads and normalizes Google Discovery Documents: the
// JSON description of a REST API (resources, methods, path templates, query
// parameters, and a graph of referenced object schemas) that the generator
// compiles into a client module.
package discovery

import (
	"fmt"

	jsonv2 "github.com/go-json-experiment/json"
)

// Document is a Discovery document, normalized just enough to drive code
// generation. No component mutates it: synthetic query-options schemas are
// inserted into a clone of Schemas made by module.Generate.
type Document struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Version           string                 `json:"version"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	DocumentationLink string                 `json:"documentationLink"`
	RootURL           string                 `json:"rootUrl"`
	ServicePath       string                 `json:"servicePath"`
	Resources         map[string]*Resource   `json:"resources"`
	Schemas           map[string]*TypeNode   `json:"schemas"`
}

// Resource is a named node in the nested resource tree. Each resource may
// contain further nested resources and/or a set of methods.
type Resource struct {
	Resources map[string]*Resource `json:"resources"`
	Methods   map[string]*Method   `json:"methods"`
}

// Method is a single RPC exposed by a resource, as it appears in the input
// document — not yet flattened into a MethodRecord.
type Method struct {
	ID              string                `json:"id"`
	Path            string                `json:"path"`
	HTTPMethod      string                `json:"httpMethod"`
	Description     string                `json:"description"`
	Parameters      map[string]*Parameter `json:"parameters"`
	ParameterOrder  []string              `json:"parameterOrder"`
	Request         *SchemaRef            `json:"request"`
	Response        *SchemaRef            `json:"response"`
}

// Parameter is a path or query parameter on a method. It carries the same
// type-shape fields as TypeNode plus a location.
type Parameter struct {
	TypeNode
	Location string `json:"location"`
}

// SchemaRef names a schema in the document's Schemas table, as used by a
// method's request/response.
type SchemaRef struct {
	Ref string `json:"$ref"`
}

// Load parses raw Discovery document JSON and asserts the fields the
// generator requires to be present. The canonical URL of the generated
// module is not part of the document; it is passed to module.Generate
// separately, in Options.SelfURL.
func Load(data []byte) (*Document, error) {
	var doc Document
	if err := jsonv2.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("discovery: parsing document: %w", err)
	}
	if err := assertRequiredFields(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func assertRequiredFields(doc *Document) error {
	switch {
	case doc.ID == "":
		return &SchemaError{Message: "discovery document is missing required field \"id\""}
	case doc.Name == "":
		return &SchemaError{Message: "discovery document is missing required field \"name\""}
	case doc.Title == "":
		return &SchemaError{Message: "discovery document is missing required field \"title\""}
	case doc.RootURL == "":
		return &SchemaError{Message: "discovery document is missing required field \"rootUrl\""}
	}
	return nil
}

// SchemaError reports a schema assertion failure: a fatal, programmer-visible
// error that aborts generation outright. No partial output is produced.
type SchemaError struct {
	// SchemaID or MethodID identifies the offending node, when known.
	SchemaID string
	MethodID string
	Message  string
}

func (e *SchemaError) Error() string {
	switch {
	case e.MethodID != "":
		return fmt.Sprintf("discovery: method %q: %s", e.MethodID, e.Message)
	case e.SchemaID != "":
		return fmt.Sprintf("discovery: schema %q: %s", e.SchemaID, e.Message)
	default:
		return fmt.Sprintf("discovery: %s", e.Message)
	}
}
