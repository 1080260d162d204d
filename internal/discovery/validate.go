package discovery

import "sort"

// ValidateSchemas walks every schema in the table, plus every flattened
// method record's request, response, and parameter types, and enforces the
// two schema assertion failures named as fatal (§7):
//
//   - an unresolved $ref: every $ref must resolve to an entry in schemas
//   - an object populated with both "properties" and "additionalProperties":
//     a schema describes either a fixed set of fields or an open map, never
//     both (§3 invariant 2)
//
// Either violation aborts generation with a *SchemaError; there is no
// partial or best-effort output for a schema that fails either check.
func ValidateSchemas(schemas map[string]*TypeNode, records []MethodRecord) error {
	for _, name := range sortedSchemaKeys(schemas) {
		if err := validateNode(schemas[name], schemas, map[string]bool{name: true}); err != nil {
			return attachSchemaID(err, name)
		}
	}
	for _, rec := range records {
		if err := validateMethodRefs(rec, schemas); err != nil {
			return err
		}
	}
	return nil
}

func validateMethodRefs(rec MethodRecord, schemas map[string]*TypeNode) error {
	check := func(node *TypeNode) error {
		if err := validateNode(node, schemas, map[string]bool{}); err != nil {
			return attachMethodID(err, rec.CamelCaseName)
		}
		return nil
	}
	if rec.Request != nil {
		if err := check(&TypeNode{Ref: rec.Request.Ref}); err != nil {
			return err
		}
	}
	if rec.Response != nil {
		if err := check(&TypeNode{Ref: rec.Response.Ref}); err != nil {
			return err
		}
	}
	for _, p := range rec.PathParams {
		if err := check(p.Type); err != nil {
			return err
		}
	}
	for _, p := range rec.QueryParams {
		if err := check(p.Type); err != nil {
			return err
		}
	}
	return nil
}

// validateNode recurses through node's type graph the same way the codec
// analyzer does, using a per-root visited set so a cyclic $ref only needs to
// be checked once per call into it.
func validateNode(node *TypeNode, schemas map[string]*TypeNode, visited map[string]bool) error {
	if node == nil {
		return nil
	}
	switch node.Kind() {
	case KindRef:
		if visited[node.Ref] {
			return nil
		}
		target, ok := schemas[node.Ref]
		if !ok {
			return &SchemaError{SchemaID: node.Ref, Message: "unresolved $ref"}
		}
		visited[node.Ref] = true
		return validateNode(target, schemas, visited)

	case KindArray:
		return validateNode(node.Items, schemas, visited)

	case KindObject:
		if len(node.Properties) > 0 && node.AdditionalProperties != nil {
			return &SchemaError{Message: "object schema has both \"properties\" and \"additionalProperties\" populated"}
		}
		if node.AdditionalProperties != nil {
			return validateNode(node.AdditionalProperties, schemas, visited)
		}
		for _, name := range sortedNodePropertyNames(node) {
			if err := validateNode(node.Properties[name], schemas, visited); err != nil {
				return err
			}
		}
		return nil

	default:
		return nil
	}
}

func attachSchemaID(err error, name string) error {
	se, ok := err.(*SchemaError)
	if !ok || se.SchemaID != "" {
		return err
	}
	se.SchemaID = name
	return se
}

func attachMethodID(err error, methodID string) error {
	se, ok := err.(*SchemaError)
	if !ok || se.MethodID != "" {
		return err
	}
	se.MethodID = methodID
	return se
}

func sortedSchemaKeys(schemas map[string]*TypeNode) []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedNodePropertyNames(node *TypeNode) []string {
	names := make([]string, 0, len(node.Properties))
	for name := range node.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
