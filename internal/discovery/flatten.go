package discovery

import "sort"

// MethodRecord is the flattened representation of one API method after
// resource-tree traversal. Unlike Method, it is derived, not part of the
// input document.
type MethodRecord struct {
	HTTPMethod     string
	Path           string
	Request        *SchemaRef
	Response       *SchemaRef
	CamelCaseName  string
	PascalCaseName string
	PathParams     []NamedParam
	QueryParams    []NamedParam
	Description    string
}

// NamedParam is a (name, type) pair carried by a flattened method record.
type NamedParam struct {
	Name        string
	Type        *TypeNode
	Repeated    bool
	Description string
}

// Flatten walks doc.Resources depth-first and returns an ordered list of
// method records with collision-free identifiers. The returned slice is
// sorted by CamelCaseName so that generator output is deterministic (§4.2).
func Flatten(doc *Document) ([]MethodRecord, error) {
	var records []MethodRecord
	var walk func(prefix []string, resources map[string]*Resource) error
	walk = func(prefix []string, resources map[string]*Resource) error {
		names := sortedKeys(resources)
		for _, rname := range names {
			r := resources[rname]
			segPrefix := append(append([]string{}, prefix...), rname)
			methodNames := sortedMethodKeys(r.Methods)
			for _, mname := range methodNames {
				m := r.Methods[mname]
				rec, err := buildRecord(segPrefix, mname, m)
				if err != nil {
					return err
				}
				records = append(records, rec)
			}
			if err := walk(segPrefix, r.Resources); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(nil, doc.Resources); err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CamelCaseName < records[j].CamelCaseName
	})
	return records, nil
}

func buildRecord(segPrefix []string, methodName string, m *Method) (MethodRecord, error) {
	camel := buildCamelCaseName(segPrefix, methodName)
	pascal := buildPascalCaseName(segPrefix, methodName)

	var pathParams, queryParams []NamedParam
	paramNames := sortedParamKeys(m.Parameters)
	for _, pname := range paramNames {
		p := m.Parameters[pname]
		switch p.Location {
		case "path":
			if !p.Required {
				return MethodRecord{}, &SchemaError{MethodID: m.ID, Message: "path parameter \"" + pname + "\" must be required"}
			}
			pathParams = append(pathParams, NamedParam{Name: pname, Type: &p.TypeNode, Repeated: p.Repeated, Description: p.Description})
		case "query":
			queryParams = append(queryParams, NamedParam{Name: pname, Type: &p.TypeNode, Repeated: p.Repeated, Description: p.Description})
		}
	}

	return MethodRecord{
		HTTPMethod:     m.HTTPMethod,
		Path:           m.Path,
		Request:        m.Request,
		Response:       m.Response,
		CamelCaseName:  camel,
		PascalCaseName: pascal,
		PathParams:     pathParams,
		QueryParams:    queryParams,
		Description:    m.Description,
	}, nil
}

// buildCamelCaseName joins r1 + Capitalize(r2) + ... + Capitalize(methodName).
func buildCamelCaseName(segPrefix []string, methodName string) string {
	if len(segPrefix) == 0 {
		return methodName
	}
	name := segPrefix[0]
	for _, seg := range segPrefix[1:] {
		name += Capitalize(seg)
	}
	name += Capitalize(methodName)
	return name
}

// buildPascalCaseName joins Capitalize(r1) + Capitalize(r2) + ... + Capitalize(methodName).
func buildPascalCaseName(segPrefix []string, methodName string) string {
	name := ""
	for _, seg := range segPrefix {
		name += Capitalize(seg)
	}
	name += Capitalize(methodName)
	return name
}

func sortedKeys(m map[string]*Resource) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedMethodKeys(m map[string]*Method) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedParamKeys(m map[string]*Parameter) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
