// Package templates holds the starter queries and sample data offered to a
// user who opens the explorer.
package templates

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TypeSelect    = "select"
	TypeCount     = "count"
	TypeConstruct = "construct"
)

const prefixes = `PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
PREFIX ex: <http://example.org/>
`

const (
	SelectQuery = prefixes + `
SELECT ?s ?p ?o
WHERE {
    ?s ?p ?o .
}`

	CountQuery = prefixes + `
SELECT (COUNT(*) AS ?count)
WHERE {
    ?s ?p ?o .
}`

	ConstructQuery = prefixes + `
CONSTRUCT {
    ?s ?p ?o .
} WHERE {
    ?s ?p ?o .
}`
)

// InitialData is the Turtle document shown alongside the default query.
const InitialData = `@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>.
@prefix xsd: <http://www.w3.org/2001/XMLSchema#>.
@prefix ex: <http://example.org/>.

ex:John rdf:type ex:Person ;
        ex:name "John" ;
        ex:age 30 .

ex:Jane rdf:type ex:Person ;
        ex:name "Jane" ;
        ex:age 25 .

ex:Kitty rdf:type ex:Cat ;
        ex:name "Kitty" ;
        ex:age 7 .`

type Template struct {
	Type  string `yaml:"type" json:"type"`
	Label string `yaml:"label" json:"label"`
	Query string `yaml:"query" json:"query"`
}

type Set struct {
	Templates   []Template `yaml:"templates" json:"templates"`
	InitialData string     `yaml:"initial_data" json:"initialData"`
}

// Default returns the built-in templates. Each call returns a distinct
// instance.
func Default() *Set {
	return &Set{
		Templates: []Template{
			{Type: TypeSelect, Label: "Basic Select", Query: SelectQuery},
			{Type: TypeCount, Label: "Count Query", Query: CountQuery},
			{Type: TypeConstruct, Label: "Basic Construct", Query: ConstructQuery},
		},
		InitialData: InitialData,
	}
}

// Load reads a YAML template file and merges it over the built-in set.
// Templates are matched by type; unknown types are appended in file order.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read templates file: %w", err)
	}

	var file Set
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to unmarshal templates file: %w", err)
	}

	s := Default()
	for _, t := range file.Templates {
		if err := s.add(t); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(file.InitialData) != "" {
		s.InitialData = file.InitialData
	}

	return s, nil
}

func (s *Set) add(t Template) error {
	t.Type = strings.ToLower(strings.TrimSpace(t.Type))
	if t.Type == "" {
		return fmt.Errorf("unable to load template %q: missing type", t.Label)
	}
	if strings.TrimSpace(t.Query) == "" {
		return fmt.Errorf("unable to load template %q: missing query", t.Type)
	}
	if t.Label == "" {
		t.Label = t.Type
	}

	for i := range s.Templates {
		if s.Templates[i].Type == t.Type {
			s.Templates[i] = t
			return nil
		}
	}
	s.Templates = append(s.Templates, t)

	return nil
}

func (s *Set) Get(kind string) (Template, bool) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	for _, t := range s.Templates {
		if t.Type == kind {
			return t, true
		}
	}
	return Template{}, false
}

// DefaultQuery is the query a new session starts with.
func (s *Set) DefaultQuery() string {
	if t, ok := s.Get(TypeSelect); ok {
		return t.Query
	}
	if len(s.Templates) > 0 {
		return s.Templates[0].Query
	}
	return ""
}

func (s *Set) Types() []string {
	types := make([]string, 0, len(s.Templates))
	for _, t := range s.Templates {
		types = append(types, t.Type)
	}
	return types
}
