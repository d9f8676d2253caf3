// Package wire reads and writes domain models as tree-shaped documents.
// Every cross-reference is a bare type name; decoding materializes all
// records first and resolves names only once the full key set is known.
package wire

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is the wire format version written by this package
const Version = "v1.0.0"

// Document is the persisted form of a DomainModel. Derived data (index
// edges, bounded context membership) is never stored.
type Document struct {
	Version            string                `json:"version" yaml:"version"`
	ExternalNamespaces []string              `json:"externalNamespaces,omitempty" yaml:"externalNamespaces,omitempty"`
	Types              map[string]TypeRecord `json:"types" yaml:"types"`
	BoundedContexts    []ContextRecord       `json:"boundedContexts,omitempty" yaml:"boundedContexts,omitempty"`

	// later occurrences of a key repeated in types, in document order
	repeated []namedRecord
}

type namedRecord struct {
	name   string
	record TypeRecord
}

// ContextRecord declares a bounded context by its namespace prefix only
type ContextRecord struct {
	PackageName string `json:"packageName" yaml:"packageName"`
}

// TypeRecord is one tagged descriptor. Kind selects the variant; the
// variant-specific keys are only valid for their own kind.
type TypeRecord struct {
	Kind       string         `json:"kind" yaml:"kind"`
	Abstract   bool           `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Fields     []FieldRecord  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods    []MethodRecord `json:"methods,omitempty" yaml:"methods,omitempty"`
	Hierarchy  []string       `json:"hierarchy,omitempty" yaml:"hierarchy,omitempty"`
	Interfaces []string       `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`

	// aggregate_root, entity
	IdentityField string `json:"identityField,omitempty" yaml:"identityField,omitempty"`
	VersionField  string `json:"versionField,omitempty" yaml:"versionField,omitempty"`
	// enum
	Constants []string `json:"constants,omitempty" yaml:"constants,omitempty"`
	// identity
	ValueType string `json:"valueType,omitempty" yaml:"valueType,omitempty"`
	// domain_command
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	// repository
	ManagedAggregate string `json:"managedAggregate,omitempty" yaml:"managedAggregate,omitempty"`
	// query_handler
	ProvidedReadModel string `json:"providedReadModel,omitempty" yaml:"providedReadModel,omitempty"`
}

// FieldRecord is a field. DeclaredBy is omitted when the owner declares it.
type FieldRecord struct {
	Name       string  `json:"name" yaml:"name"`
	Type       TypeRef `json:"type" yaml:"type"`
	Access     string  `json:"access,omitempty" yaml:"access,omitempty"`
	DeclaredBy string  `json:"declaredBy,omitempty" yaml:"declaredBy,omitempty"`
	ReadOnly   bool    `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Hidden     bool    `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// ParameterRecord is a method parameter
type ParameterRecord struct {
	Name string  `json:"name" yaml:"name"`
	Type TypeRef `json:"type" yaml:"type"`
}

// MethodRecord is a method. DeclaredBy is omitted when the owner declares it.
type MethodRecord struct {
	Name       string            `json:"name" yaml:"name"`
	Access     string            `json:"access,omitempty" yaml:"access,omitempty"`
	DeclaredBy string            `json:"declaredBy,omitempty" yaml:"declaredBy,omitempty"`
	Params     []ParameterRecord `json:"params,omitempty" yaml:"params,omitempty"`
	Returns    *TypeRef          `json:"returns,omitempty" yaml:"returns,omitempty"`
	Overridden bool              `json:"overridden,omitempty" yaml:"overridden,omitempty"`
	Publishes  []string          `json:"publishes,omitempty" yaml:"publishes,omitempty"`
	Listens    string            `json:"listens,omitempty" yaml:"listens,omitempty"`
}

// TypeRef is a container type: an element type name, an optional shape,
// assertions and generic arguments
type TypeRef struct {
	Name       string            `json:"name" yaml:"name"`
	Shape      string            `json:"shape,omitempty" yaml:"shape,omitempty"`
	Args       []TypeRef         `json:"args,omitempty" yaml:"args,omitempty"`
	Assertions []AssertionRecord `json:"assertions,omitempty" yaml:"assertions,omitempty"`
}

// AssertionRecord holds an assertion either in shorthand form
// (`length(1, 50) "too long"`) or as a structured object
type AssertionRecord struct {
	Expression string   `json:"-" yaml:"-"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Params     []string `json:"params,omitempty" yaml:"params,omitempty"`
	Message    string   `json:"message,omitempty" yaml:"message,omitempty"`
}

type assertionObject AssertionRecord

// MarshalJSON writes the shorthand form when present
func (a AssertionRecord) MarshalJSON() ([]byte, error) {
	if a.Expression != "" {
		return json.Marshal(a.Expression)
	}
	return json.Marshal(assertionObject(a))
}

// UnmarshalJSON accepts a shorthand string or an object
func (a *AssertionRecord) UnmarshalJSON(data []byte) error {
	if strings.HasPrefix(strings.TrimSpace(string(data)), `"`) {
		*a = AssertionRecord{}
		return json.Unmarshal(data, &a.Expression)
	}
	var obj assertionObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = AssertionRecord(obj)
	return nil
}

// MarshalYAML writes the shorthand form when present
func (a AssertionRecord) MarshalYAML() (interface{}, error) {
	if a.Expression != "" {
		return a.Expression, nil
	}
	return assertionObject(a), nil
}

// UnmarshalYAML accepts a scalar shorthand or a mapping
func (a *AssertionRecord) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*a = AssertionRecord{}
		return node.Decode(&a.Expression)
	}
	var obj assertionObject
	if err := node.Decode(&obj); err != nil {
		return err
	}
	*a = AssertionRecord(obj)
	return nil
}
