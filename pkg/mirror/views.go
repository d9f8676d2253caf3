package mirror

import (
	"github.com/toyz/mirror/internal/assertions"
	"github.com/toyz/mirror/internal/index"
	"github.com/toyz/mirror/internal/models"
	"github.com/toyz/mirror/internal/registry"
)

// TypeSummary is one entry of a type listing
type TypeSummary struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Context string `json:"context,omitempty"`
}

// TypeView is the full rendering of one descriptor, with derived facts
// (context, identity flags, reference kinds) filled in
type TypeView struct {
	Name       string       `json:"name"`
	Kind       string       `json:"kind"`
	Abstract   bool         `json:"abstract,omitempty"`
	Context    string       `json:"context,omitempty"`
	Fields     []FieldView  `json:"fields"`
	Methods    []MethodView `json:"methods"`
	Hierarchy  []string     `json:"hierarchy,omitempty"`
	Interfaces []string     `json:"interfaces,omitempty"`

	IdentityField     string   `json:"identityField,omitempty"`
	VersionField      string   `json:"versionField,omitempty"`
	Constants         []string `json:"constants,omitempty"`
	ValueType         string   `json:"valueType,omitempty"`
	Target            string   `json:"target,omitempty"`
	ManagedAggregate  string   `json:"managedAggregate,omitempty"`
	ProvidedReadModel string   `json:"providedReadModel,omitempty"`
}

// FieldView renders a field
type FieldView struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Access     string   `json:"access"`
	DeclaredBy string   `json:"declaredBy"`
	ReadOnly   bool     `json:"readOnly,omitempty"`
	Hidden     bool     `json:"hidden,omitempty"`
	Identity   bool     `json:"identity,omitempty"`
	Reference  string   `json:"reference,omitempty"`
	Assertions []string `json:"assertions,omitempty"`
}

// ParamView renders a method parameter
type ParamView struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MethodView renders a method
type MethodView struct {
	Name       string      `json:"name"`
	Access     string      `json:"access"`
	DeclaredBy string      `json:"declaredBy"`
	Params     []ParamView `json:"params,omitempty"`
	Returns    string      `json:"returns,omitempty"`
	Overridden bool        `json:"overridden,omitempty"`
	Publishes  []string    `json:"publishes,omitempty"`
	Listens    string      `json:"listens,omitempty"`
}

// RelationView renders one index edge
type RelationView struct {
	Relation string `json:"relation"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Member   string `json:"member"`
}

// RelationsView lists the edges leaving and entering a type
type RelationsView struct {
	Type     string         `json:"type"`
	Outgoing []RelationView `json:"outgoing"`
	Incoming []RelationView `json:"incoming"`
}

// NamesView answers an inverse query such as "who publishes X"
type NamesView struct {
	Name     string   `json:"name"`
	Relation string   `json:"relation"`
	Kinds    []string `json:"kinds,omitempty"`
	Types    []string `json:"types"`
}

// ContextView summarizes a bounded context
type ContextView struct {
	PackageName string `json:"packageName"`
	Members     int    `json:"members"`
}

// NewTypeView renders a registered type. It reports false for unknown names.
func NewTypeView(m *registry.DomainModel, typeName string) (TypeView, bool) {
	d, ok := m.Get(typeName)
	if !ok {
		return TypeView{}, false
	}

	view := TypeView{
		Name:       d.TypeName,
		Kind:       d.Kind().String(),
		Abstract:   d.Abstract,
		Fields:     make([]FieldView, 0, len(d.Fields)),
		Methods:    make([]MethodView, 0, len(d.Methods)),
		Hierarchy:  d.InheritanceHierarchy,
		Interfaces: d.Interfaces,
	}
	if bc, ok := m.ContextOf(typeName); ok {
		view.Context = contextName(bc)
	}

	refs := make(map[string]string)
	for _, r := range m.FieldReferences(typeName) {
		if _, seen := refs[r.Field]; !seen {
			refs[r.Field] = r.Kind.String()
		}
	}

	for _, f := range d.Fields {
		fv := FieldView{
			Name:       f.Name,
			Type:       f.Type.String(),
			Access:     f.Access.String(),
			DeclaredBy: f.DeclaredBy,
			ReadOnly:   f.ReadOnly,
			Hidden:     f.Hidden,
			Identity:   m.IsIdentityField(typeName, f.Name),
			Reference:  refs[f.Name],
		}
		for _, a := range f.Type.Assertions {
			fv.Assertions = append(fv.Assertions, assertions.Format(a))
		}
		view.Fields = append(view.Fields, fv)
	}

	for _, md := range d.Methods {
		mv := MethodView{
			Name:       md.Name,
			Access:     md.Access.String(),
			DeclaredBy: md.DeclaredBy,
			Overridden: md.Overridden,
			Publishes:  md.PublishedEvents,
			Listens:    md.ListenedEvent,
		}
		for _, p := range md.Parameters {
			mv.Params = append(mv.Params, ParamView{Name: p.Name, Type: p.Type.String()})
		}
		if md.ReturnType != nil {
			mv.Returns = md.ReturnType.String()
		}
		view.Methods = append(view.Methods, mv)
	}

	switch v := d.Variant.(type) {
	case models.AggregateRoot:
		view.IdentityField, view.VersionField = v.IdentityField, v.VersionField
	case models.Entity:
		view.IdentityField, view.VersionField = v.IdentityField, v.VersionField
	case models.EnumType:
		view.Constants = v.Constants
	case models.Identity:
		view.ValueType = v.ValueType
	case models.DomainCommand:
		view.Target = v.Target
	case models.Repository:
		view.ManagedAggregate = v.ManagedAggregate
	case models.QueryHandler:
		view.ProvidedReadModel = v.ProvidedReadModel
	}
	return view, true
}

// NewRelationsView collects the edges around a type. Unknown names yield
// empty lists.
func NewRelationsView(m *registry.DomainModel, typeName string) RelationsView {
	view := RelationsView{
		Type:     typeName,
		Outgoing: make([]RelationView, 0),
		Incoming: make([]RelationView, 0),
	}
	for _, e := range m.Relations(typeName) {
		view.Outgoing = append(view.Outgoing, relationView(e))
	}
	for _, e := range m.Index().Edges() {
		if e.Target == typeName {
			view.Incoming = append(view.Incoming, relationView(e))
		}
	}
	return view
}

// NewTypeSummaries lists the registered types of the given kinds
func NewTypeSummaries(m *registry.DomainModel, kinds ...models.Kind) []TypeSummary {
	descriptors := m.Descriptors(kinds...)
	out := make([]TypeSummary, 0, len(descriptors))
	for _, d := range descriptors {
		s := TypeSummary{Name: d.TypeName, Kind: d.Kind().String()}
		if bc, ok := m.ContextOf(d.TypeName); ok {
			s.Context = contextName(bc)
		}
		out = append(out, s)
	}
	return out
}

// NewContextViews summarizes every declared bounded context
func NewContextViews(m *registry.DomainModel) []ContextView {
	contexts := m.BoundedContexts()
	out := make([]ContextView, 0, len(contexts))
	for _, bc := range contexts {
		out = append(out, ContextView{PackageName: bc.PackageName, Members: len(m.Members(bc.PackageName))})
	}
	return out
}

func relationView(e index.Edge) RelationView {
	return RelationView{Relation: e.Relation.String(), Source: e.Source, Target: e.Target, Member: e.Member}
}

// contextName renders the root context, whose package name is empty, as "."
func contextName(bc models.BoundedContext) string {
	if bc.PackageName == "" {
		return "."
	}
	return bc.PackageName
}
