package wire

import (
	"fmt"
	"sort"
	"sync"

	"github.com/toyz/mirror/internal/assertions"
	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/models"
	"github.com/toyz/mirror/internal/registry"
)

var (
	parserOnce sync.Once
	parser     *assertions.Parser
)

func assertionParser() *assertions.Parser {
	parserOnce.Do(func() {
		parser = assertions.NewParser(assertions.DefaultRegistry())
	})
	return parser
}

// variantKeys maps each variant-specific record key to the kinds allowed to carry it
var variantKeys = []struct {
	key   string
	kinds []models.Kind
	value func(TypeRecord) bool
}{
	{"identityField", []models.Kind{models.KindAggregateRoot, models.KindEntity}, func(r TypeRecord) bool { return r.IdentityField != "" }},
	{"versionField", []models.Kind{models.KindAggregateRoot, models.KindEntity}, func(r TypeRecord) bool { return r.VersionField != "" }},
	{"constants", []models.Kind{models.KindEnum}, func(r TypeRecord) bool { return len(r.Constants) > 0 }},
	{"valueType", []models.Kind{models.KindIdentity}, func(r TypeRecord) bool { return r.ValueType != "" }},
	{"target", []models.Kind{models.KindDomainCommand}, func(r TypeRecord) bool { return r.Target != "" }},
	{"managedAggregate", []models.Kind{models.KindRepository}, func(r TypeRecord) bool { return r.ManagedAggregate != "" }},
	{"providedReadModel", []models.Kind{models.KindQueryHandler}, func(r TypeRecord) bool { return r.ProvidedReadModel != "" }},
}

// Materialize is the first decoding phase. It turns every record into a
// descriptor from its own data alone, without looking at any other record.
// Every malformed record is reported; names are not resolved here.
func (d *Document) Materialize() ([]models.TypeDescriptor, []models.BoundedContext, error) {
	var problems *errors.MultipleErrors

	names := make([]string, 0, len(d.Types))
	for name := range d.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	descriptors := make([]models.TypeDescriptor, 0, len(names))
	for _, name := range names {
		desc, errs := materializeType(name, d.Types[name])
		for _, err := range errs {
			errors.AddToMultiple(&problems, err)
		}
		if len(errs) == 0 {
			descriptors = append(descriptors, desc)
		}
	}

	// repeated keys stay in the batch so the build reports each one as a duplicate
	for _, r := range d.repeated {
		desc, errs := materializeType(r.name, r.record)
		for _, err := range errs {
			errors.AddToMultiple(&problems, err)
		}
		if len(errs) == 0 {
			descriptors = append(descriptors, desc)
		}
	}

	contexts := make([]models.BoundedContext, 0, len(d.BoundedContexts))
	for _, c := range d.BoundedContexts {
		contexts = append(contexts, models.BoundedContext{PackageName: c.PackageName})
	}

	if problems != nil {
		return nil, nil, problems
	}
	return descriptors, contexts, nil
}

func materializeType(name string, rec TypeRecord) (models.TypeDescriptor, []errors.MirrorError) {
	var errs []errors.MirrorError
	fail := func(field, format string, args ...interface{}) {
		errs = append(errs, errors.NewWireFormatError(name, field, fmt.Sprintf(format, args...)))
	}

	kind, err := models.ParseKind(rec.Kind)
	if err != nil {
		fail("kind", "%v", err)
		return models.TypeDescriptor{}, errs
	}
	for _, vk := range variantKeys {
		if vk.value(rec) && !kindIn(kind, vk.kinds) {
			fail(vk.key, "not allowed for kind %s", kind)
		}
	}

	d := models.TypeDescriptor{
		TypeName:             name,
		Abstract:             rec.Abstract,
		InheritanceHierarchy: rec.Hierarchy,
		Interfaces:           rec.Interfaces,
	}

	for _, f := range rec.Fields {
		member := "fields." + f.Name
		access, err := models.ParseAccessLevel(f.Access)
		if err != nil {
			fail(member, "%v", err)
		}
		typ, typeErrs := materializeRef(name, member, f.Type)
		errs = append(errs, typeErrs...)
		d.Fields = append(d.Fields, models.FieldDescriptor{
			Name:       f.Name,
			Type:       typ,
			Access:     access,
			DeclaredBy: f.DeclaredBy,
			ReadOnly:   f.ReadOnly,
			Hidden:     f.Hidden,
		})
	}

	for _, m := range rec.Methods {
		member := "methods." + m.Name
		access, err := models.ParseAccessLevel(m.Access)
		if err != nil {
			fail(member, "%v", err)
		}
		method := models.MethodDescriptor{
			Name:            m.Name,
			DeclaredBy:      m.DeclaredBy,
			Access:          access,
			Overridden:      m.Overridden,
			PublishedEvents: m.Publishes,
			ListenedEvent:   m.Listens,
		}
		for _, p := range m.Params {
			typ, typeErrs := materializeRef(name, member+".params."+p.Name, p.Type)
			errs = append(errs, typeErrs...)
			method.Parameters = append(method.Parameters, models.Parameter{Name: p.Name, Type: typ})
		}
		if m.Returns != nil {
			typ, typeErrs := materializeRef(name, member+".returns", *m.Returns)
			errs = append(errs, typeErrs...)
			method.ReturnType = &typ
		}
		d.Methods = append(d.Methods, method)
	}

	identity := models.IdentityTrait{IdentityField: rec.IdentityField, VersionField: rec.VersionField}
	switch kind {
	case models.KindAggregateRoot:
		d.Variant = models.AggregateRoot{IdentityTrait: identity}
	case models.KindEntity:
		d.Variant = models.Entity{IdentityTrait: identity}
	case models.KindEnum:
		d.Variant = models.EnumType{Constants: rec.Constants}
	case models.KindIdentity:
		d.Variant = models.Identity{ValueType: rec.ValueType}
	case models.KindDomainCommand:
		d.Variant = models.DomainCommand{Target: rec.Target}
	case models.KindRepository:
		d.Variant = models.Repository{ManagedAggregate: rec.ManagedAggregate}
	case models.KindQueryHandler:
		d.Variant = models.QueryHandler{ProvidedReadModel: rec.ProvidedReadModel}
	default:
		d.Variant = models.NewVariant(kind)
	}

	return d.Normalize(), errs
}

func materializeRef(typeName, member string, ref TypeRef) (models.ContainerType, []errors.MirrorError) {
	var errs []errors.MirrorError

	shape, err := models.ParseShape(ref.Shape)
	if err != nil {
		errs = append(errs, errors.NewWireFormatError(typeName, member, err.Error()))
	}
	if ref.Name == "" {
		errs = append(errs, errors.NewWireFormatError(typeName, member, "type name cannot be empty"))
	}

	out := models.ContainerType{TypeName: ref.Name, Shape: shape}
	for _, rec := range ref.Assertions {
		a, err := decodeAssertion(rec)
		if err != nil {
			errs = append(errs, errors.NewWireFormatError(typeName, member, "invalid assertion").WithCause(err))
			continue
		}
		out.Assertions = append(out.Assertions, a)
	}
	for _, arg := range ref.Args {
		typ, argErrs := materializeRef(typeName, member, arg)
		errs = append(errs, argErrs...)
		out.TypeArguments = append(out.TypeArguments, typ)
	}
	return out, errs
}

func decodeAssertion(rec AssertionRecord) (models.Assertion, error) {
	p := assertionParser()
	if rec.Expression != "" {
		return p.Parse(rec.Expression)
	}
	a := models.Assertion{Name: rec.Name, Params: rec.Params, Message: rec.Message}
	if err := p.Validate(a); err != nil {
		return models.Assertion{}, err
	}
	return a, nil
}

func kindIn(k models.Kind, kinds []models.Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

// FromModel captures the forward facts of a model as a document. Type
// records are keyed by name; inverse views and memberships are dropped.
func FromModel(m *registry.DomainModel) *Document {
	doc := &Document{
		Version:            Version,
		ExternalNamespaces: m.ExternalNamespaces(),
		Types:              make(map[string]TypeRecord, m.Len()),
	}
	for _, d := range m.Descriptors() {
		doc.Types[d.TypeName] = typeRecord(d)
	}
	for _, bc := range m.BoundedContexts() {
		doc.BoundedContexts = append(doc.BoundedContexts, ContextRecord{PackageName: bc.PackageName})
	}
	return doc
}

func typeRecord(d models.TypeDescriptor) TypeRecord {
	rec := TypeRecord{
		Kind:       d.Kind().String(),
		Abstract:   d.Abstract,
		Hierarchy:  d.InheritanceHierarchy,
		Interfaces: d.Interfaces,
	}

	for _, f := range d.Fields {
		rec.Fields = append(rec.Fields, FieldRecord{
			Name:       f.Name,
			Type:       typeRef(f.Type),
			Access:     accessName(f.Access),
			DeclaredBy: foreign(d.TypeName, f.DeclaredBy),
			ReadOnly:   f.ReadOnly,
			Hidden:     f.Hidden,
		})
	}

	for _, m := range d.Methods {
		mr := MethodRecord{
			Name:       m.Name,
			Access:     accessName(m.Access),
			DeclaredBy: foreign(d.TypeName, m.DeclaredBy),
			Overridden: m.Overridden,
			Publishes:  m.PublishedEvents,
			Listens:    m.ListenedEvent,
		}
		for _, p := range m.Parameters {
			mr.Params = append(mr.Params, ParameterRecord{Name: p.Name, Type: typeRef(p.Type)})
		}
		if m.ReturnType != nil {
			ret := typeRef(*m.ReturnType)
			mr.Returns = &ret
		}
		rec.Methods = append(rec.Methods, mr)
	}

	switch v := d.Variant.(type) {
	case models.AggregateRoot:
		rec.IdentityField, rec.VersionField = v.IdentityField, v.VersionField
	case models.Entity:
		rec.IdentityField, rec.VersionField = v.IdentityField, v.VersionField
	case models.EnumType:
		rec.Constants = v.Constants
	case models.Identity:
		rec.ValueType = v.ValueType
	case models.DomainCommand:
		rec.Target = v.Target
	case models.Repository:
		rec.ManagedAggregate = v.ManagedAggregate
	case models.QueryHandler:
		rec.ProvidedReadModel = v.ProvidedReadModel
	}
	return rec
}

func typeRef(c models.ContainerType) TypeRef {
	ref := TypeRef{Name: c.TypeName}
	if c.Shape != models.ShapeNone {
		ref.Shape = c.Shape.String()
	}
	for _, a := range c.Assertions {
		ref.Assertions = append(ref.Assertions, AssertionRecord{Expression: assertions.Format(a)})
	}
	for _, arg := range c.TypeArguments {
		ref.Args = append(ref.Args, typeRef(arg))
	}
	return ref
}

func accessName(a models.AccessLevel) string {
	if a == models.AccessPackage {
		return ""
	}
	return a.String()
}

func foreign(owner, declaredBy string) string {
	if declaredBy == owner {
		return ""
	}
	return declaredBy
}
