package models

// TypeDescriptor describes one domain type's structural facts.
// Cross-references to other descriptors are held as type names, never as
// embedded descriptors.
type TypeDescriptor struct {
	TypeName             string             // globally unique key
	Abstract             bool               // whether the type is abstract
	Fields               []FieldDescriptor  // declared and inherited fields
	Methods              []MethodDescriptor // declared and inherited methods
	InheritanceHierarchy []string           // ordered type names, root to self
	Interfaces           []string           // implemented interface type names (set)
	Variant              Variant            // role-specific payload
}

// Kind returns the variant kind. A descriptor without a variant is a generic service.
func (d TypeDescriptor) Kind() Kind {
	if d.Variant == nil {
		return KindService
	}
	return d.Variant.Kind()
}

// Namespace returns the namespace prefix of the type name
func (d TypeDescriptor) Namespace() string {
	return Namespace(d.TypeName)
}

// SimpleName returns the final segment of the type name
func (d TypeDescriptor) SimpleName() string {
	return SimpleName(d.TypeName)
}

// Field returns the field with the given name
func (d TypeDescriptor) Field(name string) (FieldDescriptor, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Method returns the first method with the given name
func (d TypeDescriptor) Method(name string) (MethodDescriptor, bool) {
	for _, m := range d.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodDescriptor{}, false
}

// IsIdentityField reports whether the named field is the identity of an
// aggregate root or entity.
func (d TypeDescriptor) IsIdentityField(name string) bool {
	if aware, ok := d.Variant.(IdentityAware); ok {
		id := aware.GetIdentityField()
		return id != "" && id == name
	}
	return false
}

// Normalize returns a deep copy with defaults applied: members without a
// declaring type are attributed to this descriptor, and set-valued lists
// are sorted and deduplicated.
func (d TypeDescriptor) Normalize() TypeDescriptor {
	out := TypeDescriptor{
		TypeName:             d.TypeName,
		Abstract:             d.Abstract,
		InheritanceHierarchy: cloneStrings(d.InheritanceHierarchy),
		Interfaces:           NormalizeSet(d.Interfaces),
		Variant:              cloneVariant(d.Variant),
	}

	if len(d.Fields) > 0 {
		out.Fields = make([]FieldDescriptor, len(d.Fields))
		for i, f := range d.Fields {
			f = f.Clone()
			if f.DeclaredBy == "" {
				f.DeclaredBy = d.TypeName
			}
			out.Fields[i] = f
		}
	}

	if len(d.Methods) > 0 {
		out.Methods = make([]MethodDescriptor, len(d.Methods))
		for i, m := range d.Methods {
			m = m.Clone()
			if m.DeclaredBy == "" {
				m.DeclaredBy = d.TypeName
			}
			m.PublishedEvents = NormalizeSet(m.PublishedEvents)
			out.Methods[i] = m
		}
	}

	return out
}

// BoundedContext is a namespace-scoped grouping of descriptors.
// Membership is derived from PackageName and never stored.
type BoundedContext struct {
	PackageName string
}
