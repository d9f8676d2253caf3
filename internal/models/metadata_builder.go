package models

// DescriptorBuilder provides a fluent interface for building type descriptors
type DescriptorBuilder struct {
	base     TypeDescriptor
	identity *IdentityTrait
}

// NewDescriptorBuilder creates a new descriptor builder for a type name
func NewDescriptorBuilder(typeName string) *DescriptorBuilder {
	return &DescriptorBuilder{
		base: TypeDescriptor{TypeName: typeName},
	}
}

// Abstract marks the type as abstract
func (b *DescriptorBuilder) Abstract() *DescriptorBuilder {
	b.base.Abstract = true
	return b
}

// WithFields adds fields declared by the type
func (b *DescriptorBuilder) WithFields(fields ...FieldDescriptor) *DescriptorBuilder {
	b.base.Fields = append(b.base.Fields, fields...)
	return b
}

// WithField adds a public field of the given type
func (b *DescriptorBuilder) WithField(name string, typ ContainerType) *DescriptorBuilder {
	return b.WithFields(NewField(name, typ))
}

// WithMethods adds methods declared by the type
func (b *DescriptorBuilder) WithMethods(methods ...MethodDescriptor) *DescriptorBuilder {
	b.base.Methods = append(b.base.Methods, methods...)
	return b
}

// Extends sets the inheritance hierarchy, root first. The type itself is
// appended when missing.
func (b *DescriptorBuilder) Extends(supertypes ...string) *DescriptorBuilder {
	hierarchy := append([]string{}, supertypes...)
	if len(hierarchy) == 0 || hierarchy[len(hierarchy)-1] != b.base.TypeName {
		hierarchy = append(hierarchy, b.base.TypeName)
	}
	b.base.InheritanceHierarchy = hierarchy
	return b
}

// Implements adds implemented interface type names
func (b *DescriptorBuilder) Implements(interfaces ...string) *DescriptorBuilder {
	b.base.Interfaces = append(b.base.Interfaces, interfaces...)
	return b
}

// WithIdentity sets the identity and concurrency-version field names used by
// aggregate roots and entities
func (b *DescriptorBuilder) WithIdentity(identityField, versionField string) *DescriptorBuilder {
	b.identity = &IdentityTrait{
		IdentityField: identityField,
		VersionField:  versionField,
	}
	return b
}

func (b *DescriptorBuilder) build(v Variant) TypeDescriptor {
	d := b.base
	d.Variant = v
	return d.Normalize()
}

func (b *DescriptorBuilder) identityTrait() IdentityTrait {
	if b.identity == nil {
		return IdentityTrait{}
	}
	return *b.identity
}

// BuildAggregateRoot creates an aggregate root descriptor
func (b *DescriptorBuilder) BuildAggregateRoot() TypeDescriptor {
	return b.build(AggregateRoot{IdentityTrait: b.identityTrait()})
}

// BuildEntity creates an entity descriptor
func (b *DescriptorBuilder) BuildEntity() TypeDescriptor {
	return b.build(Entity{IdentityTrait: b.identityTrait()})
}

// BuildValueObject creates a value object descriptor
func (b *DescriptorBuilder) BuildValueObject() TypeDescriptor {
	return b.build(ValueObject{})
}

// BuildEnum creates an enum descriptor with the given constants
func (b *DescriptorBuilder) BuildEnum(constants ...string) TypeDescriptor {
	return b.build(EnumType{Constants: constants})
}

// BuildIdentity creates an identity descriptor wrapping valueType
func (b *DescriptorBuilder) BuildIdentity(valueType string) TypeDescriptor {
	return b.build(Identity{ValueType: valueType})
}

// BuildDomainEvent creates a domain event descriptor
func (b *DescriptorBuilder) BuildDomainEvent() TypeDescriptor {
	return b.build(DomainEvent{})
}

// BuildDomainCommand creates a domain command descriptor. target may be empty.
func (b *DescriptorBuilder) BuildDomainCommand(target string) TypeDescriptor {
	return b.build(DomainCommand{Target: target})
}

// BuildRepository creates a repository descriptor managing the given aggregate
func (b *DescriptorBuilder) BuildRepository(aggregate string) TypeDescriptor {
	return b.build(Repository{ManagedAggregate: aggregate})
}

// BuildReadModel creates a read model descriptor
func (b *DescriptorBuilder) BuildReadModel() TypeDescriptor {
	return b.build(ReadModel{})
}

// BuildQueryHandler creates a query handler descriptor providing readModel
func (b *DescriptorBuilder) BuildQueryHandler(readModel string) TypeDescriptor {
	return b.build(QueryHandler{ProvidedReadModel: readModel})
}

// BuildService creates a descriptor for one of the payload-free service kinds.
// Kinds that carry a payload fall back to their zero payload.
func (b *DescriptorBuilder) BuildService(kind Kind) TypeDescriptor {
	return b.build(NewVariant(kind))
}

// BuildVariant creates a descriptor with an explicit variant payload
func (b *DescriptorBuilder) BuildVariant(v Variant) TypeDescriptor {
	return b.build(v)
}
