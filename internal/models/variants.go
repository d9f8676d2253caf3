package models

// Variant is the closed set of role-specific payloads a TypeDescriptor may carry.
// Only types in this package implement it.
type Variant interface {
	Kind() Kind
	variant()
}

// AggregateRoot is the consistency boundary of an aggregate
type AggregateRoot struct {
	IdentityTrait
}

// Entity is an identified member of an aggregate
type Entity struct {
	IdentityTrait
}

// ValueObject is an immutable, identity-less value
type ValueObject struct{}

// EnumType is a value type with a fixed set of constants
type EnumType struct {
	Constants []string
}

// Identity wraps a single value type used as an identifier
type Identity struct {
	ValueType string // wrapped value type name
}

// DomainEvent records something that happened in the domain
type DomainEvent struct{}

// DomainCommand requests a change, optionally aimed at an aggregate or service
type DomainCommand struct {
	Target string // optional target type name
}

// DomainService holds domain logic that belongs to no single aggregate
type DomainService struct{}

// Repository persists one aggregate type
type Repository struct {
	ManagedAggregate string
}

// ReadModel is a query-side projection
type ReadModel struct{}

// QueryHandler answers queries by providing a read model
type QueryHandler struct {
	ProvidedReadModel string
}

// OutboundService talks to systems outside the domain
type OutboundService struct{}

// ApplicationService orchestrates use cases
type ApplicationService struct{}

// Service is the catch-all service role
type Service struct{}

func (AggregateRoot) Kind() Kind      { return KindAggregateRoot }
func (Entity) Kind() Kind             { return KindEntity }
func (ValueObject) Kind() Kind        { return KindValueObject }
func (EnumType) Kind() Kind           { return KindEnum }
func (Identity) Kind() Kind           { return KindIdentity }
func (DomainEvent) Kind() Kind        { return KindDomainEvent }
func (DomainCommand) Kind() Kind      { return KindDomainCommand }
func (DomainService) Kind() Kind      { return KindDomainService }
func (Repository) Kind() Kind         { return KindRepository }
func (ReadModel) Kind() Kind          { return KindReadModel }
func (QueryHandler) Kind() Kind       { return KindQueryHandler }
func (OutboundService) Kind() Kind    { return KindOutboundService }
func (ApplicationService) Kind() Kind { return KindApplicationService }
func (Service) Kind() Kind            { return KindService }

func (AggregateRoot) variant()      {}
func (Entity) variant()             {}
func (ValueObject) variant()        {}
func (EnumType) variant()           {}
func (Identity) variant()           {}
func (DomainEvent) variant()        {}
func (DomainCommand) variant()      {}
func (DomainService) variant()      {}
func (Repository) variant()         {}
func (ReadModel) variant()          {}
func (QueryHandler) variant()       {}
func (OutboundService) variant()    {}
func (ApplicationService) variant() {}
func (Service) variant()            {}

// VariantReferences returns the type names a variant points at, keyed by member name
func (i Identity) VariantReferences() []MemberReference {
	return memberRefs("valueType", i.ValueType)
}

// VariantReferences returns the type names a variant points at, keyed by member name
func (c DomainCommand) VariantReferences() []MemberReference {
	return memberRefs("target", c.Target)
}

// VariantReferences returns the type names a variant points at, keyed by member name
func (r Repository) VariantReferences() []MemberReference {
	return memberRefs("managedAggregate", r.ManagedAggregate)
}

// VariantReferences returns the type names a variant points at, keyed by member name
func (q QueryHandler) VariantReferences() []MemberReference {
	return memberRefs("providedReadModel", q.ProvidedReadModel)
}

// MemberReference is a named pointer from a variant payload to a type name
type MemberReference struct {
	Member string
	Target string
}

func memberRefs(member, target string) []MemberReference {
	if target == "" {
		return nil
	}
	return []MemberReference{{Member: member, Target: target}}
}

// NewVariant returns the zero payload for a kind
func NewVariant(k Kind) Variant {
	switch k {
	case KindAggregateRoot:
		return AggregateRoot{}
	case KindEntity:
		return Entity{}
	case KindValueObject:
		return ValueObject{}
	case KindEnum:
		return EnumType{}
	case KindIdentity:
		return Identity{}
	case KindDomainEvent:
		return DomainEvent{}
	case KindDomainCommand:
		return DomainCommand{}
	case KindDomainService:
		return DomainService{}
	case KindRepository:
		return Repository{}
	case KindReadModel:
		return ReadModel{}
	case KindQueryHandler:
		return QueryHandler{}
	case KindOutboundService:
		return OutboundService{}
	case KindApplicationService:
		return ApplicationService{}
	default:
		return Service{}
	}
}

func cloneVariant(v Variant) Variant {
	switch t := v.(type) {
	case nil:
		return Service{}
	case EnumType:
		return EnumType{Constants: cloneStrings(t.Constants)}
	default:
		return v
	}
}
