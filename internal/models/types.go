package models

import "fmt"

// Kind represents the domain role a type descriptor plays
type Kind int

const (
	KindAggregateRoot Kind = iota
	KindEntity
	KindValueObject
	KindEnum
	KindIdentity
	KindDomainEvent
	KindDomainCommand
	KindDomainService
	KindRepository
	KindReadModel
	KindQueryHandler
	KindOutboundService
	KindApplicationService
	KindService
)

// AllKinds lists every variant in declaration order
var AllKinds = []Kind{
	KindAggregateRoot,
	KindEntity,
	KindValueObject,
	KindEnum,
	KindIdentity,
	KindDomainEvent,
	KindDomainCommand,
	KindDomainService,
	KindRepository,
	KindReadModel,
	KindQueryHandler,
	KindOutboundService,
	KindApplicationService,
	KindService,
}

// String returns the wire name of the kind
func (k Kind) String() string {
	switch k {
	case KindAggregateRoot:
		return "aggregate_root"
	case KindEntity:
		return "entity"
	case KindValueObject:
		return "value_object"
	case KindEnum:
		return "enum"
	case KindIdentity:
		return "identity"
	case KindDomainEvent:
		return "domain_event"
	case KindDomainCommand:
		return "domain_command"
	case KindDomainService:
		return "domain_service"
	case KindRepository:
		return "repository"
	case KindReadModel:
		return "read_model"
	case KindQueryHandler:
		return "query_handler"
	case KindOutboundService:
		return "outbound_service"
	case KindApplicationService:
		return "application_service"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// ParseKind converts a wire name to a Kind
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind: %s", s)
}

// IsService reports whether the kind is one of the service roles
func (k Kind) IsService() bool {
	switch k {
	case KindDomainService, KindOutboundService, KindApplicationService, KindService, KindQueryHandler:
		return true
	default:
		return false
	}
}

// ServiceKinds are the kinds treated as services by the relationship views
var ServiceKinds = []Kind{
	KindDomainService,
	KindOutboundService,
	KindApplicationService,
	KindService,
	KindQueryHandler,
}

// Shape is the container wrapped around an element type
type Shape int

const (
	ShapeNone Shape = iota
	ShapeOptional
	ShapeList
	ShapeSet
	ShapeStream
	ShapeArray
)

// String returns the wire name of the shape
func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return ""
	case ShapeOptional:
		return "optional"
	case ShapeList:
		return "list"
	case ShapeSet:
		return "set"
	case ShapeStream:
		return "stream"
	case ShapeArray:
		return "array"
	default:
		return "unknown"
	}
}

// ParseShape converts a wire name to a Shape. The empty string is ShapeNone.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "", "none":
		return ShapeNone, nil
	case "optional":
		return ShapeOptional, nil
	case "list":
		return ShapeList, nil
	case "set":
		return ShapeSet, nil
	case "stream":
		return ShapeStream, nil
	case "array":
		return ShapeArray, nil
	default:
		return ShapeNone, fmt.Errorf("unknown container shape: %s", s)
	}
}

// AccessLevel is the declared visibility of a member
type AccessLevel int

const (
	AccessPackage AccessLevel = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

// String returns the wire name of the access level
func (a AccessLevel) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "package"
	}
}

// ParseAccessLevel converts a wire name to an AccessLevel. The empty string is AccessPackage.
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch s {
	case "", "package":
		return AccessPackage, nil
	case "public":
		return AccessPublic, nil
	case "protected":
		return AccessProtected, nil
	case "private":
		return AccessPrivate, nil
	default:
		return AccessPackage, fmt.Errorf("unknown access level: %s", s)
	}
}

// ReferenceKind classifies a field whose type names another descriptor
type ReferenceKind int

const (
	NoReference ReferenceKind = iota
	PlainReference
	EntityReference
	ValueReference
	AggregateRootReference
)

// String returns the name of the reference kind
func (r ReferenceKind) String() string {
	switch r {
	case PlainReference:
		return "reference"
	case EntityReference:
		return "entity_reference"
	case ValueReference:
		return "value_reference"
	case AggregateRootReference:
		return "aggregate_root_reference"
	default:
		return "none"
	}
}

// ReferenceKindFor returns the reference sub-kind for a field pointing at a descriptor of kind k
func ReferenceKindFor(k Kind) ReferenceKind {
	switch k {
	case KindAggregateRoot:
		return AggregateRootReference
	case KindEntity:
		return EntityReference
	case KindValueObject, KindEnum, KindIdentity:
		return ValueReference
	default:
		return PlainReference
	}
}
