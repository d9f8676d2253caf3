package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDirectStructureUsage ensures descriptors work with plain composition
func TestDirectStructureUsage(t *testing.T) {
	order := TypeDescriptor{
		TypeName: "shop.Order",
		Fields: []FieldDescriptor{
			NewField("id", TypeOf("shop.OrderId")),
			NewField("lines", ListOf("shop.OrderLine")),
		},
		Variant: AggregateRoot{IdentityTrait: IdentityTrait{IdentityField: "id", VersionField: "version"}},
	}

	assert.Equal(t, KindAggregateRoot, order.Kind())
	assert.Equal(t, "shop", order.Namespace())
	assert.Equal(t, "Order", order.SimpleName())
	assert.True(t, order.IsIdentityField("id"))
	assert.False(t, order.IsIdentityField("lines"))

	f, ok := order.Field("lines")
	require.True(t, ok)
	assert.Equal(t, "list<shop.OrderLine>", f.Type.String())

	_, ok = order.Field("missing")
	assert.False(t, ok)
}

// TestBuilderPattern ensures the fluent builder produces normalized descriptors
func TestBuilderPattern(t *testing.T) {
	order := NewDescriptorBuilder("shop.Order").
		WithIdentity("id", "version").
		WithField("id", TypeOf("shop.OrderId")).
		WithMethods(NewMethod("place").Publishing("shop.OrderPlaced", "shop.OrderPlaced", "shop.Audit")).
		Extends("shop.Base").
		Implements("shop.Auditable", "shop.Auditable").
		BuildAggregateRoot()

	assert.Equal(t, KindAggregateRoot, order.Kind())
	assert.Equal(t, []string{"shop.Base", "shop.Order"}, order.InheritanceHierarchy)
	assert.Equal(t, []string{"shop.Auditable"}, order.Interfaces)

	place, ok := order.Method("place")
	require.True(t, ok)
	assert.Equal(t, []string{"shop.Audit", "shop.OrderPlaced"}, place.PublishedEvents)
	assert.Equal(t, "shop.Order", place.DeclaredBy)

	id, ok := order.Field("id")
	require.True(t, ok)
	assert.Equal(t, "shop.Order", id.DeclaredBy)
	assert.True(t, order.IsIdentityField("id"))

	root, ok := order.Variant.(AggregateRoot)
	require.True(t, ok)
	assert.Equal(t, "version", root.GetVersionField())
}

func TestBuilderVariants(t *testing.T) {
	tests := []struct {
		name string
		desc TypeDescriptor
		kind Kind
		refs []MemberReference
	}{
		{"entity", NewDescriptorBuilder("shop.OrderLine").BuildEntity(), KindEntity, nil},
		{"value object", NewDescriptorBuilder("shop.Money").BuildValueObject(), KindValueObject, nil},
		{"enum", NewDescriptorBuilder("shop.Status").BuildEnum("OPEN", "CLOSED"), KindEnum, nil},
		{"identity", NewDescriptorBuilder("shop.OrderId").BuildIdentity("shop.Uuid"), KindIdentity,
			[]MemberReference{{Member: "valueType", Target: "shop.Uuid"}}},
		{"event", NewDescriptorBuilder("shop.OrderPlaced").BuildDomainEvent(), KindDomainEvent, nil},
		{"command with target", NewDescriptorBuilder("shop.PlaceOrder").BuildDomainCommand("shop.Order"), KindDomainCommand,
			[]MemberReference{{Member: "target", Target: "shop.Order"}}},
		{"command without target", NewDescriptorBuilder("shop.Ping").BuildDomainCommand(""), KindDomainCommand, nil},
		{"repository", NewDescriptorBuilder("shop.Orders").BuildRepository("shop.Order"), KindRepository,
			[]MemberReference{{Member: "managedAggregate", Target: "shop.Order"}}},
		{"read model", NewDescriptorBuilder("shop.OrderView").BuildReadModel(), KindReadModel, nil},
		{"query handler", NewDescriptorBuilder("shop.OrderQueries").BuildQueryHandler("shop.OrderView"), KindQueryHandler,
			[]MemberReference{{Member: "providedReadModel", Target: "shop.OrderView"}}},
		{"outbound", NewDescriptorBuilder("shop.Mailer").BuildService(KindOutboundService), KindOutboundService, nil},
		{"application", NewDescriptorBuilder("shop.Checkout").BuildService(KindApplicationService), KindApplicationService, nil},
		{"domain service", NewDescriptorBuilder("shop.Pricing").BuildService(KindDomainService), KindDomainService, nil},
		{"generic service", NewDescriptorBuilder("shop.Clock").BuildService(KindService), KindService, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.desc.Kind())

			var refs []MemberReference
			if carrier, ok := tt.desc.Variant.(ReferenceCarrier); ok {
				refs = carrier.VariantReferences()
			}
			assert.Equal(t, tt.refs, refs)
		})
	}
}

func TestNormalizeIsDeepCopy(t *testing.T) {
	original := TypeDescriptor{
		TypeName: "shop.Order",
		Fields: []FieldDescriptor{
			NewField("tags", SetOf("shop.Tag").WithAssertions(Assertion{Name: "notEmpty"})),
		},
		Methods: []MethodDescriptor{
			NewMethod("rename").WithParam("name", TypeOf("string")).Returning(TypeOf("shop.Order")),
		},
		Variant: EnumType{Constants: []string{"A"}},
	}

	normalized := original.Normalize()
	normalized.Fields[0].Type.Assertions[0].Name = "changed"
	normalized.Methods[0].Parameters[0].Name = "changed"
	normalized.Methods[0].ReturnType.TypeName = "changed"
	normalized.Variant.(EnumType).Constants[0] = "changed"

	assert.Equal(t, "notEmpty", original.Fields[0].Type.Assertions[0].Name)
	assert.Equal(t, "name", original.Methods[0].Parameters[0].Name)
	assert.Equal(t, "shop.Order", original.Methods[0].ReturnType.TypeName)
	assert.Equal(t, "A", original.Variant.(EnumType).Constants[0])
	assert.Empty(t, original.Fields[0].DeclaredBy)
}

func TestNilVariantIsService(t *testing.T) {
	d := TypeDescriptor{TypeName: "shop.Anything"}
	assert.Equal(t, KindService, d.Kind())
	assert.Equal(t, Service{}, d.Normalize().Variant)
	assert.False(t, d.IsIdentityField("id"))
}

// TestInterfaceImplementation ensures variants implement the expected interfaces
func TestInterfaceImplementation(t *testing.T) {
	var _ IdentityAware = AggregateRoot{}
	var _ IdentityAware = Entity{}

	var _ ReferenceCarrier = Identity{}
	var _ ReferenceCarrier = DomainCommand{}
	var _ ReferenceCarrier = Repository{}
	var _ ReferenceCarrier = QueryHandler{}

	for _, k := range AllKinds {
		assert.Equal(t, k, NewVariant(k).Kind(), k.String())
	}
}
