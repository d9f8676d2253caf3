package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindRoundTrip(t *testing.T) {
	for _, k := range AllKinds {
		t.Run(k.String(), func(t *testing.T) {
			parsed, err := ParseKind(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		})
	}

	_, err := ParseKind("saga")
	assert.Error(t, err)
}

func TestKindIsService(t *testing.T) {
	for _, k := range ServiceKinds {
		assert.True(t, k.IsService(), k.String())
	}
	assert.False(t, KindAggregateRoot.IsService())
	assert.False(t, KindRepository.IsService())
	assert.False(t, KindDomainEvent.IsService())
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		input    string
		expected Shape
		wantErr  bool
	}{
		{"", ShapeNone, false},
		{"none", ShapeNone, false},
		{"optional", ShapeOptional, false},
		{"list", ShapeList, false},
		{"set", ShapeSet, false},
		{"stream", ShapeStream, false},
		{"array", ShapeArray, false},
		{"map", ShapeNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			shape, err := ParseShape(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, shape)
		})
	}
}

func TestParseAccessLevel(t *testing.T) {
	for _, a := range []AccessLevel{AccessPackage, AccessPublic, AccessProtected, AccessPrivate} {
		parsed, err := ParseAccessLevel(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}

	_, err := ParseAccessLevel("internal")
	assert.Error(t, err)
}

func TestReferenceKindFor(t *testing.T) {
	assert.Equal(t, AggregateRootReference, ReferenceKindFor(KindAggregateRoot))
	assert.Equal(t, EntityReference, ReferenceKindFor(KindEntity))
	assert.Equal(t, ValueReference, ReferenceKindFor(KindValueObject))
	assert.Equal(t, ValueReference, ReferenceKindFor(KindEnum))
	assert.Equal(t, ValueReference, ReferenceKindFor(KindIdentity))
	assert.Equal(t, PlainReference, ReferenceKindFor(KindDomainEvent))
	assert.Equal(t, "aggregate_root_reference", AggregateRootReference.String())
}

func TestNamespaceHelpers(t *testing.T) {
	assert.Equal(t, "shop.billing", Namespace("shop.billing.Invoice"))
	assert.Equal(t, "", Namespace("Invoice"))
	assert.Equal(t, "Invoice", SimpleName("shop.billing.Invoice"))
	assert.Equal(t, "Invoice", SimpleName("Invoice"))
	assert.True(t, IsQualified("shop.Order"))
	assert.False(t, IsQualified("string"))

	assert.True(t, WithinNamespace("shop.billing", "shop"))
	assert.True(t, WithinNamespace("shop", "shop"))
	assert.True(t, WithinNamespace("shop", ""))
	assert.False(t, WithinNamespace("shopping", "shop"))
	assert.False(t, WithinNamespace("shop", "shop.billing"))
}

func TestNormalizeSet(t *testing.T) {
	assert.Nil(t, NormalizeSet(nil))
	assert.Nil(t, NormalizeSet([]string{""}))
	assert.Equal(t, []string{"a", "b"}, NormalizeSet([]string{"b", "a", "b", ""}))
}

func TestContainerTypeString(t *testing.T) {
	tests := []struct {
		name     string
		typ      ContainerType
		expected string
	}{
		{"bare", TypeOf("shop.Money"), "shop.Money"},
		{"list", ListOf("shop.OrderLine"), "list<shop.OrderLine>"},
		{"optional", OptionalOf("string"), "optional<string>"},
		{"generic", TypeOf("shop.Page").WithTypeArguments(TypeOf("shop.Order")), "shop.Page[shop.Order]"},
		{"set of generic", SetOf("shop.Pair").WithTypeArguments(TypeOf("string"), ListOf("int")), "set<shop.Pair[string, list<int>]>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.typ.String())
		})
	}
}

func TestElementTypeNames(t *testing.T) {
	typ := TypeOf("shop.Page").WithTypeArguments(TypeOf("shop.Pair").WithTypeArguments(TypeOf("shop.A"), TypeOf("shop.B")))
	assert.Equal(t, []string{"shop.Page", "shop.Pair", "shop.A", "shop.B"}, typ.ElementTypeNames())
	assert.False(t, typ.IsContainer())
	assert.True(t, ListOf("x").IsContainer())
}
