package registry

import (
	"fmt"

	"github.com/toyz/mirror/internal/index"
	"github.com/toyz/mirror/internal/models"
)

// position distinguishes how a name inside a descriptor is interpreted
type position int

const (
	// typePosition names appear as field, parameter, return or wrapped value
	// types. They may be scalars such as "string".
	typePosition position = iota
	// pointerPosition names must denote a descriptor: events, supertypes,
	// interfaces, variant targets and declaring types.
	pointerPosition
)

// reference is one name found inside a descriptor
type reference struct {
	from     string
	member   string
	to       string
	relation index.Relation
	indexed  bool
	position position
}

// walkReferences visits every name-valued member of d in a fixed order.
// It is the single source for both reference validation and index edges.
func walkReferences(d models.TypeDescriptor, visit func(reference)) {
	emit := func(member, to string, rel index.Relation, indexed bool, pos position) {
		if to == "" {
			return
		}
		visit(reference{from: d.TypeName, member: member, to: to, relation: rel, indexed: indexed, position: pos})
	}
	emitType := func(member string, typ models.ContainerType) {
		for _, name := range typ.ElementTypeNames() {
			emit(member, name, index.References, true, typePosition)
		}
	}

	for _, f := range d.Fields {
		member := "fields." + f.Name
		emitType(member, f.Type)
		if f.DeclaredBy != d.TypeName {
			emit(member+".declaredBy", f.DeclaredBy, 0, false, pointerPosition)
		}
	}

	for _, m := range d.Methods {
		prefix := "methods." + m.Name
		for _, p := range m.Parameters {
			emitType(prefix+".params."+p.Name, p.Type)
		}
		if m.ReturnType != nil {
			emitType(prefix+".returns", *m.ReturnType)
		}
		for _, e := range m.PublishedEvents {
			emit(prefix+".publishes", e, index.Publishes, true, pointerPosition)
		}
		emit(prefix+".listens", m.ListenedEvent, index.Listens, true, pointerPosition)
		if m.DeclaredBy != d.TypeName {
			emit(prefix+".declaredBy", m.DeclaredBy, 0, false, pointerPosition)
		}
	}

	for i, super := range d.InheritanceHierarchy {
		if super == d.TypeName {
			continue
		}
		emit(fmt.Sprintf("hierarchy[%d]", i), super, index.Extends, true, pointerPosition)
	}

	for _, iface := range d.Interfaces {
		emit("interfaces", iface, index.Implements, true, pointerPosition)
	}

	if carrier, ok := d.Variant.(models.ReferenceCarrier); ok {
		for _, r := range carrier.VariantReferences() {
			rel, pos := variantRelation(r.Member)
			emit(r.Member, r.Target, rel, true, pos)
		}
	}
}

func variantRelation(member string) (index.Relation, position) {
	switch member {
	case "target":
		return index.Targets, pointerPosition
	case "managedAggregate":
		return index.Manages, pointerPosition
	case "providedReadModel":
		return index.Provides, pointerPosition
	default:
		return index.References, typePosition
	}
}
