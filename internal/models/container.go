package models

import "strings"

// ContainerType wraps an element type name in at most one container shape,
// together with the declarative assertions placed on it
type ContainerType struct {
	TypeName      string          // element type name
	Shape         Shape           // container shape, ShapeNone for a bare element
	Assertions    []Assertion     // validation assertions on the value
	TypeArguments []ContainerType // resolved generic arguments of the element type
}

// Assertion is a named predicate with parameters and a failure message.
// It is evaluated by an external validation library; this package only carries it.
type Assertion struct {
	Name    string
	Params  []string
	Message string
}

// TypeOf creates a bare container for a type name
func TypeOf(typeName string) ContainerType {
	return ContainerType{TypeName: typeName}
}

// ListOf creates a list container
func ListOf(typeName string) ContainerType {
	return ContainerType{TypeName: typeName, Shape: ShapeList}
}

// SetOf creates a set container
func SetOf(typeName string) ContainerType {
	return ContainerType{TypeName: typeName, Shape: ShapeSet}
}

// OptionalOf creates an optional container
func OptionalOf(typeName string) ContainerType {
	return ContainerType{TypeName: typeName, Shape: ShapeOptional}
}

// WithAssertions returns a copy with the given assertions appended
func (c ContainerType) WithAssertions(assertions ...Assertion) ContainerType {
	c = c.Clone()
	c.Assertions = append(c.Assertions, assertions...)
	return c
}

// WithTypeArguments returns a copy with the given generic arguments
func (c ContainerType) WithTypeArguments(args ...ContainerType) ContainerType {
	c = c.Clone()
	c.TypeArguments = append(c.TypeArguments, args...)
	return c
}

// IsContainer reports whether the element is wrapped in a container shape
func (c ContainerType) IsContainer() bool {
	return c.Shape != ShapeNone
}

// ElementTypeNames returns the element type name followed by those of every
// generic argument, depth first
func (c ContainerType) ElementTypeNames() []string {
	names := []string{c.TypeName}
	for _, arg := range c.TypeArguments {
		names = append(names, arg.ElementTypeNames()...)
	}
	return names
}

// String renders the type as shape<element[args]>
func (c ContainerType) String() string {
	var b strings.Builder
	b.WriteString(c.TypeName)
	if len(c.TypeArguments) > 0 {
		b.WriteByte('[')
		for i, arg := range c.TypeArguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.String())
		}
		b.WriteByte(']')
	}
	if c.Shape == ShapeNone {
		return b.String()
	}
	return c.Shape.String() + "<" + b.String() + ">"
}

// Clone returns a deep copy of the container
func (c ContainerType) Clone() ContainerType {
	out := ContainerType{TypeName: c.TypeName, Shape: c.Shape}
	if len(c.Assertions) > 0 {
		out.Assertions = make([]Assertion, len(c.Assertions))
		for i, a := range c.Assertions {
			out.Assertions[i] = Assertion{Name: a.Name, Params: cloneStrings(a.Params), Message: a.Message}
		}
	}
	if len(c.TypeArguments) > 0 {
		out.TypeArguments = make([]ContainerType, len(c.TypeArguments))
		for i, arg := range c.TypeArguments {
			out.TypeArguments[i] = arg.Clone()
		}
	}
	return out
}
