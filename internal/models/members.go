package models

// FieldDescriptor describes one field of a type
type FieldDescriptor struct {
	Name       string        // field name
	Type       ContainerType // declared type
	Access     AccessLevel   // declared visibility
	DeclaredBy string        // type that declares the field
	ReadOnly   bool          // whether the field cannot be modified after construction
	Hidden     bool          // whether the field is excluded from external views
}

// NewField creates a public field of the given type
func NewField(name string, typ ContainerType) FieldDescriptor {
	return FieldDescriptor{
		Name:   name,
		Type:   typ,
		Access: AccessPublic,
	}
}

// Clone returns a deep copy of the field
func (f FieldDescriptor) Clone() FieldDescriptor {
	f.Type = f.Type.Clone()
	return f
}

// Parameter is a named method parameter
type Parameter struct {
	Name string
	Type ContainerType
}

// MethodDescriptor describes one method of a type
type MethodDescriptor struct {
	Name            string         // method name
	DeclaredBy      string         // type that declares the method
	Access          AccessLevel    // declared visibility
	Parameters      []Parameter    // ordered parameters
	ReturnType      *ContainerType // nil when the method returns nothing
	Overridden      bool           // whether the method overrides a supertype method
	PublishedEvents []string       // event type names published (set)
	ListenedEvent   string         // event type name listened to (optional)
}

// NewMethod creates a public method with no parameters and no return type
func NewMethod(name string) MethodDescriptor {
	return MethodDescriptor{Name: name, Access: AccessPublic}
}

// Publishing returns a copy of the method that also publishes the given events
func (m MethodDescriptor) Publishing(events ...string) MethodDescriptor {
	m.PublishedEvents = append(cloneStrings(m.PublishedEvents), events...)
	return m
}

// Listening returns a copy of the method that listens to the given event
func (m MethodDescriptor) Listening(event string) MethodDescriptor {
	m.ListenedEvent = event
	return m
}

// WithParam returns a copy of the method with an extra parameter
func (m MethodDescriptor) WithParam(name string, typ ContainerType) MethodDescriptor {
	params := make([]Parameter, len(m.Parameters), len(m.Parameters)+1)
	copy(params, m.Parameters)
	m.Parameters = append(params, Parameter{Name: name, Type: typ})
	return m
}

// Returning returns a copy of the method with the given return type
func (m MethodDescriptor) Returning(typ ContainerType) MethodDescriptor {
	m.ReturnType = &typ
	return m
}

// Clone returns a deep copy of the method
func (m MethodDescriptor) Clone() MethodDescriptor {
	if len(m.Parameters) > 0 {
		params := make([]Parameter, len(m.Parameters))
		for i, p := range m.Parameters {
			params[i] = Parameter{Name: p.Name, Type: p.Type.Clone()}
		}
		m.Parameters = params
	}
	if m.ReturnType != nil {
		rt := m.ReturnType.Clone()
		m.ReturnType = &rt
	}
	m.PublishedEvents = cloneStrings(m.PublishedEvents)
	return m
}
