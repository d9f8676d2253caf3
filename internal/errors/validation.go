package errors

import "fmt"

// SyntaxError represents an assertion expression that does not parse
type SyntaxError struct {
	*BaseError
	Input    string // the expression being parsed
	Token    string // the token that caused the error
	Position int    // offset in the input where the error occurred
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// NewSyntaxErrorWithToken creates a syntax error with token information
func NewSyntaxErrorWithToken(message, token string, position int) *SyntaxError {
	if token != "" {
		message = fmt.Sprintf("%s (near token '%s')", message, token)
	}

	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
		Token:     token,
		Position:  position,
	}
}

// WithInput sets the expression being parsed
func (e *SyntaxError) WithInput(input string) *SyntaxError {
	e.Input = input
	e.BaseError.WithContext("input", input)
	return e
}

// WithCause adds an underlying error cause
func (e *SyntaxError) WithCause(cause error) *SyntaxError {
	e.BaseError.WithCause(cause)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *SyntaxError) WithSuggestion(suggestion string) *SyntaxError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// SchemaError represents an assertion whose parameters do not fit its schema
type SchemaError struct {
	*BaseError
	AssertionName string // name of the assertion
	Expected      string // expected parameter count
	Actual        int    // provided parameter count
}

// NewSchemaError creates a schema error for an assertion arity mismatch
func NewSchemaError(assertionName, expected string, actual int) *SchemaError {
	message := fmt.Sprintf("assertion '%s' expects %s parameter(s), got %d", assertionName, expected, actual)

	return &SchemaError{
		BaseError:     New(SchemaErrorCode, message),
		AssertionName: assertionName,
		Expected:      expected,
		Actual:        actual,
	}
}

// WireFormatError represents a wire document record that cannot be decoded
type WireFormatError struct {
	*BaseError
	TypeName string // record key, empty for document-level problems
	Field    string // offending key inside the record
}

// NewWireFormatError creates a new wire format error
func NewWireFormatError(typeName, field, reason string) *WireFormatError {
	message := reason
	switch {
	case typeName != "" && field != "":
		message = fmt.Sprintf("type '%s' field '%s': %s", typeName, field, reason)
	case typeName != "":
		message = fmt.Sprintf("type '%s': %s", typeName, reason)
	}

	return &WireFormatError{
		BaseError: New(WireFormatErrorCode, message),
		TypeName:  typeName,
		Field:     field,
	}
}

// WithCause adds an underlying error cause
func (e *WireFormatError) WithCause(cause error) *WireFormatError {
	e.BaseError.WithCause(cause)
	return e
}

// WithLocation adds location information to the error
func (e *WireFormatError) WithLocation(loc SourceLocation) *WireFormatError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *WireFormatError) WithSuggestion(suggestion string) *WireFormatError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// VersionError represents a wire document written by an incompatible version
type VersionError struct {
	*BaseError
	Document  string // version found in the document
	Supported string // version the reader supports
}

// NewVersionError creates a new version error
func NewVersionError(document, supported string) *VersionError {
	message := fmt.Sprintf("document version '%s' is not compatible with '%s'", document, supported)

	return &VersionError{
		BaseError: New(VersionErrorCode, message).
			WithSuggestion("Convert the document with a matching major version of mirror"),
		Document:  document,
		Supported: supported,
	}
}
