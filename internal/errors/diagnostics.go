package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Sentinels for classifying build diagnostics with errors.Is
var (
	ErrDuplicateTypeDescriptor       = stderrors.New("duplicate type descriptor")
	ErrUnresolvedReference           = stderrors.New("unresolved reference")
	ErrDuplicateBoundedContextPrefix = stderrors.New("duplicate bounded context prefix")
)

// DuplicateTypeDescriptor is reported once per extra registration of a type name
type DuplicateTypeDescriptor struct {
	*BaseError
	TypeName string
}

// NewDuplicateTypeDescriptor creates a duplicate type descriptor diagnostic
func NewDuplicateTypeDescriptor(typeName string) *DuplicateTypeDescriptor {
	return &DuplicateTypeDescriptor{
		BaseError: New(DuplicateTypeDescriptorCode, fmt.Sprintf("type '%s' is registered more than once", typeName)).
			WithContext("type_name", typeName).
			WithSuggestion("Remove the duplicate descriptor or rename one of the types"),
		TypeName: typeName,
	}
}

// Is matches ErrDuplicateTypeDescriptor
func (e *DuplicateTypeDescriptor) Is(target error) bool {
	return target == ErrDuplicateTypeDescriptor
}

// UnresolvedReference is reported once per reference to a type name absent from the batch
type UnresolvedReference struct {
	*BaseError
	From   string // type holding the reference
	Member string // member path inside From, e.g. fields.customer
	To     string // missing type name
}

// NewUnresolvedReference creates an unresolved reference diagnostic
func NewUnresolvedReference(from, member, to string) *UnresolvedReference {
	return &UnresolvedReference{
		BaseError: New(UnresolvedReferenceCode, fmt.Sprintf("'%s' %s references unknown type '%s'", from, member, to)).
			WithContext("from", from).
			WithContext("member", member).
			WithContext("to", to).
			WithSuggestions(
				fmt.Sprintf("Add a descriptor for '%s'", to),
				"Declare the namespace as external if the type lives outside the model",
			),
		From:   from,
		Member: member,
		To:     to,
	}
}

// Is matches ErrUnresolvedReference
func (e *UnresolvedReference) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// DuplicateBoundedContextPrefix is reported when two bounded contexts declare the same package
type DuplicateBoundedContextPrefix struct {
	*BaseError
	PackageName string
}

// NewDuplicateBoundedContextPrefix creates a duplicate bounded context prefix diagnostic
func NewDuplicateBoundedContextPrefix(packageName string) *DuplicateBoundedContextPrefix {
	return &DuplicateBoundedContextPrefix{
		BaseError: New(DuplicateBoundedContextPrefixCode, fmt.Sprintf("bounded context prefix '%s' is declared more than once", packageName)).
			WithContext("package_name", packageName),
		PackageName: packageName,
	}
}

// Is matches ErrDuplicateBoundedContextPrefix
func (e *DuplicateBoundedContextPrefix) Is(target error) bool {
	return target == ErrDuplicateBoundedContextPrefix
}

// InvalidDescriptor is reported for a descriptor that cannot be registered at all
type InvalidDescriptor struct {
	*BaseError
	TypeName string
	Reason   string
}

// NewInvalidDescriptor creates an invalid descriptor diagnostic
func NewInvalidDescriptor(typeName, reason string) *InvalidDescriptor {
	return &InvalidDescriptor{
		BaseError: New(InvalidDescriptorCode, fmt.Sprintf("invalid descriptor '%s': %s", typeName, reason)).
			WithContext("type_name", typeName),
		TypeName: typeName,
		Reason:   reason,
	}
}

// BuildError is returned when a model cannot be built. It carries every
// diagnostic found in the batch.
type BuildError struct {
	Diagnostics *MultipleErrors
}

// NewBuildError wraps a diagnostics batch
func NewBuildError(diagnostics *MultipleErrors) *BuildError {
	return &BuildError{Diagnostics: diagnostics}
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.Diagnostics == nil || e.Diagnostics.IsEmpty() {
		return "build failed"
	}
	lines := make([]string, 0, e.Diagnostics.Count())
	for _, d := range e.Diagnostics.Errors {
		lines = append(lines, "  "+d.ErrorCode().String()+": "+d.Error())
	}
	return fmt.Sprintf("build failed with %d diagnostic(s):\n%s", e.Diagnostics.Count(), strings.Join(lines, "\n"))
}

// Unwrap exposes the diagnostics batch to errors.Is and errors.As
func (e *BuildError) Unwrap() error {
	if e.Diagnostics == nil {
		return nil
	}
	return e.Diagnostics
}

// Count returns the number of diagnostics
func (e *BuildError) Count() int {
	if e.Diagnostics == nil {
		return 0
	}
	return e.Diagnostics.Count()
}

// All returns the diagnostics in the order they were found
func (e *BuildError) All() []MirrorError {
	if e.Diagnostics == nil {
		return nil
	}
	return e.Diagnostics.Errors
}

// AsBuildError extracts a BuildError from an error chain
func AsBuildError(err error) (*BuildError, bool) {
	var be *BuildError
	if stderrors.As(err, &be) {
		return be, true
	}
	return nil, false
}
