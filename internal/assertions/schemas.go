package assertions

import "fmt"

// Builtin schemas for the predicates understood by the validation library
var (
	NotNullSchema = Schema{
		Name:        "notNull",
		Description: "Value must be present",
		Example:     `notNull() "required"`,
	}
	NotEmptySchema = Schema{
		Name:        "notEmpty",
		Description: "Value must not be empty",
		Example:     `notEmpty()`,
	}
	LengthSchema = Schema{
		Name:        "length",
		MinParams:   2,
		MaxParams:   2,
		Description: "Length must lie between min and max",
		Example:     `length(1, 50) "name is too long"`,
	}
	MinSchema = Schema{
		Name:        "min",
		MinParams:   1,
		MaxParams:   1,
		Description: "Value must be at least the bound",
		Example:     `min(0)`,
	}
	MaxSchema = Schema{
		Name:        "max",
		MinParams:   1,
		MaxParams:   1,
		Description: "Value must be at most the bound",
		Example:     `max(100)`,
	}
	RangeSchema = Schema{
		Name:        "range",
		MinParams:   2,
		MaxParams:   2,
		Description: "Value must lie between two bounds",
		Example:     `range(1, 10)`,
	}
	PatternSchema = Schema{
		Name:        "pattern",
		MinParams:   1,
		MaxParams:   1,
		Description: "Value must match a regular expression",
		Example:     `pattern("^[A-Z]{3}$")`,
	}
	OneOfSchema = Schema{
		Name:        "oneOf",
		MinParams:   1,
		MaxParams:   Unbounded,
		Description: "Value must be one of the listed constants",
		Example:     `oneOf(EUR, USD)`,
	}
	AfterSchema = Schema{
		Name:        "after",
		MinParams:   1,
		MaxParams:   1,
		Description: "Value must come after the given instant",
		Example:     `after("2020-01-01")`,
	}
	BeforeSchema = Schema{
		Name:        "before",
		MinParams:   1,
		MaxParams:   1,
		Description: "Value must come before the given instant",
		Example:     `before("2030-01-01")`,
	}
	FutureSchema = Schema{
		Name:        "future",
		Description: "Value must lie in the future",
		Example:     `future()`,
	}
	PastSchema = Schema{
		Name:        "past",
		Description: "Value must lie in the past",
		Example:     `past()`,
	}
	EmailSchema = Schema{
		Name:        "email",
		Description: "Value must be an email address",
		Example:     `email()`,
	}
)

// GetBuiltinSchemas returns all builtin assertion schemas
func GetBuiltinSchemas() []Schema {
	return []Schema{
		NotNullSchema,
		NotEmptySchema,
		LengthSchema,
		MinSchema,
		MaxSchema,
		RangeSchema,
		PatternSchema,
		OneOfSchema,
		AfterSchema,
		BeforeSchema,
		FutureSchema,
		PastSchema,
		EmailSchema,
	}
}

// RegisterBuiltinSchemas registers all builtin schemas with the given registry
func RegisterBuiltinSchemas(registry Registry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Name, err)
		}
	}
	return nil
}
