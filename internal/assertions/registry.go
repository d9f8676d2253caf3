package assertions

import (
	"fmt"
	"sort"
	"sync"

	"github.com/toyz/mirror/internal/errors"
)

// Unbounded marks a schema without an upper parameter limit
const Unbounded = -1

// Schema describes a known assertion predicate
type Schema struct {
	Name        string // predicate name
	MinParams   int    // minimum parameter count
	MaxParams   int    // maximum parameter count, Unbounded for none
	Description string // human-readable description
	Example     string // shorthand example
}

// Check verifies a parameter count against the schema
func (s Schema) Check(count int) error {
	if count < s.MinParams || (s.MaxParams != Unbounded && count > s.MaxParams) {
		return errors.NewSchemaError(s.Name, s.arity(), count)
	}
	return nil
}

func (s Schema) arity() string {
	switch {
	case s.MaxParams == Unbounded:
		return fmt.Sprintf("at least %d", s.MinParams)
	case s.MinParams == s.MaxParams:
		return fmt.Sprintf("%d", s.MinParams)
	default:
		return fmt.Sprintf("%d to %d", s.MinParams, s.MaxParams)
	}
}

// Registry defines the interface for managing assertion schemas
type Registry interface {
	// Register adds a schema
	Register(schema Schema) error

	// Lookup retrieves the schema for a predicate name
	Lookup(name string) (Schema, bool)

	// Names returns all registered predicate names, sorted
	Names() []string
}

type registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry creates a new, empty schema registry
func NewRegistry() Registry {
	return &registry{
		schemas: make(map[string]Schema),
	}
}

var (
	defaultRegistry     Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global registry holding the builtin schemas
func DefaultRegistry() Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		if err := RegisterBuiltinSchemas(r); err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Register adds a schema to the registry
func (r *registry) Register(schema Schema) error {
	if schema.Name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}
	if schema.MinParams < 0 || (schema.MaxParams != Unbounded && schema.MaxParams < schema.MinParams) {
		return fmt.Errorf("invalid parameter range for %s", schema.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[schema.Name]; exists {
		return fmt.Errorf("assertion %s is already registered", schema.Name)
	}
	r.schemas[schema.Name] = schema
	return nil
}

// Lookup retrieves the schema for a predicate name
func (r *registry) Lookup(name string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[name]
	return schema, ok
}

// Names returns all registered predicate names
func (r *registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
