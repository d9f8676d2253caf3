// Package registry validates batches of type descriptors and assembles them
// into immutable, queryable domain models.
package registry

import (
	"github.com/toyz/mirror/internal/contexts"
	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/index"
	"github.com/toyz/mirror/internal/models"
	"github.com/toyz/mirror/internal/utils"
)

// Option configures a Builder
type Option func(*options)

type options struct {
	external []string
}

// WithExternalNamespaces declares namespaces whose qualified type names live
// outside the model (for example "time" or "java.time"). Names under them are
// never reported as unresolved and never produce index edges.
func WithExternalNamespaces(namespaces ...string) Option {
	return func(o *options) {
		o.external = append(o.external, namespaces...)
	}
}

func (o options) isExternal(typeName string) bool {
	ns := models.Namespace(typeName)
	for _, ext := range o.external {
		if ext == "" {
			continue
		}
		if typeName == ext || (ns != "" && models.WithinNamespace(ns, ext)) {
			return true
		}
	}
	return false
}

// Builder collects a batch of descriptors and bounded context declarations
// and turns them into a DomainModel in one all-or-nothing step
type Builder struct {
	opts        options
	descriptors []models.TypeDescriptor
	contexts    []models.BoundedContext
}

// NewBuilder creates a new, empty builder
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(&b.opts)
	}
	b.opts.external = models.NormalizeSet(b.opts.external)
	return b
}

// Add appends descriptors to the batch
func (b *Builder) Add(descriptors ...models.TypeDescriptor) *Builder {
	b.descriptors = append(b.descriptors, descriptors...)
	return b
}

// AddBoundedContexts appends bounded context declarations to the batch
func (b *Builder) AddBoundedContexts(declarations ...models.BoundedContext) *Builder {
	b.contexts = append(b.contexts, declarations...)
	return b
}

// Build is shorthand for NewBuilder(opts...).Add(...).AddBoundedContexts(...).Build()
func Build(descriptors []models.TypeDescriptor, declarations []models.BoundedContext, opts ...Option) (*DomainModel, error) {
	return NewBuilder(opts...).Add(descriptors...).AddBoundedContexts(declarations...).Build()
}

// Build validates the whole batch and returns either a finished model or a
// *errors.BuildError carrying every diagnostic found. It never returns both.
// The builder is not modified and may be built again.
func (b *Builder) Build() (*DomainModel, error) {
	diags := errors.NewMultipleErrors()

	arena := utils.NewBaseRegistry[string, models.TypeDescriptor]("type name")
	arena.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[models.TypeDescriptor](func() error {
			return errors.NewInvalidDescriptor("", "type name cannot be empty")
		}),
		utils.NoDuplicateValidator[string, models.TypeDescriptor](func(name string) error {
			return errors.NewDuplicateTypeDescriptor(name)
		}),
	))

	for _, d := range b.descriptors {
		normalized := d.Normalize()
		if err := arena.Register(normalized.TypeName, normalized); err != nil {
			diags.Add(err.(errors.MirrorError))
		}
	}

	for _, diag := range contexts.Validate(b.contexts) {
		diags.Add(diag)
	}

	types := arena.Snapshot()
	kinds := make(map[string]models.Kind, len(types))
	for name, d := range types {
		kinds[name] = d.Kind()
	}

	edges := b.resolve(arena, kinds, diags)

	if !diags.IsEmpty() {
		return nil, errors.NewBuildError(diags)
	}

	names := arena.Keys()
	return newDomainModel(
		types,
		index.New(edges, kinds),
		contexts.Resolve(b.contexts, names),
		b.opts.external,
	), nil
}

// resolve walks every reference once, reporting dangling names and
// collecting index edges for the resolved ones
func (b *Builder) resolve(arena *utils.BaseRegistry[string, models.TypeDescriptor], kinds map[string]models.Kind, diags *errors.MultipleErrors) []index.Edge {
	var edges []index.Edge
	reported := make(map[reference]struct{})

	arena.ForEach(func(_ string, d models.TypeDescriptor) {
		walkReferences(d, func(ref reference) {
			targetKind, known := kinds[ref.to]
			if !known {
				if b.dangling(ref) {
					if _, dup := reported[ref]; !dup {
						reported[ref] = struct{}{}
						diags.Add(errors.NewUnresolvedReference(ref.from, ref.member, ref.to))
					}
				}
				return
			}
			if !ref.indexed {
				return
			}

			edges = append(edges, index.Edge{Relation: ref.relation, Source: ref.from, Target: ref.to, Member: ref.member})
			if ref.position == typePosition && targetKind == models.KindDomainCommand {
				edges = append(edges, index.Edge{Relation: index.Processes, Source: ref.from, Target: ref.to, Member: ref.member})
			}
		})
	})
	return edges
}

// dangling reports whether an unknown name must be treated as an error.
// Unqualified names in type positions are scalars.
func (b *Builder) dangling(ref reference) bool {
	if b.opts.isExternal(ref.to) {
		return false
	}
	if ref.position == typePosition && !models.IsQualified(ref.to) {
		return false
	}
	return true
}
