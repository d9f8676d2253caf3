package registry

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	"github.com/toyz/mirror/internal/contexts"
	"github.com/toyz/mirror/internal/index"
	"github.com/toyz/mirror/internal/models"
)

// fingerprintNamespace scopes model fingerprints
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/toyz/mirror/model"))

// DomainModel is a validated, immutable registry of type descriptors with
// its relationship index and bounded context assignment. Every query is
// total: unknown names yield empty results, never errors. A DomainModel is
// safe for any number of concurrent readers.
type DomainModel struct {
	types       map[string]models.TypeDescriptor
	names       []string
	index       *index.Index
	contexts    *contexts.Assignment
	external    []string
	fingerprint uuid.UUID
}

// FieldReference is a field whose type names another descriptor
type FieldReference struct {
	Field  string               `json:"field"`
	Target string               `json:"target"`
	Kind   models.ReferenceKind `json:"-"`
}

func newDomainModel(types map[string]models.TypeDescriptor, ix *index.Index, assignment *contexts.Assignment, external []string) *DomainModel {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	m := &DomainModel{
		types:    types,
		names:    names,
		index:    ix,
		contexts: assignment,
		external: external,
	}
	m.fingerprint = m.computeFingerprint()
	return m
}

// Empty returns a model with no types and no contexts
func Empty() *DomainModel {
	m, _ := NewBuilder().Build()
	return m
}

// Get returns a copy of the descriptor registered under typeName
func (m *DomainModel) Get(typeName string) (models.TypeDescriptor, bool) {
	d, ok := m.types[typeName]
	if !ok {
		return models.TypeDescriptor{}, false
	}
	return d.Normalize(), true
}

// Has reports whether typeName is registered
func (m *DomainModel) Has(typeName string) bool {
	_, ok := m.types[typeName]
	return ok
}

// Kind returns the variant kind of a registered type
func (m *DomainModel) Kind(typeName string) (models.Kind, bool) {
	d, ok := m.types[typeName]
	if !ok {
		return 0, false
	}
	return d.Kind(), true
}

// TypeNames returns every registered type name, sorted
func (m *DomainModel) TypeNames() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Descriptors returns copies of the registered descriptors sorted by type
// name, restricted to the given kinds. No kinds means all descriptors.
func (m *DomainModel) Descriptors(kinds ...models.Kind) []models.TypeDescriptor {
	out := make([]models.TypeDescriptor, 0, len(m.names))
	for _, name := range m.names {
		d := m.types[name]
		if len(kinds) > 0 && !hasKind(kinds, d.Kind()) {
			continue
		}
		out = append(out, d.Normalize())
	}
	return out
}

// Len returns the number of registered types
func (m *DomainModel) Len() int {
	return len(m.types)
}

// BoundedContexts returns the declared contexts sorted by package name
func (m *DomainModel) BoundedContexts() []models.BoundedContext {
	return m.contexts.Contexts()
}

// HasBoundedContext reports whether a context with packageName is declared
func (m *DomainModel) HasBoundedContext(packageName string) bool {
	return m.contexts.Declared(packageName)
}

// ContextOf returns the bounded context a type belongs to
func (m *DomainModel) ContextOf(typeName string) (models.BoundedContext, bool) {
	return m.contexts.ContextOf(typeName)
}

// Members returns the sorted type names belonging to a bounded context
func (m *DomainModel) Members(packageName string) []string {
	return m.contexts.Members(packageName)
}

// Ungrouped returns the sorted type names that belong to no bounded context
func (m *DomainModel) Ungrouped() []string {
	return m.contexts.Ungrouped(m.names)
}

// ExternalNamespaces returns the namespaces treated as outside the model
func (m *DomainModel) ExternalNamespaces() []string {
	out := make([]string, len(m.external))
	copy(out, m.external)
	return out
}

// Index exposes the relationship index
func (m *DomainModel) Index() *index.Index {
	return m.index
}

// Relations returns every resolved edge declared by typeName
func (m *DomainModel) Relations(typeName string) []index.Edge {
	return m.index.EdgesFrom(typeName)
}

// PublishedEvents returns the events published by any method of typeName
func (m *DomainModel) PublishedEvents(typeName string) []string {
	return m.index.Targets(index.Publishes, typeName)
}

// ListenedEvents returns the events listened to by any method of typeName
func (m *DomainModel) ListenedEvents(typeName string) []string {
	return m.index.Targets(index.Listens, typeName)
}

// ProcessedCommands returns the commands typeName accepts, holds or returns
func (m *DomainModel) ProcessedCommands(typeName string) []string {
	return m.index.Targets(index.Processes, typeName)
}

// Publishers returns the types publishing event, optionally filtered by kind
func (m *DomainModel) Publishers(event string, kinds ...models.Kind) []string {
	return m.index.Publishers(event, kinds...)
}

// PublishingAggregates returns the aggregate roots publishing event
func (m *DomainModel) PublishingAggregates(event string) []string {
	return m.index.PublishingAggregates(event)
}

// PublishingServices returns the services publishing event
func (m *DomainModel) PublishingServices(event string) []string {
	return m.index.PublishingServices(event)
}

// Listeners returns the types listening to event, optionally filtered by kind
func (m *DomainModel) Listeners(event string, kinds ...models.Kind) []string {
	return m.index.Listeners(event, kinds...)
}

// ListeningServices returns the services listening to event
func (m *DomainModel) ListeningServices(event string) []string {
	return m.index.ListeningServices(event)
}

// Processors returns the types processing command, optionally filtered by kind
func (m *DomainModel) Processors(command string, kinds ...models.Kind) []string {
	return m.index.Processors(command, kinds...)
}

// ProcessingServices returns the services processing command
func (m *DomainModel) ProcessingServices(command string) []string {
	return m.index.ProcessingServices(command)
}

// ProcessingRepositories returns the repositories processing command
func (m *DomainModel) ProcessingRepositories(command string) []string {
	return m.index.ProcessingRepositories(command)
}

// RepositoriesFor returns the repositories managing aggregate
func (m *DomainModel) RepositoriesFor(aggregate string) []string {
	return m.index.RepositoriesFor(aggregate)
}

// QueryHandlersFor returns the query handlers providing readModel
func (m *DomainModel) QueryHandlersFor(readModel string) []string {
	return m.index.QueryHandlersFor(readModel)
}

// Subtypes returns the types extending supertype
func (m *DomainModel) Subtypes(supertype string) []string {
	return m.index.Subtypes(supertype)
}

// Implementors returns the types implementing iface
func (m *DomainModel) Implementors(iface string) []string {
	return m.index.Implementors(iface)
}

// Referrers returns the types naming target in a field, parameter or return type
func (m *DomainModel) Referrers(target string, kinds ...models.Kind) []string {
	return m.index.Referrers(target, kinds...)
}

// ManagedAggregate returns the aggregate managed by a repository
func (m *DomainModel) ManagedAggregate(repository string) (string, bool) {
	if r, ok := m.types[repository].Variant.(models.Repository); ok && r.ManagedAggregate != "" {
		return r.ManagedAggregate, true
	}
	return "", false
}

// ProvidedReadModel returns the read model provided by a query handler
func (m *DomainModel) ProvidedReadModel(queryHandler string) (string, bool) {
	if q, ok := m.types[queryHandler].Variant.(models.QueryHandler); ok && q.ProvidedReadModel != "" {
		return q.ProvidedReadModel, true
	}
	return "", false
}

// CommandTarget returns the aggregate or service a command is aimed at
func (m *DomainModel) CommandTarget(command string) (string, bool) {
	if c, ok := m.types[command].Variant.(models.DomainCommand); ok && c.Target != "" {
		return c.Target, true
	}
	return "", false
}

// FieldReferences returns the fields of typeName whose element type (or a
// type argument of it) is a registered descriptor, classified by the
// target's variant
func (m *DomainModel) FieldReferences(typeName string) []FieldReference {
	d, ok := m.types[typeName]
	if !ok {
		return []FieldReference{}
	}
	out := make([]FieldReference, 0)
	for _, f := range d.Fields {
		for _, name := range f.Type.ElementTypeNames() {
			target, ok := m.types[name]
			if !ok {
				continue
			}
			out = append(out, FieldReference{
				Field:  f.Name,
				Target: name,
				Kind:   models.ReferenceKindFor(target.Kind()),
			})
		}
	}
	return out
}

// IsIdentityField reports whether field is the identity of typeName. An
// inherited field counts when it is the identity of its declaring type.
func (m *DomainModel) IsIdentityField(typeName, field string) bool {
	d, ok := m.types[typeName]
	if !ok {
		return false
	}
	if d.IsIdentityField(field) {
		return true
	}
	f, ok := d.Field(field)
	if !ok || f.DeclaredBy == typeName {
		return false
	}
	declaring, ok := m.types[f.DeclaredBy]
	return ok && declaring.IsIdentityField(field)
}

// Fingerprint returns a deterministic UUID derived from the model content.
// Models built from equal input share a fingerprint.
func (m *DomainModel) Fingerprint() uuid.UUID {
	return m.fingerprint
}

type canonicalType struct {
	Kind       string                `json:"kind"`
	Descriptor models.TypeDescriptor `json:"descriptor"`
}

type canonicalModel struct {
	Types    []canonicalType         `json:"types"`
	Contexts []models.BoundedContext `json:"contexts"`
	External []string                `json:"external"`
}

func (m *DomainModel) computeFingerprint() uuid.UUID {
	doc := canonicalModel{
		Types:    make([]canonicalType, 0, len(m.names)),
		Contexts: m.contexts.Contexts(),
		External: m.external,
	}
	for _, name := range m.names {
		d := m.types[name]
		doc.Types = append(doc.Types, canonicalType{Kind: d.Kind().String(), Descriptor: d})
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return uuid.Nil
	}
	return uuid.NewSHA1(fingerprintNamespace, data)
}

func hasKind(kinds []models.Kind, k models.Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}
