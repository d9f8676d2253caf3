package index

import "github.com/toyz/mirror/internal/models"

// Publishers returns the types publishing event, optionally filtered by kind
func (ix *Index) Publishers(event string, kinds ...models.Kind) []string {
	return ix.Sources(Publishes, event, kinds...)
}

// PublishingAggregates returns the aggregate roots publishing event
func (ix *Index) PublishingAggregates(event string) []string {
	return ix.Sources(Publishes, event, models.KindAggregateRoot)
}

// PublishingServices returns the services publishing event
func (ix *Index) PublishingServices(event string) []string {
	return ix.Sources(Publishes, event, models.ServiceKinds...)
}

// Listeners returns the types listening to event, optionally filtered by kind
func (ix *Index) Listeners(event string, kinds ...models.Kind) []string {
	return ix.Sources(Listens, event, kinds...)
}

// ListeningServices returns the services listening to event
func (ix *Index) ListeningServices(event string) []string {
	return ix.Sources(Listens, event, models.ServiceKinds...)
}

// Processors returns the types processing command, optionally filtered by kind
func (ix *Index) Processors(command string, kinds ...models.Kind) []string {
	return ix.Sources(Processes, command, kinds...)
}

// ProcessingServices returns the services processing command
func (ix *Index) ProcessingServices(command string) []string {
	return ix.Sources(Processes, command, models.ServiceKinds...)
}

// ProcessingRepositories returns the repositories processing command
func (ix *Index) ProcessingRepositories(command string) []string {
	return ix.Sources(Processes, command, models.KindRepository)
}

// RepositoriesFor returns the repositories managing aggregate
func (ix *Index) RepositoriesFor(aggregate string) []string {
	return ix.Sources(Manages, aggregate)
}

// QueryHandlersFor returns the query handlers providing readModel
func (ix *Index) QueryHandlersFor(readModel string) []string {
	return ix.Sources(Provides, readModel)
}

// CommandsTargeting returns the commands aimed at target
func (ix *Index) CommandsTargeting(target string) []string {
	return ix.Sources(Targets, target)
}

// Subtypes returns the types listing supertype in their hierarchy
func (ix *Index) Subtypes(supertype string) []string {
	return ix.Sources(Extends, supertype)
}

// Implementors returns the types implementing iface
func (ix *Index) Implementors(iface string) []string {
	return ix.Sources(Implements, iface)
}

// Referrers returns the types naming target in a field, parameter or return
// type, optionally filtered by kind
func (ix *Index) Referrers(target string, kinds ...models.Kind) []string {
	return ix.Sources(References, target, kinds...)
}
