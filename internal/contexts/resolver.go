// Package contexts assigns type names to bounded contexts by longest
// namespace-prefix match.
package contexts

import (
	"sort"

	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/models"
	"github.com/toyz/mirror/internal/utils"
)

// Validate reports one DuplicateBoundedContextPrefix per repeated declaration
func Validate(declarations []models.BoundedContext) []errors.MirrorError {
	seen := utils.NewBaseRegistry[string, models.BoundedContext]("package name")
	seen.SetValidator(utils.NoDuplicateValidator[string, models.BoundedContext](func(pkg string) error {
		return errors.NewDuplicateBoundedContextPrefix(pkg)
	}))

	var diags []errors.MirrorError
	for _, bc := range declarations {
		if err := seen.Register(bc.PackageName, bc); err != nil {
			diags = append(diags, err.(errors.MirrorError))
		}
	}
	return diags
}

// Assignment is the resolved membership of every type. It is immutable and
// safe for concurrent readers.
type Assignment struct {
	contexts []models.BoundedContext
	declared map[string]struct{}
	byType   map[string]string
	members  map[string][]string
}

// Resolve assigns each type name to the declared context with the longest
// matching namespace prefix. Declarations must already be free of duplicates.
// A type whose namespace matches no declaration stays ungrouped.
func Resolve(declarations []models.BoundedContext, typeNames []string) *Assignment {
	a := &Assignment{
		declared: make(map[string]struct{}, len(declarations)),
		byType:   make(map[string]string),
		members:  make(map[string][]string, len(declarations)),
	}

	for _, bc := range declarations {
		if _, dup := a.declared[bc.PackageName]; dup {
			continue
		}
		a.declared[bc.PackageName] = struct{}{}
		a.contexts = append(a.contexts, bc)
	}
	sort.Slice(a.contexts, func(i, j int) bool {
		return a.contexts[i].PackageName < a.contexts[j].PackageName
	})

	for _, name := range typeNames {
		pkg, ok := a.match(models.Namespace(name))
		if !ok {
			continue
		}
		a.byType[name] = pkg
		a.members[pkg] = append(a.members[pkg], name)
	}
	for pkg := range a.members {
		sort.Strings(a.members[pkg])
	}
	return a
}

// match walks the namespace up one segment at a time, so the first declared
// prefix found is the longest one
func (a *Assignment) match(ns string) (string, bool) {
	for {
		if _, ok := a.declared[ns]; ok {
			return ns, true
		}
		if ns == "" {
			return "", false
		}
		ns = models.Namespace(ns)
	}
}

// Contexts returns the declared contexts sorted by package name
func (a *Assignment) Contexts() []models.BoundedContext {
	out := make([]models.BoundedContext, len(a.contexts))
	copy(out, a.contexts)
	return out
}

// Declared reports whether a context with the given package name exists
func (a *Assignment) Declared(packageName string) bool {
	_, ok := a.declared[packageName]
	return ok
}

// ContextOf returns the context a type belongs to
func (a *Assignment) ContextOf(typeName string) (models.BoundedContext, bool) {
	pkg, ok := a.byType[typeName]
	if !ok {
		return models.BoundedContext{}, false
	}
	return models.BoundedContext{PackageName: pkg}, true
}

// Members returns the sorted type names belonging to a context
func (a *Assignment) Members(packageName string) []string {
	src := a.members[packageName]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Ungrouped returns the sorted type names that belong to no context
func (a *Assignment) Ungrouped(typeNames []string) []string {
	var out []string
	for _, n := range typeNames {
		if _, ok := a.byType[n]; !ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
