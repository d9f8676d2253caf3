package contexts

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/models"
)

func contexts(pkgs ...string) []models.BoundedContext {
	out := make([]models.BoundedContext, len(pkgs))
	for i, p := range pkgs {
		out[i] = models.BoundedContext{PackageName: p}
	}
	return out
}

func TestLongestPrefixWins(t *testing.T) {
	a := Resolve(contexts("shop", "shop.billing"), []string{
		"shop.billing.Invoice",
		"shop.Order",
		"shop.billing.tax.Rate",
		"shopping.Cart",
		"Standalone",
	})

	tests := []struct {
		typeName string
		context  string
		grouped  bool
	}{
		{"shop.billing.Invoice", "shop.billing", true},
		{"shop.Order", "shop", true},
		{"shop.billing.tax.Rate", "shop.billing", true},
		{"shopping.Cart", "", false},
		{"Standalone", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			bc, ok := a.ContextOf(tt.typeName)
			assert.Equal(t, tt.grouped, ok)
			assert.Equal(t, tt.context, bc.PackageName)
		})
	}

	assert.Equal(t, []string{"shop.billing.Invoice", "shop.billing.tax.Rate"}, a.Members("shop.billing"))
	assert.Equal(t, []string{"shop.Order"}, a.Members("shop"))
	assert.Empty(t, a.Members("nowhere"))
	assert.Equal(t, []string{"Standalone", "shopping.Cart"}, a.Ungrouped([]string{"shopping.Cart", "shop.Order", "Standalone"}))
}

func TestRootContextMatchesEverything(t *testing.T) {
	a := Resolve(contexts("", "shop"), []string{"shop.Order", "other.Thing", "Bare"})

	bc, ok := a.ContextOf("other.Thing")
	require.True(t, ok)
	assert.Equal(t, "", bc.PackageName)

	bc, ok = a.ContextOf("Bare")
	require.True(t, ok)
	assert.Equal(t, "", bc.PackageName)

	bc, _ = a.ContextOf("shop.Order")
	assert.Equal(t, "shop", bc.PackageName)
}

func TestValidateDuplicates(t *testing.T) {
	diags := Validate(contexts("shop", "shop.billing", "shop", "shop"))
	require.Len(t, diags, 2)

	for _, d := range diags {
		assert.True(t, stderrors.Is(d, errors.ErrDuplicateBoundedContextPrefix))
		var dup *errors.DuplicateBoundedContextPrefix
		require.True(t, stderrors.As(d, &dup))
		assert.Equal(t, "shop", dup.PackageName)
	}

	assert.Empty(t, Validate(contexts("shop", "shop.billing")))
}

func TestContextsSorted(t *testing.T) {
	a := Resolve(contexts("b", "a.x", "a"), nil)
	assert.Equal(t, contexts("a", "a.x", "b"), a.Contexts())
	assert.True(t, a.Declared("a.x"))
	assert.False(t, a.Declared("c"))
}

// TestExclusivity checks that every type lands in at most one context and
// that it is the longest declared prefix of its namespace
func TestExclusivity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segment := rapid.SampledFrom([]string{"a", "b", "c"})
		namespace := rapid.Custom(func(t *rapid.T) string {
			n := rapid.IntRange(0, 3).Draw(t, "depth")
			ns := ""
			for i := 0; i < n; i++ {
				if ns != "" {
					ns += "."
				}
				ns += segment.Draw(t, "segment")
			}
			return ns
		})

		var decls []models.BoundedContext
		seen := map[string]bool{}
		for _, ns := range rapid.SliceOfN(namespace, 0, 6).Draw(t, "contexts") {
			if !seen[ns] {
				seen[ns] = true
				decls = append(decls, models.BoundedContext{PackageName: ns})
			}
		}

		var types []string
		for i, ns := range rapid.SliceOfN(namespace, 0, 10).Draw(t, "types") {
			name := "T" + string(rune('A'+i))
			if ns != "" {
				name = ns + "." + name
			}
			types = append(types, name)
		}

		a := Resolve(decls, types)

		for _, typeName := range types {
			memberships := 0
			for _, bc := range a.Contexts() {
				if contains(a.Members(bc.PackageName), typeName) {
					memberships++
				}
			}
			if memberships > 1 {
				t.Fatalf("%s belongs to %d contexts", typeName, memberships)
			}

			best, found := "", false
			ns := models.Namespace(typeName)
			for _, bc := range decls {
				if models.WithinNamespace(ns, bc.PackageName) && (!found || len(bc.PackageName) > len(best)) {
					best, found = bc.PackageName, true
				}
			}

			bc, ok := a.ContextOf(typeName)
			if ok != found || bc.PackageName != best {
				t.Fatalf("%s: got (%q, %v) want (%q, %v)", typeName, bc.PackageName, ok, best, found)
			}
			if ok && memberships != 1 {
				t.Fatalf("%s assigned to %q but listed in %d contexts", typeName, bc.PackageName, memberships)
			}
		}
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
