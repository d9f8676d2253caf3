package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/toyz/mirror/internal/index"
	"github.com/toyz/mirror/internal/models"
)

func TestDomainModelQueries(t *testing.T) {
	model := buildShop(t)

	assert.Equal(t, 13, model.Len())
	assert.True(t, model.Has("shop.Order"))
	assert.False(t, model.Has("shop.Nope"))

	kind, ok := model.Kind("shop.Orders")
	require.True(t, ok)
	assert.Equal(t, models.KindRepository, kind)

	assert.Equal(t, []string{"shop.Checkout", "shop.Order"}, model.Publishers("shop.OrderPlaced"))
	assert.Equal(t, []string{"shop.Checkout"}, model.PublishingServices("shop.OrderPlaced"))
	assert.Equal(t, []string{"shop.billing.Ledger"}, model.ListeningServices("shop.OrderPlaced"))
	assert.Equal(t, []string{"shop.OrderPlaced"}, model.ListenedEvents("shop.billing.Ledger"))
	assert.Equal(t, []string{"shop.Orders"}, model.RepositoriesFor("shop.Order"))
	assert.Equal(t, []string{"shop.OrderQueries"}, model.QueryHandlersFor("shop.OrderView"))

	agg, ok := model.ManagedAggregate("shop.Orders")
	assert.True(t, ok)
	assert.Equal(t, "shop.Order", agg)

	rm, ok := model.ProvidedReadModel("shop.OrderQueries")
	assert.True(t, ok)
	assert.Equal(t, "shop.OrderView", rm)

	target, ok := model.CommandTarget("shop.PlaceOrder")
	assert.True(t, ok)
	assert.Equal(t, "shop.Order", target)

	_, ok = model.CommandTarget("shop.Order")
	assert.False(t, ok)

	aggregates := model.Descriptors(models.KindAggregateRoot, models.KindEntity)
	require.Len(t, aggregates, 2)
	assert.Equal(t, "shop.Order", aggregates[0].TypeName)
	assert.Equal(t, "shop.OrderLine", aggregates[1].TypeName)

	assert.Len(t, model.Descriptors(), model.Len())
	assert.Equal(t, []string{"time"}, model.ExternalNamespaces())
}

func TestQueriesOnUnknownNamesAreTotal(t *testing.T) {
	model := buildShop(t)

	_, ok := model.Get("shop.Nope")
	assert.False(t, ok)
	_, ok = model.ContextOf("shop.Nope")
	assert.False(t, ok)

	assert.Empty(t, model.PublishingAggregates("shop.Nope"))
	assert.Empty(t, model.PublishedEvents("shop.Nope"))
	assert.Empty(t, model.Members("shop.Nope"))
	assert.Empty(t, model.FieldReferences("shop.Nope"))
	assert.Empty(t, model.Relations("shop.Nope"))
	assert.False(t, model.IsIdentityField("shop.Nope", "id"))
	assert.NotNil(t, model.Publishers("shop.Nope"))
}

func TestGetReturnsCopy(t *testing.T) {
	model := buildShop(t)

	d, ok := model.Get("shop.Order")
	require.True(t, ok)
	d.Fields[0].Name = "mutated"
	d.Methods[0].PublishedEvents[0] = "shop.Mutated"

	again, _ := model.Get("shop.Order")
	assert.Equal(t, "id", again.Fields[0].Name)
	assert.Equal(t, []string{"shop.OrderPlaced"}, model.PublishedEvents("shop.Order"))
}

func TestFieldReferences(t *testing.T) {
	model := buildShop(t)

	assert.Equal(t, []FieldReference{
		{Field: "id", Target: "shop.OrderId", Kind: models.ValueReference},
		{Field: "lines", Target: "shop.OrderLine", Kind: models.EntityReference},
		{Field: "total", Target: "shop.Money", Kind: models.ValueReference},
	}, model.FieldReferences("shop.Order"))

	assert.Equal(t, []FieldReference{
		{Field: "order", Target: "shop.Order", Kind: models.AggregateRootReference},
		{Field: "price", Target: "shop.Money", Kind: models.ValueReference},
	}, model.FieldReferences("shop.OrderLine"))

	assert.Equal(t, []FieldReference{
		{Field: "lines", Target: "shop.OrderLine", Kind: models.EntityReference},
	}, model.FieldReferences("shop.PlaceOrder"))
}

func TestIsIdentityField(t *testing.T) {
	model, err := Build([]models.TypeDescriptor{
		models.NewDescriptorBuilder("shop.Base").
			Abstract().
			WithIdentity("id", "").
			WithField("id", models.TypeOf("string")).
			BuildEntity(),
		models.NewDescriptorBuilder("shop.Customer").
			Extends("shop.Base").
			WithFields(
				models.FieldDescriptor{Name: "id", Type: models.TypeOf("string"), DeclaredBy: "shop.Base"},
				models.NewField("name", models.TypeOf("string")),
			).
			BuildEntity(),
		models.NewDescriptorBuilder("shop.Money").
			WithField("id", models.TypeOf("string")).
			BuildValueObject(),
	}, nil)
	require.NoError(t, err)

	assert.True(t, model.IsIdentityField("shop.Base", "id"))
	assert.True(t, model.IsIdentityField("shop.Customer", "id"))
	assert.False(t, model.IsIdentityField("shop.Customer", "name"))
	assert.False(t, model.IsIdentityField("shop.Money", "id"))
	assert.Equal(t, []string{"shop.Customer"}, model.Subtypes("shop.Base"))
}

func TestFingerprint(t *testing.T) {
	model := buildShop(t)
	assert.NotEqual(t, uuid.Nil, model.Fingerprint())
	assert.Equal(t, uuid.Version(5), model.Fingerprint().Version())

	reordered := shopDescriptors()
	for i, j := 0, len(reordered)-1; i < j; i, j = i+1, j-1 {
		reordered[i], reordered[j] = reordered[j], reordered[i]
	}
	same, err := Build(reordered, []models.BoundedContext{{PackageName: "shop.billing"}, {PackageName: "shop"}}, WithExternalNamespaces("time"))
	require.NoError(t, err)
	assert.Equal(t, model.Fingerprint(), same.Fingerprint())

	changed, err := Build(shopDescriptors()[:3], nil, WithExternalNamespaces("time"))
	require.Error(t, err)
	assert.Nil(t, changed)

	smaller, err := Build(shopDescriptors(), []models.BoundedContext{{PackageName: "shop"}}, WithExternalNamespaces("time"))
	require.NoError(t, err)
	assert.NotEqual(t, model.Fingerprint(), smaller.Fingerprint())
}

func TestEmptyModel(t *testing.T) {
	model := Empty()
	require.NotNil(t, model)
	assert.Zero(t, model.Len())
	assert.Empty(t, model.TypeNames())
	assert.Empty(t, model.BoundedContexts())
	assert.Equal(t, Empty().Fingerprint(), model.Fingerprint())
}

func TestHolder(t *testing.T) {
	h := NewHolder(nil)
	require.NotNil(t, h.Current())
	assert.Zero(t, h.Current().Len())

	shop := buildShop(t)
	previous := h.Swap(shop)
	assert.Zero(t, previous.Len())
	assert.Same(t, shop, h.Current())

	assert.Same(t, shop, h.Swap(nil))
	assert.Same(t, shop, h.Current())

	_, err := h.Rebuild(func() (*DomainModel, error) {
		return Build([]models.TypeDescriptor{
			models.NewDescriptorBuilder("shop.Order").WithField("x", models.TypeOf("shop.Missing")).BuildValueObject(),
		}, nil)
	})
	assert.Error(t, err)
	assert.Same(t, shop, h.Current(), "failed rebuild keeps the published model")

	next, err := h.Rebuild(func() (*DomainModel, error) { return Build(nil, nil) })
	require.NoError(t, err)
	assert.Same(t, next, h.Current())
}

func TestHolderConcurrentReaders(t *testing.T) {
	h := NewHolder(buildShop(t))
	candidates := []*DomainModel{buildShop(t), Empty()}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				m := h.Current()
				if m.Has("shop.Order") {
					assert.Equal(t, []string{"shop.Order"}, m.PublishingAggregates("shop.OrderPlaced"))
				}
			}
		}()
	}
	for j := 0; j < 200; j++ {
		h.Swap(candidates[j%2])
	}
	wg.Wait()
}

// genModel draws a batch of descriptors over a small fixed name space. Every
// reference points inside the batch so the build always succeeds.
func genModel(t *rapid.T) ([]models.TypeDescriptor, []models.BoundedContext) {
	names := []string{"a.A", "a.B", "a.x.C", "a.x.D", "b.E", "b.F"}
	kinds := make(map[string]models.Kind, len(names))
	for _, n := range names {
		kinds[n] = rapid.SampledFrom(models.AllKinds).Draw(t, "kind:"+n)
	}
	ofKind := func(k models.Kind) []string {
		var out []string
		for _, n := range names {
			if kinds[n] == k {
				out = append(out, n)
			}
		}
		return out
	}
	name := rapid.SampledFrom(names)

	var descriptors []models.TypeDescriptor
	for _, n := range names {
		b := models.NewDescriptorBuilder(n)
		for i, ft := range rapid.SliceOfN(name, 0, 3).Draw(t, "fields:"+n) {
			b.WithField(fmt.Sprintf("f%d", i), models.ListOf(ft))
		}
		for i := 0; i < rapid.IntRange(0, 2).Draw(t, "methods:"+n); i++ {
			m := models.NewMethod(fmt.Sprintf("m%d", i))
			if events := ofKind(models.KindDomainEvent); len(events) > 0 {
				m = m.Publishing(rapid.SliceOfN(rapid.SampledFrom(events), 0, 2).Draw(t, "publishes")...)
				if rapid.Bool().Draw(t, "listens") {
					m = m.Listening(rapid.SampledFrom(events).Draw(t, "listened"))
				}
			}
			if commands := ofKind(models.KindDomainCommand); len(commands) > 0 && rapid.Bool().Draw(t, "accepts") {
				m = m.WithParam("cmd", models.TypeOf(rapid.SampledFrom(commands).Draw(t, "command")))
			}
			b.WithMethods(m)
		}

		var v models.Variant
		switch kinds[n] {
		case models.KindRepository:
			v = models.Repository{ManagedAggregate: name.Draw(t, "managed")}
		case models.KindQueryHandler:
			v = models.QueryHandler{ProvidedReadModel: name.Draw(t, "provided")}
		case models.KindDomainCommand:
			v = models.DomainCommand{Target: name.Draw(t, "target")}
		case models.KindIdentity:
			v = models.Identity{ValueType: "string"}
		default:
			v = models.NewVariant(kinds[n])
		}
		descriptors = append(descriptors, b.BuildVariant(v))
	}

	prefixes := rapid.SliceOfNDistinct(rapid.SampledFrom([]string{"", "a", "a.x", "b", "c"}), 0, 3, rapid.ID[string]).Draw(t, "contexts")
	var contexts []models.BoundedContext
	for _, p := range prefixes {
		contexts = append(contexts, models.BoundedContext{PackageName: p})
	}
	return descriptors, contexts
}

func TestBuildProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		descriptors, contexts := genModel(t)

		model, err := Build(descriptors, contexts)
		require.NoError(t, err)

		// Idempotence
		again, err := Build(descriptors, contexts)
		require.NoError(t, err)
		require.Equal(t, model.Fingerprint(), again.Fingerprint())
		require.Equal(t, model.TypeNames(), again.TypeNames())
		require.Equal(t, model.Index().Edges(), again.Index().Edges())

		// Referential closure
		for _, d := range model.Descriptors() {
			walkReferences(d, func(ref reference) {
				if ref.position == pointerPosition || models.IsQualified(ref.to) {
					require.True(t, model.Has(ref.to), "%s %s -> %s", ref.from, ref.member, ref.to)
				}
			})
		}

		// Inverse consistency
		names := model.TypeNames()
		for _, s := range names {
			for _, e := range names {
				require.Equal(t,
					contains(model.PublishedEvents(s), e),
					contains(model.Publishers(e), s))
				require.Equal(t,
					contains(model.ListenedEvents(s), e),
					contains(model.Listeners(e), s))
				require.Equal(t,
					contains(model.ProcessedCommands(s), e),
					contains(model.Processors(e), s))
				managed, ok := model.ManagedAggregate(s)
				require.Equal(t,
					ok && managed == e,
					contains(model.RepositoriesFor(e), s))
				require.Equal(t,
					model.Index().Related(index.Manages, s, e),
					contains(model.Index().Sources(index.Manages, e), s))
			}
		}

		// Exclusivity
		for _, n := range names {
			owners := 0
			for _, bc := range model.BoundedContexts() {
				if contains(model.Members(bc.PackageName), n) {
					owners++
				}
			}
			require.LessOrEqual(t, owners, 1)
			bc, ok := model.ContextOf(n)
			require.Equal(t, ok, owners == 1)
			if ok {
				require.Contains(t, model.Members(bc.PackageName), n)
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
