package registry

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/index"
	"github.com/toyz/mirror/internal/models"
)

// shopDescriptors is a small but complete model touching every variant that
// carries references
func shopDescriptors() []models.TypeDescriptor {
	return []models.TypeDescriptor{
		models.NewDescriptorBuilder("shop.Order").
			WithIdentity("id", "version").
			WithField("id", models.TypeOf("shop.OrderId")).
			WithField("version", models.TypeOf("int64")).
			WithField("lines", models.ListOf("shop.OrderLine")).
			WithField("total", models.TypeOf("shop.Money")).
			WithField("placedAt", models.OptionalOf("time.Time")).
			WithMethods(models.NewMethod("place").Publishing("shop.OrderPlaced")).
			BuildAggregateRoot(),
		models.NewDescriptorBuilder("shop.OrderLine").
			WithIdentity("id", "").
			WithField("id", models.TypeOf("string")).
			WithField("order", models.TypeOf("shop.Order")).
			WithField("price", models.TypeOf("shop.Money")).
			BuildEntity(),
		models.NewDescriptorBuilder("shop.OrderId").BuildIdentity("string"),
		models.NewDescriptorBuilder("shop.Money").
			WithField("amount", models.TypeOf("int64")).
			WithField("currency", models.TypeOf("shop.Currency")).
			BuildValueObject(),
		models.NewDescriptorBuilder("shop.Currency").BuildEnum("EUR", "USD"),
		models.NewDescriptorBuilder("shop.OrderPlaced").
			WithField("orderId", models.TypeOf("shop.OrderId")).
			BuildDomainEvent(),
		models.NewDescriptorBuilder("shop.PlaceOrder").
			WithField("lines", models.ListOf("shop.OrderLine")).
			BuildDomainCommand("shop.Order"),
		models.NewDescriptorBuilder("shop.Checkout").
			WithMethods(models.NewMethod("run").
				WithParam("cmd", models.TypeOf("shop.PlaceOrder")).
				Returning(models.TypeOf("shop.OrderId")).
				Publishing("shop.OrderPlaced")).
			BuildService(models.KindApplicationService),
		models.NewDescriptorBuilder("shop.Orders").
			WithMethods(models.NewMethod("save").WithParam("order", models.TypeOf("shop.Order"))).
			BuildRepository("shop.Order"),
		models.NewDescriptorBuilder("shop.OrderView").
			WithField("id", models.TypeOf("shop.OrderId")).
			BuildReadModel(),
		models.NewDescriptorBuilder("shop.OrderQueries").BuildQueryHandler("shop.OrderView"),
		models.NewDescriptorBuilder("shop.billing.Ledger").
			WithMethods(models.NewMethod("book").Listening("shop.OrderPlaced")).
			BuildService(models.KindDomainService),
		models.NewDescriptorBuilder("shop.billing.Invoice").
			WithField("order", models.TypeOf("shop.OrderId")).
			BuildValueObject(),
	}
}

func shopContexts() []models.BoundedContext {
	return []models.BoundedContext{{PackageName: "shop"}, {PackageName: "shop.billing"}}
}

func buildShop(t *testing.T) *DomainModel {
	t.Helper()
	model, err := Build(shopDescriptors(), shopContexts(), WithExternalNamespaces("time"))
	require.NoError(t, err)
	require.NotNil(t, model)
	return model
}

func diagnostics(t *testing.T, err error) []errors.MirrorError {
	t.Helper()
	require.Error(t, err)
	be, ok := errors.AsBuildError(err)
	require.True(t, ok, "expected *BuildError, got %T", err)
	return be.All()
}

func TestPublishingAggregates(t *testing.T) {
	model, err := Build([]models.TypeDescriptor{
		models.NewDescriptorBuilder("shop.Order").
			WithMethods(models.NewMethod("place").Publishing("shop.OrderPlaced")).
			BuildAggregateRoot(),
		models.NewDescriptorBuilder("shop.OrderPlaced").BuildDomainEvent(),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"shop.Order"}, model.PublishingAggregates("shop.OrderPlaced"))
	assert.Equal(t, []string{"shop.OrderPlaced"}, model.PublishedEvents("shop.Order"))
}

func TestDuplicateTypeDescriptor(t *testing.T) {
	order := models.NewDescriptorBuilder("shop.Order").BuildAggregateRoot()

	model, err := Build([]models.TypeDescriptor{order, order}, nil)
	assert.Nil(t, model)

	diags := diagnostics(t, err)
	require.Len(t, diags, 1)

	var dup *errors.DuplicateTypeDescriptor
	require.True(t, stderrors.As(err, &dup))
	assert.Equal(t, "shop.Order", dup.TypeName)
	assert.ErrorIs(t, err, errors.ErrDuplicateTypeDescriptor)
}

func TestDuplicateReportedPerCollision(t *testing.T) {
	order := models.NewDescriptorBuilder("shop.Order").BuildAggregateRoot()

	_, err := Build([]models.TypeDescriptor{order, order, order}, nil)
	assert.Len(t, diagnostics(t, err), 2)
}

func TestLongestPrefixContext(t *testing.T) {
	model := buildShop(t)

	bc, ok := model.ContextOf("shop.billing.Invoice")
	require.True(t, ok)
	assert.Equal(t, "shop.billing", bc.PackageName)

	assert.Contains(t, model.Members("shop.billing"), "shop.billing.Invoice")
	assert.NotContains(t, model.Members("shop"), "shop.billing.Invoice")
	assert.Contains(t, model.Members("shop"), "shop.Order")
	assert.Empty(t, model.Ungrouped())
}

func TestUnresolvedFieldReference(t *testing.T) {
	model, err := Build([]models.TypeDescriptor{
		models.NewDescriptorBuilder("shop.Order").
			WithField("customer", models.TypeOf("shop.Nonexistent")).
			BuildAggregateRoot(),
	}, nil)
	assert.Nil(t, model)

	diags := diagnostics(t, err)
	require.Len(t, diags, 1)

	var unresolved *errors.UnresolvedReference
	require.True(t, stderrors.As(err, &unresolved))
	assert.Equal(t, "shop.Order", unresolved.From)
	assert.Equal(t, "fields.customer", unresolved.Member)
	assert.Equal(t, "shop.Nonexistent", unresolved.To)
	assert.ErrorIs(t, err, errors.ErrUnresolvedReference)
}

func TestDiagnosticsAreExhaustive(t *testing.T) {
	_, err := Build([]models.TypeDescriptor{
		models.NewDescriptorBuilder("shop.Order").
			WithField("customer", models.TypeOf("shop.Customer")).
			WithMethods(
				models.NewMethod("place").Publishing("shop.OrderPlaced"),
				models.NewMethod("on").Listening("shop.Paid"),
			).
			BuildAggregateRoot(),
		models.NewDescriptorBuilder("shop.Order").BuildAggregateRoot(),
		models.NewDescriptorBuilder("shop.Orders").BuildRepository("shop.Basket"),
		models.NewDescriptorBuilder("shop.Queries").BuildQueryHandler("shop.View"),
		models.NewDescriptorBuilder("shop.Cancel").BuildDomainCommand("shop.Cart"),
	}, []models.BoundedContext{{PackageName: "shop"}, {PackageName: "shop"}})

	be, ok := errors.AsBuildError(err)
	require.True(t, ok)

	ms := be.Diagnostics
	assert.Len(t, ms.GetByCode(errors.DuplicateTypeDescriptorCode), 1)
	assert.Len(t, ms.GetByCode(errors.DuplicateBoundedContextPrefixCode), 1)
	assert.Len(t, ms.GetByCode(errors.UnresolvedReferenceCode), 6)
	assert.ErrorIs(t, err, errors.ErrDuplicateBoundedContextPrefix)

	members := make([]string, 0)
	for _, d := range ms.GetByCode(errors.UnresolvedReferenceCode) {
		members = append(members, d.(*errors.UnresolvedReference).Member)
	}
	assert.ElementsMatch(t, []string{
		"fields.customer",
		"methods.place.publishes",
		"methods.on.listens",
		"managedAggregate",
		"providedReadModel",
		"target",
	}, members)
}

func TestEmptyTypeNameIsInvalid(t *testing.T) {
	_, err := Build([]models.TypeDescriptor{{}}, nil)
	diags := diagnostics(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.InvalidDescriptorCode, diags[0].ErrorCode())
}

func TestReferenceRules(t *testing.T) {
	tests := []struct {
		name       string
		descriptor models.TypeDescriptor
		opts       []Option
		unresolved []string
	}{
		{
			name: "unqualified field type is a scalar",
			descriptor: models.NewDescriptorBuilder("shop.Order").
				WithField("count", models.TypeOf("int")).
				BuildValueObject(),
		},
		{
			name: "unqualified event name is unresolved",
			descriptor: models.NewDescriptorBuilder("shop.Order").
				WithMethods(models.NewMethod("place").Publishing("Placed")).
				BuildAggregateRoot(),
			unresolved: []string{"Placed"},
		},
		{
			name: "external namespace is exempt",
			descriptor: models.NewDescriptorBuilder("shop.Order").
				WithField("at", models.TypeOf("java.time.Instant")).
				BuildValueObject(),
			opts: []Option{WithExternalNamespaces("java.time")},
		},
		{
			name: "qualified name outside external namespaces is unresolved",
			descriptor: models.NewDescriptorBuilder("shop.Order").
				WithField("at", models.TypeOf("java.time.Instant")).
				BuildValueObject(),
			opts:       []Option{WithExternalNamespaces("java.util")},
			unresolved: []string{"java.time.Instant"},
		},
		{
			name: "type arguments are walked",
			descriptor: models.NewDescriptorBuilder("shop.Order").
				WithField("tags", models.TypeOf("shop.Page").WithTypeArguments(models.TypeOf("shop.Tag"))).
				BuildValueObject(),
			unresolved: []string{"shop.Page", "shop.Tag"},
		},
		{
			name: "hierarchy and interfaces are pointers",
			descriptor: models.NewDescriptorBuilder("shop.Order").
				Extends("shop.Base").
				Implements("Auditable").
				BuildAggregateRoot(),
			unresolved: []string{"shop.Base", "Auditable"},
		},
		{
			name: "inherited member must name a known declaring type",
			descriptor: models.NewDescriptorBuilder("shop.Order").
				WithFields(models.FieldDescriptor{Name: "id", Type: models.TypeOf("string"), DeclaredBy: "shop.Base"}).
				BuildAggregateRoot(),
			unresolved: []string{"shop.Base"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build([]models.TypeDescriptor{tt.descriptor}, nil, tt.opts...)
			if len(tt.unresolved) == 0 {
				assert.NoError(t, err)
				return
			}
			var got []string
			for _, d := range diagnostics(t, err) {
				got = append(got, d.(*errors.UnresolvedReference).To)
			}
			assert.ElementsMatch(t, tt.unresolved, got)
		})
	}
}

func TestBuilderIsReusable(t *testing.T) {
	b := NewBuilder(WithExternalNamespaces("time")).
		Add(shopDescriptors()...).
		AddBoundedContexts(shopContexts()...)

	first, err := b.Build()
	require.NoError(t, err)
	second, err := b.Build()
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
}

func TestProcessesEdges(t *testing.T) {
	model := buildShop(t)

	assert.Equal(t, []string{"shop.PlaceOrder"}, model.ProcessedCommands("shop.Checkout"))
	assert.Equal(t, []string{"shop.Checkout"}, model.ProcessingServices("shop.PlaceOrder"))
	assert.Empty(t, model.ProcessingRepositories("shop.PlaceOrder"))

	edges := model.Relations("shop.Checkout")
	assert.Contains(t, edges, index.Edge{
		Relation: index.Processes,
		Source:   "shop.Checkout",
		Target:   "shop.PlaceOrder",
		Member:   "methods.run.params.cmd",
	})
}
