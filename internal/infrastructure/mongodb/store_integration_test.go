package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ledgerline/inventory-core/pkg/cloudevents"
	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/metrics"
	pkgmongo "github.com/ledgerline/inventory-core/pkg/mongodb"
	pkgtesting "github.com/ledgerline/inventory-core/pkg/testing"

	"github.com/ledgerline/inventory-core/internal/application"
	"github.com/ledgerline/inventory-core/internal/domain"
	"github.com/ledgerline/inventory-core/internal/infrastructure/memory"
)

type StoreIntegrationTestSuite struct {
	suite.Suite
	container *pkgtesting.MongoDBContainer
	client    *pkgmongo.CircuitBreakerClient
	store     *Store
	ctx       context.Context
}

func TestStoreIntegration(t *testing.T) {
	pkgtesting.SkipIfShort(t)
	suite.Run(t, new(StoreIntegrationTestSuite))
}

func (s *StoreIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := pkgtesting.NewMongoDBContainer(s.ctx)
	s.Require().NoError(err)
	s.container = container

	config := pkgmongo.DefaultConfig()
	config.URI = container.URI
	config.Database = "inventory_core_test"
	config.Direct = true

	client, err := pkgmongo.NewProductionClient(s.ctx, config, metrics.New(metrics.DefaultConfig("store-test")), logging.NewNop())
	s.Require().NoError(err)
	s.client = client

	s.store = NewStore(client, cloudevents.NewEventFactory(cloudevents.SourceLedger))
	s.Require().NoError(s.store.EnsureIndexes(s.ctx))
}

func (s *StoreIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close(s.ctx)
	}
	if s.container != nil {
		s.Require().NoError(s.container.Close(s.ctx))
	}
}

func (s *StoreIntegrationTestSuite) TearDownTest() {
	s.Require().NoError(s.client.Database().Drop(s.ctx))
	s.Require().NoError(s.store.EnsureIndexes(s.ctx))
}

func (s *StoreIntegrationTestSuite) newItem(id string, stock float64) *domain.Item {
	item, err := domain.NewItem(id, domain.ItemDetails{Name: id + " item", Barcode: "B-" + id, UnitPrice: 2}, stock)
	s.Require().NoError(err)
	return item
}

func (s *StoreIntegrationTestSuite) TestCollectionRoundTrip() {
	items := s.store.Items()

	missing, err := items.Get(s.ctx, "nope")
	s.Require().NoError(err)
	s.Nil(missing)

	s.Require().NoError(items.Upsert(s.ctx, s.newItem("b", 3)))
	s.Require().NoError(items.Upsert(s.ctx, s.newItem("a", 1)))

	got, err := items.Get(s.ctx, "b")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("b item", got.Name)
	s.Equal(3.0, got.Stock)

	got.Stock = 9
	s.Require().NoError(items.Upsert(s.ctx, got))

	all, err := items.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("a", all[0].ID)
	s.Equal(9.0, all[1].Stock)

	s.Require().NoError(items.Delete(s.ctx, "a"))
	s.Require().NoError(items.Delete(s.ctx, "a"))
	all, err = items.List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *StoreIntegrationTestSuite) TestPartiesKeepInlinedFields() {
	supplier, err := domain.NewSupplier("Sup-0001", domain.PartyDetails{Name: "Acme", Phone: "555"})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Suppliers().Upsert(s.ctx, supplier))

	got, err := s.store.Suppliers().Get(s.ctx, "Sup-0001")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Acme", got.Name)
	s.Equal("555", got.Phone)
}

func (s *StoreIntegrationTestSuite) TestTransactionRollsBack() {
	boom := errors.New("boom")

	err := s.store.RunInTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.store.Items().Upsert(ctx, s.newItem("x", 1)); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return s.store.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := s.store.Items().Upsert(ctx, s.newItem("y", 1)); err != nil {
				return err
			}
			return boom
		})
	})
	s.ErrorIs(err, boom)

	all, err := s.store.Items().List(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *StoreIntegrationTestSuite) TestNextSequenceNeverReuses() {
	n, err := s.store.NextSequence(s.ctx, "PUR", 0)
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.store.NextSequence(s.ctx, "PUR", 0)
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.store.NextSequence(s.ctx, "PUR", 7)
	s.Require().NoError(err)
	s.Equal(8, n)

	n, err = s.store.NextSequence(s.ctx, "SAL", 0)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *StoreIntegrationTestSuite) TestLedgerWritesStockAndOutbox() {
	s.Require().NoError(s.store.Items().Upsert(s.ctx, s.newItem("bolt", 5)))

	ledger := application.NewLedgerService(s.store, memory.NewLocker(), metrics.New(metrics.DefaultConfig("store-test")), logging.NewNop())
	purchase, err := ledger.RecordPurchase(s.ctx, application.PurchaseCommand{
		SupplierID: "Sup-0001",
		Items:      []application.LineInput{{ItemID: "bolt", Quantity: 4, UnitPrice: 2}},
	})
	s.Require().NoError(err)

	item, err := s.store.Items().Get(s.ctx, "bolt")
	s.Require().NoError(err)
	s.Equal(9.0, item.Stock)

	events, err := s.store.Outbox().FindByAggregateID(s.ctx, purchase.ID)
	s.Require().NoError(err)
	s.Require().NotEmpty(events)
	s.Equal(cloudevents.PurchaseRecorded, events[0].EventType)
	s.Equal("erp.purchasing.events", events[0].Topic)

	stockEvents, err := s.store.Outbox().FindByAggregateID(s.ctx, "bolt")
	s.Require().NoError(err)
	s.Require().Len(stockEvents, 1)
	s.Equal(cloudevents.StockAdjusted, stockEvents[0].EventType)

	pending, err := s.store.Outbox().FindUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(pending, 2)

	drifts, err := ledger.VerifyStock(s.ctx)
	s.Require().NoError(err)
	s.Empty(drifts)
}

func (s *StoreIntegrationTestSuite) TestCanceledContext() {
	ctx, cancel := context.WithTimeout(s.ctx, time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := s.store.Items().Get(ctx, "a")
	s.Error(err)
}
