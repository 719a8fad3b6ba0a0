package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ledgerline/inventory-core/pkg/cloudevents"
	"github.com/ledgerline/inventory-core/pkg/kafka"
	pkgmongo "github.com/ledgerline/inventory-core/pkg/mongodb"
	"github.com/ledgerline/inventory-core/pkg/outbox"
	outboxMongo "github.com/ledgerline/inventory-core/pkg/outbox/mongodb"

	"github.com/ledgerline/inventory-core/internal/domain"
)

// Collection names
const (
	ItemsCollection           = "items"
	SuppliersCollection       = "suppliers"
	ClientsCollection         = "clients"
	PurchasesCollection       = "purchases"
	SalesCollection           = "sales"
	PurchaseReturnsCollection = "purchase_returns"
	AuditsCollection          = "inventory_audits"
	VouchersCollection        = "vouchers"
	CurrenciesCollection      = "currencies"
	PaymentTypesCollection    = "payment_types"
	SettingsCollection        = "settings"
	SequencesCollection       = "sequences"
)

// Store is the MongoDB domain.Store. Transactions use a client session
// carried by ctx; domain events are written to the outbox in the same
// session and relayed to Kafka by the outbox publisher.
type Store struct {
	client       *pkgmongo.CircuitBreakerClient
	outboxRepo   *outboxMongo.OutboxRepository
	eventFactory *cloudevents.EventFactory
	sequences    *pkgmongo.CircuitBreakerCollection

	items           *collection[*domain.Item]
	suppliers       *collection[*domain.Supplier]
	clients         *collection[*domain.Client]
	purchases       *collection[*domain.Purchase]
	sales           *collection[*domain.Sale]
	purchaseReturns *collection[*domain.PurchaseReturn]
	audits          *collection[*domain.InventoryAudit]
	vouchers        *collection[*domain.Voucher]
	currencies      *collection[*domain.Currency]
	paymentTypes    *collection[*domain.PaymentType]
	settings        *collection[*domain.SettingRecord]
}

var _ domain.Store = (*Store)(nil)

// NewStore creates a store over client's database
func NewStore(client *pkgmongo.CircuitBreakerClient, eventFactory *cloudevents.EventFactory) *Store {
	return &Store{
		client:       client,
		outboxRepo:   outboxMongo.NewOutboxRepository(client.Database()),
		eventFactory: eventFactory,
		sequences:    client.Collection(SequencesCollection),

		items:           newCollection[*domain.Item](client.Collection(ItemsCollection)),
		suppliers:       newCollection[*domain.Supplier](client.Collection(SuppliersCollection)),
		clients:         newCollection[*domain.Client](client.Collection(ClientsCollection)),
		purchases:       newCollection[*domain.Purchase](client.Collection(PurchasesCollection)),
		sales:           newCollection[*domain.Sale](client.Collection(SalesCollection)),
		purchaseReturns: newCollection[*domain.PurchaseReturn](client.Collection(PurchaseReturnsCollection)),
		audits:          newCollection[*domain.InventoryAudit](client.Collection(AuditsCollection)),
		vouchers:        newCollection[*domain.Voucher](client.Collection(VouchersCollection)),
		currencies:      newCollection[*domain.Currency](client.Collection(CurrenciesCollection)),
		paymentTypes:    newCollection[*domain.PaymentType](client.Collection(PaymentTypesCollection)),
		settings:        newCollection[*domain.SettingRecord](client.Collection(SettingsCollection)),
	}
}

func (s *Store) Items() domain.Collection[*domain.Item]                     { return s.items }
func (s *Store) Suppliers() domain.Collection[*domain.Supplier]             { return s.suppliers }
func (s *Store) Clients() domain.Collection[*domain.Client]                 { return s.clients }
func (s *Store) Purchases() domain.Collection[*domain.Purchase]             { return s.purchases }
func (s *Store) Sales() domain.Collection[*domain.Sale]                     { return s.sales }
func (s *Store) PurchaseReturns() domain.Collection[*domain.PurchaseReturn] { return s.purchaseReturns }
func (s *Store) Audits() domain.Collection[*domain.InventoryAudit]          { return s.audits }
func (s *Store) Vouchers() domain.Collection[*domain.Voucher]               { return s.vouchers }
func (s *Store) Currencies() domain.Collection[*domain.Currency]            { return s.currencies }
func (s *Store) PaymentTypes() domain.Collection[*domain.PaymentType]       { return s.paymentTypes }
func (s *Store) Settings() domain.Collection[*domain.SettingRecord]         { return s.settings }

// Outbox returns the outbox repository events are recorded into
func (s *Store) Outbox() *outboxMongo.OutboxRepository {
	return s.outboxRepo
}

// EnsureIndexes creates the secondary indexes lookups rely on
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		coll   *pkgmongo.CircuitBreakerCollection
		models []mongo.IndexModel
	}{
		{s.items.coll, []mongo.IndexModel{
			{Keys: bson.D{{Key: "barcode", Value: 1}}, Options: options.Index().SetSparse(true)},
			{Keys: bson.D{{Key: "name", Value: 1}}},
		}},
		{s.purchases.coll, []mongo.IndexModel{
			{Keys: bson.D{{Key: "supplierId", Value: 1}, {Key: "date", Value: -1}}},
		}},
		{s.sales.coll, []mongo.IndexModel{
			{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: -1}}},
		}},
		{s.purchaseReturns.coll, []mongo.IndexModel{
			{Keys: bson.D{{Key: "purchaseId", Value: 1}}},
		}},
		{s.vouchers.coll, []mongo.IndexModel{
			{Keys: bson.D{{Key: "partyId", Value: 1}, {Key: "date", Value: -1}}},
		}},
		{s.audits.coll, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: -1}}},
		}},
	}

	for _, spec := range specs {
		if _, err := spec.coll.CreateIndexes(ctx, spec.models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", spec.coll.Name(), err)
		}
	}
	return s.outboxRepo.EnsureIndexes(ctx)
}

// RunInTransaction runs fn inside a MongoDB transaction. A ctx that already
// carries a session joins the outer transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
}

type sequenceDocument struct {
	Prefix string `bson:"_id"`
	Value  int    `bson:"value"`
}

// NextSequence atomically sets the counter for prefix to
// max(counter, observedMax)+1 and returns it
func (s *Store) NextSequence(ctx context.Context, prefix string, observedMax int) (int, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "value", Value: bson.D{{Key: "$add", Value: bson.A{
			bson.D{{Key: "$max", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$value", 0}}},
				observedMax,
			}}},
			1,
		}}}}}}},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc sequenceDocument
	if err := s.sequences.FindOneAndUpdate(ctx, bson.M{"_id": prefix}, update, opts).Decode(&doc); err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", prefix, err)
	}
	return doc.Value, nil
}

// RecordEvents converts events to CloudEvents and saves them to the outbox
func (s *Store) RecordEvents(ctx context.Context, aggregateType, aggregateID string, events ...domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	outboxEvents := make([]*outbox.OutboxEvent, 0, len(events))
	for _, event := range events {
		cloudEvent := s.eventFactory.FromDomainEvent(ctx, aggregateType, aggregateID, event)
		outboxEvent, err := outbox.NewOutboxEventFromCloudEvent(
			aggregateID,
			aggregateType,
			kafka.TopicForEvent(event.EventType()),
			cloudEvent,
		)
		if err != nil {
			return fmt.Errorf("failed to create outbox event: %w", err)
		}
		outboxEvents = append(outboxEvents, outboxEvent)
	}

	if err := s.outboxRepo.SaveAll(ctx, outboxEvents); err != nil {
		return fmt.Errorf("failed to save outbox events: %w", err)
	}
	return nil
}

// collection stores records as documents keyed by their id
type collection[T domain.Record[T]] struct {
	coll *pkgmongo.CircuitBreakerCollection
}

func newCollection[T domain.Record[T]](coll *pkgmongo.CircuitBreakerCollection) *collection[T] {
	return &collection[T]{coll: coll}
}

func (c *collection[T]) Get(ctx context.Context, id string) (T, error) {
	var record T
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		var zero T
		return zero, nil
	}
	if err != nil {
		return record, fmt.Errorf("failed to find %s %s: %w", c.coll.Name(), id, err)
	}
	return record, nil
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := c.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	records := make([]T, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.coll.Name(), err)
	}
	return records, nil
}

func (c *collection[T]) Upsert(ctx context.Context, record T) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := c.coll.ReplaceOne(ctx, bson.M{"_id": record.RecordID()}, record, opts); err != nil {
		return fmt.Errorf("failed to save %s %s: %w", c.coll.Name(), record.RecordID(), err)
	}
	return nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", c.coll.Name(), id, err)
	}
	return nil
}
