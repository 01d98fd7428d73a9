package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of a MongoDB database.
type MongoStore struct {
	db      *mongo.Database
	timeout time.Duration
}

// NewMongoStore connects to MongoDB and pings it to verify connectivity.
// timeout is applied to every operation whose caller context carries no
// deadline of its own.
func NewMongoStore(ctx context.Context, uri, database string, timeout time.Duration) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb at %s: %w", uri, err)
	}
	return &MongoStore{db: client.Database(database), timeout: timeout}, nil
}

// NewMongoStoreFromDatabase wraps an existing database handle. Used by the
// seeding and index-provisioning commands.
func NewMongoStoreFromDatabase(db *mongo.Database, timeout time.Duration) *MongoStore {
	return &MongoStore{db: db, timeout: timeout}
}

// Database exposes the underlying handle for index provisioning.
func (s *MongoStore) Database() *mongo.Database {
	return s.db
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// withDeadline attaches the configured timeout unless the caller already
// set one.
func (s *MongoStore) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *MongoStore) Create(ctx context.Context, collection, id string, doc any) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document for %s/%s: %w", collection, id, err)
	}
	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("failed to decode document for %s/%s: %w", collection, id, err)
	}
	d = setDocumentID(d, id)

	opts := options.Replace().SetUpsert(true)
	if _, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, d, opts); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string, out any) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) UpdateIf(ctx context.Context, collection, id string, guard map[string]any, patch map[string]any) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	filter := bson.M{"_id": id}
	for field, value := range guard {
		filter[field] = value
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx, filter, bson.M{"$set": patch})
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a stale guard from a missing document.
		count, err := s.db.Collection(collection).CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("failed to check %s/%s after guarded update: %w", collection, id, err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, q Query, out any) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	filter := bson.M{}
	for _, f := range q.Filters {
		switch f.Op {
		case OpEq:
			filter[f.Field] = f.Value
		case OpNeq:
			filter[f.Field] = bson.M{"$ne": f.Value}
		case OpGt:
			filter[f.Field] = bson.M{"$gt": f.Value}
		case OpGte:
			filter[f.Field] = bson.M{"$gte": f.Value}
		case OpLt:
			filter[f.Field] = bson.M{"$lt": f.Value}
		case OpLte:
			filter[f.Field] = bson.M{"$lte": f.Value}
		default:
			return fmt.Errorf("unsupported filter operator: %s", f.Op)
		}
	}

	opts := options.Find()
	if q.OrderBy != nil {
		direction := 1
		if q.OrderBy.Desc {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy.Field, Value: direction}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Hint != "" {
		opts.SetHint(q.Hint)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		if isMissingIndex(err) {
			return fmt.Errorf("%w: %v", ErrIndexNotReady, err)
		}
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s query results: %w", collection, err)
	}
	return nil
}

// isMissingIndex reports whether err is the server rejecting a hinted
// query because the named index does not exist.
func isMissingIndex(err error) bool {
	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	if strings.Contains(cmdErr.Message, "hint provided does not correspond to an existing index") {
		return true
	}
	// BadValue covers older server versions that reject unknown hints
	// without the canonical message.
	return cmdErr.Code == 2 && strings.Contains(strings.ToLower(cmdErr.Message), "hint")
}

// setDocumentID forces the _id field to the caller-chosen key, replacing
// any value the encoder produced.
func setDocumentID(d bson.D, id string) bson.D {
	for i := range d {
		if d[i].Key == "_id" {
			d[i].Value = id
			return d
		}
	}
	return append(bson.D{{Key: "_id", Value: id}}, d...)
}

var _ Store = (*MongoStore)(nil)
