package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/notate/pkg/document"
	"github.com/matzehuels/notate/pkg/errors"
)

// Default connection settings for MongoStore.
const (
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "notate"
	DefaultMongoCollection = "documents"
	DefaultMongoTimeout    = 10 * time.Second
)

// MongoOptions configures a MongoStore connection.
type MongoOptions struct {
	// URI is the MongoDB connection string. Empty means DefaultMongoURI.
	URI string

	// Database holds the documents collection. Empty means
	// DefaultMongoDatabase.
	Database string

	// Collection stores the records. Empty means DefaultMongoCollection.
	Collection string

	// Timeout bounds the initial connect and ping. Zero means
	// DefaultMongoTimeout.
	Timeout time.Duration
}

// MongoStore persists records in a MongoDB collection, for deployments
// where several server instances share one document set. Updates are
// last-writer-wins; there is no record-level locking across instances.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping before returning.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		opts.URI = DefaultMongoURI
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultMongoTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}
	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the index List sorts on.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: -1}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create index")
	}
	return nil
}

// Create validates and stores a document under a fresh ID.
func (s *MongoStore) Create(ctx context.Context, name string, d *document.Document) (*Record, error) {
	if err := validateCreateInput(name, d); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &Record{
		ID:        NewID(),
		Name:      strings.TrimSpace(name),
		Document:  *d,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "insert record")
	}
	return rec, nil
}

// Get retrieves a record by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "find record %s", id)
	}
	return &rec, nil
}

// Update replaces a record's document and bumps its timestamp.
func (s *MongoStore) Update(ctx context.Context, id, name string, d *document.Document) (*Record, error) {
	if err := validateUpdateInput(name, d); err != nil {
		return nil, err
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		rec.Name = strings.TrimSpace(name)
	}
	rec.Document = *d
	rec.UpdatedAt = time.Now().UTC()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, rec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "replace record %s", id)
	}
	if res.MatchedCount == 0 {
		return nil, notFound(id)
	}
	return rec, nil
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete record %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// List returns records newest first.
func (s *MongoStore) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(limitFor(opts)))

	cur, err := s.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list records")
	}
	recs := []*Record{}
	if err := cur.All(ctx, &recs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode records")
	}
	return recs, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "disconnect from mongodb")
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
