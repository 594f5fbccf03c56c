package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pperrors "github.com/pathprobe/pathprobe/pkg/errors"
)

// MongoStore keeps snapshots in a MongoDB collection. Intended for shared
// deployments where several operators capture state against the same
// database, paired with the serve command.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig describes the MongoDB connection.
type MongoConfig struct {
	// URI is the connection string, e.g. mongodb://localhost:27017
	URI string

	// Database is the database name. Defaults to "pathprobe".
	Database string

	// Collection is the collection name. Defaults to "snapshots".
	Collection string
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "pathprobe"
	}
	if cfg.Collection == "" {
		cfg.Collection = "snapshots"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, pperrors.Wrap(pperrors.ErrCodeStoreUnavailable, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, pperrors.Wrap(pperrors.ErrCodeStoreUnavailable, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save upserts the snapshot by ID.
func (s *MongoStore) Save(ctx context.Context, snap *Snapshot) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": snap.ID},
		snap,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return pperrors.Wrap(pperrors.ErrCodeStoreWrite, err, "save snapshot %q", snap.ID)
	}
	return nil
}

// Get retrieves a snapshot by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	var snap Snapshot
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&snap)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &snap, nil
}

// List returns snapshot metadata without the database payload, newest first.
func (s *MongoStore) List(ctx context.Context) ([]*Snapshot, error) {
	opts := options.Find().
		SetProjection(bson.M{"database": 0}).
		SetSort(bson.M{"created_at": -1})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var snaps []*Snapshot
	if err := cursor.All(ctx, &snaps); err != nil {
		return nil, fmt.Errorf("decode snapshots: %w", err)
	}
	return snaps, nil
}

// Delete removes a snapshot by ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
