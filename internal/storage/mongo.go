// Package storage persists aggregated snapshots to MongoDB.
package storage

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/superdark1999/multi-api-integration/internal/aggregate"
)

const (
	collectionName  = "aggregated_data"
	defaultDatabase = "multi_api_integration"
	connectTimeout  = 5 * time.Second
)

// MongoSink implements aggregate.SnapshotSink on a MongoDB collection. The
// connection is established lazily on first use and shared afterwards; the
// mutex guards the lazy path against concurrent first use.
type MongoSink struct {
	uri      string
	database string

	mu     sync.Mutex
	client *mongo.Client
}

var _ aggregate.SnapshotSink = (*MongoSink)(nil)

func NewMongoSink(uri string) *MongoSink {
	return &MongoSink{uri: uri, database: databaseFromURI(uri)}
}

// storedSnapshot is the persisted document shape: the snapshot itself plus
// the instant it was written.
type storedSnapshot struct {
	aggregate.Snapshot `bson:",inline"`
	StoredAt           time.Time `bson:"storedAt"`
}

// Persist inserts the snapshot into the aggregated_data collection,
// connecting first if needed.
func (s *MongoSink) Persist(ctx context.Context, snapshot aggregate.Snapshot) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}

	doc := storedSnapshot{
		Snapshot: snapshot,
		StoredAt: time.Now().UTC(),
	}

	_, err = client.Database(s.database).Collection(collectionName).InsertOne(ctx, doc)
	return err
}

// Connected reports whether the client is established and the server
// answers a ping. Used by the health endpoint.
func (s *MongoSink) Connected(ctx context.Context) bool {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client == nil {
		return false
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return client.Ping(pingCtx, nil) == nil
}

// Close tears down the shared client.
func (s *MongoSink) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client = nil
	return err
}

// connect establishes the shared client once. Safe to call when already
// connected.
func (s *MongoSink) connect(ctx context.Context) (*mongo.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return nil, err
	}

	s.client = client
	return client, nil
}

// databaseFromURI extracts the database name from the connection string,
// defaulting when the URI does not carry one.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return defaultDatabase
	}
	return name
}
