package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"podscribe/pkg/domain"
)

// Client wraps the MongoDB connection holding the transcript index.
type Client struct {
	mongoClient *mongo.Client
	collection  *mongo.Collection
}

// NewClient creates a transcript index client. Connection problems surface
// from Connect, not here.
func NewClient(connectionString, databaseName, collectionName string) *Client {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		return &Client{}
	}

	return &Client{
		mongoClient: mongoClient,
		collection:  mongoClient.Database(databaseName).Collection(collectionName),
	}
}

// Connect verifies connectivity to MongoDB.
func (c *Client) Connect(ctx context.Context) error {
	if c.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.mongoClient.Ping(ctx, nil)
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

// SaveTranscript upserts an index record keyed by base name, so re-running a
// transcription for the same input replaces its row (last write wins, like
// the artifacts themselves).
func (c *Client) SaveTranscript(ctx context.Context, record *domain.TranscriptRecord) error {
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}

	filter := bson.M{"base_name": record.BaseName}
	update := bson.M{"$set": record}
	opts := options.Update().SetUpsert(true)

	_, err := c.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// ListTranscripts returns all index records, newest first.
func (c *Client) ListTranscripts(ctx context.Context) ([]domain.TranscriptRecord, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := c.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.TranscriptRecord
	for cursor.Next(ctx) {
		var record domain.TranscriptRecord
		if err := cursor.Decode(&record); err != nil {
			continue // Skip invalid documents
		}
		records = append(records, record)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return records, nil
}

// GetExistingBaseNames returns, as a set, which of the given base names are
// already indexed.
func (c *Client) GetExistingBaseNames(ctx context.Context, baseNames []string) (map[string]bool, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}
	if len(baseNames) == 0 {
		return map[string]bool{}, nil
	}

	filter := bson.M{"base_name": bson.M{"$in": baseNames}}
	projection := options.Find().SetProjection(bson.M{"base_name": 1, "_id": 0})

	cursor, err := c.collection.Find(ctx, filter, projection)
	if err != nil {
		return nil, fmt.Errorf("failed to query base names: %w", err)
	}
	defer cursor.Close(ctx)

	set := make(map[string]bool)
	for cursor.Next(ctx) {
		var result struct {
			BaseName string `bson:"base_name"`
		}
		if err := cursor.Decode(&result); err != nil {
			continue
		}
		if result.BaseName != "" {
			set[result.BaseName] = true
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return set, nil
}
