package server

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoDatabase   = "imposer"
	mongoCollection = "jobs"
)

// MongoStore persists jobs in MongoDB for multi-instance deployments.
type MongoStore struct {
	client *mongo.Client
	jobs   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		jobs:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) Create(ctx context.Context, job *Job) error {
	if _, err := s.jobs.InsertOne(ctx, job); err != nil {
		return fmt.Errorf("inserting job %s: %w", job.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := s.jobs.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching job %s: %w", id, err)
	}
	return &job, nil
}

func (s *MongoStore) Update(ctx context.Context, job *Job) error {
	res, err := s.jobs.ReplaceOne(ctx, bson.M{"_id": job.ID}, job)
	if err != nil {
		return fmt.Errorf("updating job %s: %w", job.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Job, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := s.jobs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer cur.Close(ctx)

	var jobs []*Job
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("decoding jobs: %w", err)
	}
	return jobs, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
