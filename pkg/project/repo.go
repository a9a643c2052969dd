package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		collection: db.Collection("projects"),
	}
}

func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create project indexes: %w", err)
	}
	return nil
}

func (r *MongoRepo) Create(ctx context.Context, project *Project) error {
	rate, err := primitive.ParseDecimal128(project.HourlyRate.String())
	if err != nil {
		return fmt.Errorf("%w: rate %s", ErrInvalidProject, project.HourlyRate)
	}
	project.Rate = rate

	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("failed to convert inserted ID to ObjectID")
	}
	project.MongoID = oid
	project.ID = oid.Hex()

	return nil
}

func (r *MongoRepo) GetByUser(ctx context.Context, userID string) ([]*Project, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := make([]*Project, 0)
	for cursor.Next(ctx) {
		var p Project
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode project: %w", err)
		}
		if err := fromStored(&p); err != nil {
			return nil, fmt.Errorf("failed to decode project %s: %w", p.MongoID.Hex(), err)
		}
		projects = append(projects, &p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read projects: %w", err)
	}

	return projects, nil
}

func (r *MongoRepo) GetByID(ctx context.Context, userID, id string) (*Project, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var p Project
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "user_id": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if err := fromStored(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

func fromStored(p *Project) error {
	rate, err := decimal.NewFromString(p.Rate.String())
	if err != nil {
		return fmt.Errorf("bad stored rate %q: %w", p.Rate.String(), err)
	}
	p.HourlyRate = rate
	p.ID = p.MongoID.Hex()
	return nil
}
