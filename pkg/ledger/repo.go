package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activeIndexName = "one_active_session_per_user"

type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		collection: db.Collection("sessions"),
	}
}

// EnsureIndexes creates the lookup index and the partial unique index that
// lets at most one active session exist per user.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName(activeIndexName).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	return nil
}

func (r *MongoRepo) Create(ctx context.Context, session *Session) error {
	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrActiveExists
		}
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("failed to convert inserted ID to ObjectID")
	}
	session.MongoID = oid
	session.ID = oid.Hex()

	return nil
}

// Close writes the end of a session, but only if it is still active.
func (r *MongoRepo) Close(ctx context.Context, session *Session) error {
	objectID, err := primitive.ObjectIDFromHex(session.ID)
	if err != nil {
		return errors.New("invalid ID format")
	}

	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "user_id": session.UserID, "active": true},
		bson.M{"$set": bson.M{
			"end":     session.End,
			"active":  false,
			"invalid": session.Invalid,
		}},
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *MongoRepo) GetActive(ctx context.Context, userID string) ([]*Session, error) {
	return r.find(ctx, bson.M{"user_id": userID, "active": true})
}

func (r *MongoRepo) GetByUser(ctx context.Context, userID string) ([]*Session, error) {
	return r.find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "start", Value: -1}}))
}

func (r *MongoRepo) GetInRange(ctx context.Context, userID string, from, to time.Time) ([]*Session, error) {
	return r.find(ctx, bson.M{
		"user_id": userID,
		"start":   bson.M{"$gte": from, "$lte": to},
	})
}

func (r *MongoRepo) GetAllActive(ctx context.Context) ([]*Session, error) {
	return r.find(ctx, bson.M{"active": true})
}

func (r *MongoRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*Session, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*Session
	for cursor.Next(ctx) {
		var session Session
		if err := cursor.Decode(&session); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
		session.ID = session.MongoID.Hex()
		sessions = append(sessions, &session)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	return sessions, nil
}
