package repository

import (
	"context"
	"errors"
	"fmt"
	mentorserrors "mentorbook/internal/mentors/errors"
	"mentorbook/pkg/config"
	mongodb "mentorbook/pkg/db/mongo"
	"mentorbook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mentorSequence = "mentors"

type mongoMentorRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	bookings   *mongo.Collection
	txManager  mongodb.TransactionManager
}

func NewMongoMentorRepository(cfg *config.Config) MentorRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMentorRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(mongodb.CollectionMentors),
		bookings:   db.Collection(mongodb.CollectionBookings),
		txManager:  mongodb.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout leaves a SessionContext untouched; wrapping it would detach
// the operation from the transaction.
func (r *mongoMentorRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return withTimeout(ctx, timeout)
}

func (r *mongoMentorRepository) Create(ctx context.Context, mentor *model.Mentor) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	id, err := mongodb.NextSequence(ctx, r.db, mentorSequence)
	if err != nil {
		return fmt.Errorf("failed to allocate mentor id: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	mentor.ID = id
	mentor.CreatedAt = now
	mentor.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, mentor); err != nil {
		return fmt.Errorf("failed to create mentor: %w", err)
	}
	return nil
}

func (r *mongoMentorRepository) FindByID(ctx context.Context, id int64) (*model.Mentor, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var mentor model.Mentor
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&mentor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", mentorserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find mentor: %w", err)
	}
	return &mentor, nil
}

func (r *mongoMentorRepository) FindAll(ctx context.Context) ([]*model.Mentor, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query mentors: %w", err)
	}
	defer cursor.Close(ctx)

	mentors := []*model.Mentor{}
	if err := cursor.All(ctx, &mentors); err != nil {
		return nil, fmt.Errorf("failed to decode mentors: %w", err)
	}
	return mentors, nil
}

func (r *mongoMentorRepository) Update(ctx context.Context, mentor *model.Mentor) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":       mentor.Name,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": mentor.ID}, update, opts).Decode(mentor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: %d", mentorserrors.ErrNotFound, mentor.ID)
		}
		return fmt.Errorf("failed to update mentor: %w", err)
	}
	return nil
}

// Delete removes the mentor unless bookings still reference it. The check
// and the delete share a transaction.
func (r *mongoMentorRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	return r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		count, err := r.bookings.CountDocuments(sessCtx, bson.M{"mentor_id": id}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("failed to count mentor bookings: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %d", mentorserrors.ErrHasBookings, id)
		}

		result, err := r.collection.DeleteOne(sessCtx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("failed to delete mentor: %w", err)
		}
		if result.DeletedCount == 0 {
			return fmt.Errorf("%w: %d", mentorserrors.ErrNotFound, id)
		}
		return nil
	})
}

func (r *mongoMentorRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete mentors: %w", err)
	}
	return result.DeletedCount, nil
}
