package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "mentorbook/internal/bookings/errors"
	"mentorbook/pkg/config"
	mongodb "mentorbook/pkg/db/mongo"
	"mentorbook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bookingSequence = "bookings"

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	mentors    *mongo.Collection
	txManager  mongodb.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(mongodb.CollectionBookings),
		mentors:    db.Collection(mongodb.CollectionMentors),
		txManager:  mongodb.NewTransactionManager(cfg.Client.Mongo),
	}
}

// BSON dates carry milliseconds, so start times are compared at that precision.
func mongoTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func (r *mongoBookingRepository) FindExisting(ctx context.Context, mentorID int64, startTime time.Time) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{
		"mentor_id":  mentorID,
		"start_time": mongoTime(startTime),
	}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up existing booking: %w", err)
	}
	return &booking, nil
}

// Insert writes the booking and stamps the mentor document in one
// transaction. The stamp makes a concurrent mentor Delete conflict, so a
// booking can never outlive its mentor.
func (r *mongoBookingRepository) Insert(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	id, err := mongodb.NextSequence(ctx, r.db, bookingSequence)
	if err != nil {
		return fmt.Errorf("failed to allocate booking id: %w", err)
	}

	now := mongoTime(time.Now())
	booking.ID = id
	booking.StartTime = mongoTime(booking.StartTime)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		result, err := r.mentors.UpdateOne(sessCtx,
			bson.M{"_id": booking.MentorID},
			bson.M{"$set": bson.M{"last_booked_at": now}},
		)
		if err != nil {
			return fmt.Errorf("failed to lock mentor %d: %w", booking.MentorID, err)
		}
		if result.MatchedCount == 0 {
			return fmt.Errorf("%w: %d", bookingserrors.ErrMentorNotFound, booking.MentorID)
		}

		if _, err := r.collection.InsertOne(sessCtx, booking); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("%w: mentor %d at %s", bookingserrors.ErrSlotTaken, booking.MentorID, booking.StartTime.Format(time.RFC3339))
			}
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		return nil
	})
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id int64) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", bookingserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := bson.M{}
	if filter.MentorID > 0 {
		query["mentor_id"] = filter.MentorID
	}
	if filter.StudentEmail != "" {
		query["student_email"] = filter.StudentEmail
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %d", bookingserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoBookingRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookings: %w", err)
	}
	return result.DeletedCount, nil
}
