//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	bookingserrors "mentorbook/internal/bookings/errors"
	"mentorbook/internal/bookings/repository"
	mentorserrors "mentorbook/internal/mentors/errors"
	mentorsrepo "mentorbook/internal/mentors/repository"
	mongomigration "mentorbook/internal/migrations/mongo"
	"mentorbook/pkg/client"
	"mentorbook/pkg/config"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// startMongo runs a single-node replica set; transactions refuse a standalone mongod.
func startMongo(ctx context.Context, t *testing.T) *mongo.Client {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			Cmd:          []string{"--replSet", "rs0", "--bind_ip_all"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	code, _, err := container.Exec(ctx, []string{
		"mongosh", "--quiet", "--eval",
		"rs.initiate({_id: 'rs0', members: [{_id: 0, host: 'localhost:27017'}]})",
	})
	require.NoError(t, err)
	require.Zero(t, code, "rs.initiate failed")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	uri := fmt.Sprintf("mongodb://%s:%s/?directConnection=true", host, port.Port())
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mongoClient.Disconnect(context.Background()) })

	require.Eventually(t, func() bool {
		var hello struct {
			IsWritablePrimary bool `bson:"isWritablePrimary"`
		}
		err := mongoClient.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
		return err == nil && hello.IsWritablePrimary
	}, 30*time.Second, 250*time.Millisecond, "replica set never elected a primary")

	return mongoClient
}

func TestMongoBookingRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	ctx := context.Background()
	mongoClient := startMongo(ctx, t)

	cfg := &config.Config{
		StoreDriver:       config.StoreMongo,
		MongoDatabaseName: "mentorbook_test",
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		Log:               logger.New(logger.Config{Output: io.Discard}),
		Client:            &client.Client{Mongo: mongoClient},
	}
	require.NoError(t, mongomigration.RunMigration(ctx, mongoClient, cfg.MongoDatabaseName, cfg.Log))

	mentors := mentorsrepo.New(cfg)
	bookings := repository.New(cfg)

	alice := &model.Mentor{Name: "Alice"}
	bob := &model.Mentor{Name: "Bob"}
	require.NoError(t, mentors.Create(ctx, alice))
	require.NoError(t, mentors.Create(ctx, bob))

	t.Run("sequence assigns increasing ids", func(t *testing.T) {
		assert.Positive(t, alice.ID)
		assert.Equal(t, alice.ID+1, bob.ID)
	})

	slot := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("insert and find existing", func(t *testing.T) {
		b := &model.Booking{MentorID: alice.ID, StudentEmail: "s1@example.com", StartTime: slot}
		require.NoError(t, bookings.Insert(ctx, b))
		assert.Positive(t, b.ID)

		found, err := bookings.FindExisting(ctx, alice.ID, slot)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, b.ID, found.ID)
	})

	t.Run("unique index rejects the same mentor and slot", func(t *testing.T) {
		err := bookings.Insert(ctx, &model.Booking{MentorID: alice.ID, StartTime: slot})
		assert.ErrorIs(t, err, bookingserrors.ErrSlotTaken)
	})

	t.Run("sub-millisecond difference is the same stored instant", func(t *testing.T) {
		err := bookings.Insert(ctx, &model.Booking{MentorID: alice.ID, StartTime: slot.Add(500 * time.Microsecond)})
		assert.ErrorIs(t, err, bookingserrors.ErrSlotTaken)
	})

	t.Run("one second later is a different slot", func(t *testing.T) {
		assert.NoError(t, bookings.Insert(ctx, &model.Booking{MentorID: alice.ID, StartTime: slot.Add(time.Second)}))
		assert.NoError(t, bookings.Insert(ctx, &model.Booking{MentorID: bob.ID, StartTime: slot}))
	})

	t.Run("unknown mentor", func(t *testing.T) {
		err := bookings.Insert(ctx, &model.Booking{MentorID: 999999, StartTime: slot})
		assert.ErrorIs(t, err, bookingserrors.ErrMentorNotFound)
	})

	t.Run("list is ordered by start time then id", func(t *testing.T) {
		all, err := bookings.List(ctx, model.BookingFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Less(t, all[0].ID, all[1].ID)
		assert.True(t, all[2].StartTime.Equal(slot.Add(time.Second)))
	})

	t.Run("mentor with bookings cannot be deleted", func(t *testing.T) {
		assert.ErrorIs(t, mentors.Delete(ctx, alice.ID), mentorserrors.ErrHasBookings)

		_, err := bookings.DeleteAll(ctx)
		require.NoError(t, err)
		assert.NoError(t, mentors.Delete(ctx, alice.ID))
	})

	t.Run("insert racing a mentor delete never orphans a booking", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			m := &model.Mentor{Name: fmt.Sprintf("Racer %d", i)}
			require.NoError(t, mentors.Create(ctx, m))

			var (
				wg                   sync.WaitGroup
				insertErr, deleteErr error
			)
			wg.Add(2)
			go func() {
				defer wg.Done()
				insertErr = bookings.Insert(ctx, &model.Booking{MentorID: m.ID, StartTime: slot})
			}()
			go func() {
				defer wg.Done()
				deleteErr = mentors.Delete(ctx, m.ID)
			}()
			wg.Wait()

			assert.False(t, insertErr == nil && deleteErr == nil,
				"mentor %d was deleted while a booking for it was inserted", m.ID)
		}
	})
}
