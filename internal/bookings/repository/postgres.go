package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "mentorbook/internal/bookings/errors"
	"mentorbook/pkg/config"
	"mentorbook/pkg/db/postgres"
	"mentorbook/pkg/model"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = "id, mentor_id, student_email, start_time, created_at, updated_at"

type postgresBookingRepository struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

func NewPostgresBookingRepository(cfg *config.Config) BookingRepository {
	return &postgresBookingRepository{
		cfg:  cfg,
		pool: cfg.Client.Postgres,
	}
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	if err := row.Scan(&b.ID, &b.MentorID, &b.StudentEmail, &b.StartTime, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.StartTime = b.StartTime.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return &b, nil
}

func (r *postgresBookingRepository) FindExisting(ctx context.Context, mentorID int64, startTime time.Time) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	booking, err := scanBooking(r.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE mentor_id = $1 AND start_time = $2 LIMIT 1`,
		mentorID, startTime,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up existing booking: %w", err)
	}
	return booking, nil
}

func (r *postgresBookingRepository) Insert(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	inserted, err := scanBooking(r.pool.QueryRow(ctx,
		`INSERT INTO bookings (mentor_id, student_email, start_time)
		VALUES ($1, $2, $3)
		RETURNING `+bookingColumns,
		booking.MentorID, booking.StudentEmail, booking.StartTime,
	))
	if err != nil {
		switch {
		case postgres.IsUniqueViolation(err):
			return fmt.Errorf("%w: mentor %d at %s", bookingserrors.ErrSlotTaken, booking.MentorID, booking.StartTime.Format(time.RFC3339Nano))
		case postgres.IsForeignKeyViolation(err):
			return fmt.Errorf("%w: %d", bookingserrors.ErrMentorNotFound, booking.MentorID)
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	*booking = *inserted
	return nil
}

func (r *postgresBookingRepository) FindByID(ctx context.Context, id int64) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	booking, err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", bookingserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return booking, nil
}

// listQuery builds the filtered SELECT; placeholders are numbered in the order args are appended.
func listQuery(filter model.BookingFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.MentorID > 0 {
		args = append(args, filter.MentorID)
		where = append(where, fmt.Sprintf("mentor_id = $%d", len(args)))
	}
	if filter.StudentEmail != "" {
		args = append(args, filter.StudentEmail)
		where = append(where, fmt.Sprintf("student_email = $%d", len(args)))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return query + ` ORDER BY start_time, id`, args
}

func (r *postgresBookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query, args := listQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*model.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func (r *postgresBookingRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", bookingserrors.ErrNotFound, id)
	}
	return nil
}

func (r *postgresBookingRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookings: %w", err)
	}
	return tag.RowsAffected(), nil
}
