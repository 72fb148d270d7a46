package repository

import (
	"context"
	"errors"
	"fmt"
	mentorserrors "mentorbook/internal/mentors/errors"
	"mentorbook/pkg/config"
	"mentorbook/pkg/db/postgres"
	"mentorbook/pkg/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const mentorColumns = "id, name, created_at, updated_at"

type postgresMentorRepository struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

func NewPostgresMentorRepository(cfg *config.Config) MentorRepository {
	return &postgresMentorRepository{
		cfg:  cfg,
		pool: cfg.Client.Postgres,
	}
}

func scanMentor(row pgx.Row) (*model.Mentor, error) {
	var m model.Mentor
	if err := row.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return &m, nil
}

func (r *postgresMentorRepository) Create(ctx context.Context, mentor *model.Mentor) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	created, err := scanMentor(r.pool.QueryRow(ctx,
		`INSERT INTO mentors (name) VALUES ($1) RETURNING `+mentorColumns,
		mentor.Name,
	))
	if err != nil {
		return fmt.Errorf("failed to create mentor: %w", err)
	}
	*mentor = *created
	return nil
}

func (r *postgresMentorRepository) FindByID(ctx context.Context, id int64) (*model.Mentor, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	mentor, err := scanMentor(r.pool.QueryRow(ctx, `SELECT `+mentorColumns+` FROM mentors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", mentorserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find mentor: %w", err)
	}
	return mentor, nil
}

func (r *postgresMentorRepository) FindAll(ctx context.Context) ([]*model.Mentor, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+mentorColumns+` FROM mentors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentors: %w", err)
	}
	defer rows.Close()

	mentors := []*model.Mentor{}
	for rows.Next() {
		mentor, err := scanMentor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode mentor: %w", err)
		}
		mentors = append(mentors, mentor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mentors: %w", err)
	}
	return mentors, nil
}

func (r *postgresMentorRepository) Update(ctx context.Context, mentor *model.Mentor) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	updated, err := scanMentor(r.pool.QueryRow(ctx,
		`UPDATE mentors SET name = $2, updated_at = now() WHERE id = $1 RETURNING `+mentorColumns,
		mentor.ID, mentor.Name,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %d", mentorserrors.ErrNotFound, mentor.ID)
		}
		return fmt.Errorf("failed to update mentor: %w", err)
	}
	*mentor = *updated
	return nil
}

func (r *postgresMentorRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM mentors WHERE id = $1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %d", mentorserrors.ErrHasBookings, id)
		}
		return fmt.Errorf("failed to delete mentor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", mentorserrors.ErrNotFound, id)
	}
	return nil
}

func (r *postgresMentorRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM mentors`)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: delete bookings first", mentorserrors.ErrHasBookings)
		}
		return 0, fmt.Errorf("failed to delete mentors: %w", err)
	}
	return tag.RowsAffected(), nil
}
