package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"salon-booking-api/internal/model"
)

const workerColumns = `id, username, email, password_hash, is_validated,
	validation_token, reset_token, reset_token_expires, created_at`

func (s *Store) CreateWorker(ctx context.Context, w *model.Worker) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO workers (id, username, email, password_hash, is_validated, validation_token)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		w.ID, w.Username, w.Email, w.PasswordHash, w.IsValidated, w.ValidationToken,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// WorkerByIdentifier matches either username or email.
func (s *Store) WorkerByIdentifier(ctx context.Context, identifier string) (*model.Worker, error) {
	return s.workerBy(ctx, `username = $1 OR email = $1`, identifier)
}

func (s *Store) WorkerByEmail(ctx context.Context, email string) (*model.Worker, error) {
	return s.workerBy(ctx, `email = $1`, email)
}

func (s *Store) WorkerByID(ctx context.Context, id string) (*model.Worker, error) {
	return s.workerBy(ctx, `id = $1`, id)
}

func (s *Store) WorkerByValidationToken(ctx context.Context, token string) (*model.Worker, error) {
	return s.workerBy(ctx, `validation_token = $1`, token)
}

func (s *Store) WorkerByResetToken(ctx context.Context, token string) (*model.Worker, error) {
	return s.workerBy(ctx, `reset_token = $1 AND reset_token_expires > NOW()`, token)
}

func (s *Store) ValidateWorker(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE workers SET is_validated = TRUE, validation_token = NULL WHERE id = $1`, id)
	return err
}

func (s *Store) SetResetToken(ctx context.Context, email string, token *string, expires *time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE workers SET reset_token = $1, reset_token_expires = $2 WHERE email = $3`,
		token, expires, email)
	return err
}

func (s *Store) UpdateWorkerPassword(ctx context.Context, id, passwordHash string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE workers SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	return err
}

func (s *Store) UpdateWorkerInfo(ctx context.Context, id, username, email string) (*model.Worker, error) {
	w := &model.Worker{}
	err := scanWorker(s.pool.QueryRow(ctx,
		`UPDATE workers SET username = $1, email = $2 WHERE id = $3
		 RETURNING `+workerColumns, username, email, id), w)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Store) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+workerColumns+` FROM workers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Worker
	for rows.Next() {
		var w model.Worker
		if err := scanWorker(rows, &w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) DeleteWorker(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM workers WHERE id = $1`, id)
	return err
}

func (s *Store) workerBy(ctx context.Context, where string, args ...any) (*model.Worker, error) {
	w := &model.Worker{}
	err := scanWorker(s.pool.QueryRow(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE `+where, args...), w)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func scanWorker(row pgx.Row, w *model.Worker) error {
	return row.Scan(&w.ID, &w.Username, &w.Email, &w.PasswordHash, &w.IsValidated,
		&w.ValidationToken, &w.ResetToken, &w.ResetTokenExpires, &w.CreatedAt)
}

func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}
