package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"salon-booking-api/internal/model"
)

const bookingColumns = `id, name, email, phone, service,
	date::text, time::text, state, cancel_token, created_at`

// CreateBooking runs the conflict check and the insert as one serializable
// transaction, so two concurrent requests for overlapping slots cannot both
// see a free calendar and both commit. Serialization failures are retried a
// bounded number of times before being surfaced.
func (s *Store) CreateBooking(ctx context.Context, b *model.Booking) error {
	candidate, err := b.StartsAt()
	if err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		err := s.tryCreateBooking(ctx, b, candidate)
		if err == nil || attempt >= 2 || !isSerializationFailure(err) {
			return err
		}
	}
}

func (s *Store) tryCreateBooking(ctx context.Context, b *model.Booking, candidate time.Time) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT date::text, time::text FROM bookings
		 WHERE date = $1::date AND state = 'valid'`, b.Date)
	if err != nil {
		return err
	}
	for rows.Next() {
		var date, tm string
		if err := rows.Scan(&date, &tm); err != nil {
			rows.Close()
			return err
		}
		existing, err := model.CombineDateTime(date, tm)
		if err != nil {
			rows.Close()
			return err
		}
		if model.InConflictWindow(candidate, existing) {
			rows.Close()
			return ErrConflict
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, name, email, phone, service, date, time, state, cancel_token, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6::date,$7::time,$8,$9,$10)`,
		b.ID, b.Name, b.Email, b.Phone, b.Service, b.Date, b.Time, b.State, b.CancelToken, b.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func isSerializationFailure(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "40001"
}

func (s *Store) ListBookings(ctx context.Context) ([]model.Booking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) BookingByID(ctx context.Context, id string) (*model.Booking, error) {
	b := &model.Booking{}
	err := scanBooking(s.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id), b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CancelBookingByToken claims and soft-deletes in one statement, filtering
// on state, so a token stops resolving once its booking is cancelled and
// two concurrent uses of the same token cannot both succeed.
func (s *Store) CancelBookingByToken(ctx context.Context, token string) (*model.Booking, error) {
	b := &model.Booking{}
	err := scanBooking(s.pool.QueryRow(ctx,
		`UPDATE bookings SET state = 'deleted'
		 WHERE cancel_token = $1 AND state = 'valid'
		 RETURNING `+bookingColumns, token), b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// MarkBookingDeleted soft-deletes by id regardless of current state and
// returns the row as updated. An already-deleted booking is updated again,
// not rejected.
func (s *Store) MarkBookingDeleted(ctx context.Context, id string) (*model.Booking, error) {
	b := &model.Booking{}
	err := scanBooking(s.pool.QueryRow(ctx,
		`UPDATE bookings SET state = 'deleted' WHERE id = $1
		 RETURNING `+bookingColumns, id), b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DeletedBookingsCreatedBefore returns ids of soft-deleted bookings whose
// creation time has fallen outside the retention window.
func (s *Store) DeletedBookingsCreatedBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM bookings WHERE state = 'deleted' AND created_at < $1`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteBooking hard-deletes a row. A miss is not an error so that
// overlapping purge runs stay idempotent; the bool reports whether this
// call removed the row.
func (s *Store) DeleteBooking(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanBooking(row pgx.Row, b *model.Booking) error {
	return row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Service,
		&b.Date, &b.Time, &b.State, &b.CancelToken, &b.CreatedAt)
}
