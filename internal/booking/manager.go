package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salon-booking-api/internal/auth"
	"salon-booking-api/internal/mail"
	"salon-booking-api/internal/metrics"
	"salon-booking-api/internal/model"
	"salon-booking-api/internal/store"
)

// RetentionWindow is how long a soft-deleted booking is kept before the
// sweeper removes it for good. Measured from creation time, not deletion
// time.
const RetentionWindow = 30 * 24 * time.Hour

// Store is the persistence gateway the manager drives. *store.Store
// satisfies it; tests use an in-memory fake.
type Store interface {
	CreateBooking(ctx context.Context, b *model.Booking) error
	ListBookings(ctx context.Context) ([]model.Booking, error)
	BookingByID(ctx context.Context, id string) (*model.Booking, error)
	CancelBookingByToken(ctx context.Context, token string) (*model.Booking, error)
	MarkBookingDeleted(ctx context.Context, id string) (*model.Booking, error)
	DeletedBookingsCreatedBefore(ctx context.Context, cutoff time.Time) ([]string, error)
	DeleteBooking(ctx context.Context, id string) (bool, error)
}

type Manager struct {
	store   Store
	mailer  mail.Sender
	metrics *metrics.Metrics
	logger  *zap.Logger

	// base URL for self-service cancel links in confirmation mail
	baseURL   string
	retention time.Duration

	now      func() time.Time
	newToken func() (string, error)
}

func NewManager(st Store, mailer mail.Sender, m *metrics.Metrics, logger *zap.Logger, baseURL string, retention time.Duration) *Manager {
	if retention <= 0 {
		retention = RetentionWindow
	}
	return &Manager{
		store:     st,
		mailer:    mailer,
		metrics:   m,
		logger:    logger,
		baseURL:   baseURL,
		retention: retention,
		now:       time.Now,
		newToken:  auth.OpaqueToken,
	}
}

type CreateInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// Create validates the input, checks the slot against every valid booking
// on the same date and inserts the row, issuing a fresh cancel token. The
// conflict check and the insert are atomic in the store. The confirmation
// mail is fire-and-forget: its failure never affects the result.
func (m *Manager) Create(ctx context.Context, in CreateInput) (*model.Booking, error) {
	for field, v := range map[string]string{
		"name": in.Name, "email": in.Email, "phone": in.Phone,
		"service": in.Service, "date": in.Date, "time": in.Time,
	} {
		if v == "" {
			return nil, missing(field)
		}
	}

	date, err := model.NormalizeDate(in.Date)
	if err != nil {
		return nil, invalid("date", "must be YYYY-MM-DD")
	}
	tm, err := model.NormalizeTime(in.Time)
	if err != nil {
		return nil, invalid("time", "must be HH:MM or HH:MM:SS")
	}

	token, err := m.newToken()
	if err != nil {
		return nil, fmt.Errorf("generate cancel token: %w", err)
	}

	b := &model.Booking{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Service:     in.Service,
		Date:        date,
		Time:        tm,
		State:       model.StateValid,
		CancelToken: token,
		CreatedAt:   m.now().UTC(),
	}

	if err := m.store.CreateBooking(ctx, b); err != nil {
		if errors.Is(err, store.ErrConflict) {
			m.metrics.BookingConflicts.Inc()
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	m.metrics.BookingsCreated.Inc()
	m.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("date", b.Date),
		zap.String("time", b.Time),
		zap.String("service", b.Service),
	)

	go m.send(b.Email, "Booking confirmed", fmt.Sprintf(
		`<p>Hi %s, your %s appointment on %s at %s is confirmed.</p>
<p>Need to cancel? Use this link: <a href="%s">%s</a></p>`,
		b.Name, b.Service, b.Date, b.Time, m.cancelURL(token), m.cancelURL(token)))

	return b, nil
}

// CancelByToken performs self-service cancellation. The store claims and
// deletes in a single statement, so the token only resolves while the
// booking is still valid and two racing uses cannot both succeed; the loser
// reports not-found.
func (m *Manager) CancelByToken(ctx context.Context, token string) error {
	b, err := m.store.CancelBookingByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}

	m.metrics.BookingsCancelled.WithLabelValues("client").Inc()
	m.logger.Info("booking cancelled by client", zap.String("booking_id", b.ID))

	go m.send(b.Email, "Booking cancelled", fmt.Sprintf(
		`<p>Hi %s, your %s appointment on %s at %s has been cancelled.</p>`,
		b.Name, b.Service, b.Date, b.Time))

	return nil
}

// CancelByWorker soft-deletes a booking on behalf of staff in one update
// by id regardless of state, so re-cancelling an already-deleted booking
// still succeeds and re-sends the notification.
func (m *Manager) CancelByWorker(ctx context.Context, id string) error {
	b, err := m.store.MarkBookingDeleted(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}

	m.metrics.BookingsCancelled.WithLabelValues("worker").Inc()
	m.logger.Info("booking cancelled by worker", zap.String("booking_id", b.ID))

	go m.send(b.Email, "Booking cancelled", fmt.Sprintf(
		`<p>Hi %s, the salon has cancelled your %s appointment on %s at %s.
Please get in touch to rebook.</p>`,
		b.Name, b.Service, b.Date, b.Time))

	return nil
}

// PurgeExpiredDeleted hard-deletes every soft-deleted booking created
// before now minus the retention window, and returns how many rows this
// run actually removed. A row already purged by a concurrent run is
// skipped, not an error.
func (m *Manager) PurgeExpiredDeleted(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-m.retention)
	ids, err := m.store.DeletedBookingsCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list expired bookings: %w", err)
	}

	purged := 0
	for _, id := range ids {
		removed, err := m.store.DeleteBooking(ctx, id)
		if err != nil {
			return purged, fmt.Errorf("purge booking %s: %w", id, err)
		}
		if removed {
			purged++
		}
	}

	if purged > 0 {
		m.metrics.BookingsPurged.Add(float64(purged))
		m.logger.Info("purged expired bookings",
			zap.Int("count", purged),
			zap.Time("cutoff", cutoff),
		)
	}
	return purged, nil
}

func (m *Manager) List(ctx context.Context) ([]model.Booking, error) {
	return m.store.ListBookings(ctx)
}

func (m *Manager) Get(ctx context.Context, id string) (*model.Booking, error) {
	b, err := m.store.BookingByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return b, err
}

func (m *Manager) cancelURL(token string) string {
	return m.baseURL + "/api/bookings/cancel/" + token
}

func (m *Manager) send(to, subject, body string) {
	if err := m.mailer.Send(to, subject, body); err != nil {
		m.metrics.MailFailed.Inc()
		m.logger.Error("send mail", zap.String("to", to), zap.Error(err))
		return
	}
	m.metrics.MailSent.Inc()
}
