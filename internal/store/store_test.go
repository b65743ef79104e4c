package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"salon-booking-api/internal/auth"
	"salon-booking-api/internal/model"
	"salon-booking-api/internal/store"
)

func setup(t *testing.T) *store.Store {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)
	return store.New(pool)
}

func newBooking(t *testing.T, date, tm string) *model.Booking {
	t.Helper()
	token, err := auth.OpaqueToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return &model.Booking{
		ID:          uuid.New().String(),
		Name:        "Test Client",
		Email:       fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8]),
		Phone:       "+491234",
		Service:     "haircut",
		Date:        date,
		Time:        tm,
		State:       model.StateValid,
		CancelToken: token,
		CreatedAt:   time.Now().UTC(),
	}
}

// a distinct date per test keeps the conflict checks independent
func freshDate(offsetDays int) string {
	return time.Now().AddDate(2, 0, offsetDays).Format("2006-01-02")
}

func TestCreateBookingConflict(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	date := freshDate(0)

	first := newBooking(t, date, "10:00:00")
	if err := st.CreateBooking(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { st.DeleteBooking(ctx, first.ID) })

	within := newBooking(t, date, "11:30:00")
	if err := st.CreateBooking(ctx, within); !errors.Is(err, store.ErrConflict) {
		st.DeleteBooking(ctx, within.ID)
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	outside := newBooking(t, date, "12:30:00")
	if err := st.CreateBooking(ctx, outside); err != nil {
		t.Fatalf("create outside window: %v", err)
	}
	t.Cleanup(func() { st.DeleteBooking(ctx, outside.ID) })
}

func TestCreateBookingConcurrent(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	date := freshDate(1)

	// two racing creates for conflicting slots: exactly one may win
	var wg sync.WaitGroup
	errs := make([]error, 2)
	ids := []string{uuid.New().String(), uuid.New().String()}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := newBooking(t, date, "10:00:00")
			b.ID = ids[i]
			b.Time = fmt.Sprintf("10:%02d:00", i*30)
			errs[i] = st.CreateBooking(ctx, b)
		}(i)
	}
	wg.Wait()
	t.Cleanup(func() {
		for _, id := range ids {
			st.DeleteBooking(ctx, id)
		}
	})

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, store.ErrConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d creates committed, want exactly 1", ok)
	}
}

func TestCancelTokenLifecycle(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	b := newBooking(t, freshDate(2), "09:00:00")
	if err := st.CreateBooking(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { st.DeleteBooking(ctx, b.ID) })

	got, err := st.CancelBookingByToken(ctx, b.CancelToken)
	if err != nil {
		t.Fatalf("cancel by token: %v", err)
	}
	if got.ID != b.ID || got.State != model.StateDeleted {
		t.Errorf("cancelled booking: id=%s state=%q", got.ID, got.State)
	}

	// the token stops resolving after the first use
	if _, err := st.CancelBookingByToken(ctx, b.CancelToken); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("token resolved after deletion: %v", err)
	}

	got, err = st.BookingByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("lookup by id: %v", err)
	}
	if got.State != model.StateDeleted {
		t.Errorf("state = %q", got.State)
	}

	// staff deletion by id still works on an already-deleted row
	if _, err := st.MarkBookingDeleted(ctx, b.ID); err != nil {
		t.Errorf("re-delete by id: %v", err)
	}
	if _, err := st.MarkBookingDeleted(ctx, uuid.New().String()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("delete unknown id: %v", err)
	}
}

func TestCancelTokenConcurrent(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	b := newBooking(t, freshDate(4), "09:00:00")
	if err := st.CreateBooking(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { st.DeleteBooking(ctx, b.ID) })

	// two racing uses of the same token: the single-statement claim
	// lets exactly one through
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = st.CancelBookingByToken(ctx, b.CancelToken)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d cancels succeeded, want exactly 1", ok)
	}
}

func TestDeleteBookingIdempotent(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	b := newBooking(t, freshDate(3), "15:00:00")
	if err := st.CreateBooking(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}

	removed, err := st.DeleteBooking(ctx, b.ID)
	if err != nil || !removed {
		t.Fatalf("first delete: removed=%v err=%v", removed, err)
	}
	removed, err = st.DeleteBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if removed {
		t.Error("second delete reported a removal")
	}
}
