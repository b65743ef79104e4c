package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"salon-booking-api/internal/model"
	"salon-booking-api/internal/store"
)

func TestSweeperRunsImmediately(t *testing.T) {
	m, st, _ := newTestManager(t)
	st.bookings["expired"] = &model.Booking{
		ID: "expired", Date: "2024-04-01", Time: "10:00:00",
		State:     model.StateDeleted,
		CreatedAt: testClock.Add(-31 * 24 * time.Hour),
	}

	s := NewSweeper(m, time.Hour, m.logger)
	s.Start(context.Background())
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := st.BookingByID(context.Background(), "expired"); errors.Is(err, store.ErrNotFound) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("sweeper did not purge the expired booking on startup")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSweeperStops(t *testing.T) {
	m, _, _ := newTestManager(t)
	s := NewSweeper(m, 10*time.Millisecond, m.logger)
	s.Start(context.Background())

	time.Sleep(50 * time.Millisecond)
	s.Stop()
	// a second Stop would panic on the closed channel; one Stop per sweeper
}

func TestSweeperStopsOnContextCancel(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := NewSweeper(m, time.Hour, m.logger)
	s.Start(ctx)
	cancel()
	// the run loop observes ctx.Done and exits; nothing to assert beyond
	// the absence of a deadlock
	time.Sleep(20 * time.Millisecond)
}
