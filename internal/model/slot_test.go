package model

import (
	"testing"
	"time"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"10:00", "10:00:00", false},
		{"10:00:00", "10:00:00", false},
		{"9:30", "09:30:00", false},
		{"23:59:59", "23:59:59", false},
		{"00:00", "00:00:00", false},
		{"", "", true},
		{"10", "", true},
		{"25:00", "", true},
		{"10:60", "", true},
		{"10:00:61", "", true},
		{"aa:bb", "", true},
		{"10.30", "", true},
		{"10:00 PM", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTime(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeTime(%q) = %q, expected error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeTime(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeTime(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("2024-06-01")
	if err != nil {
		t.Fatalf("NormalizeDate: %v", err)
	}
	if got != "2024-06-01" {
		t.Errorf("got %q", got)
	}

	for _, bad := range []string{"", "2024-13-01", "2024-06-32", "01-06-2024", "2024/06/01", "yesterday"} {
		if _, err := NormalizeDate(bad); err == nil {
			t.Errorf("NormalizeDate(%q): expected error", bad)
		}
	}
}

func TestInConflictWindow(t *testing.T) {
	base, err := CombineDateTime("2024-06-01", "10:00:00")
	if err != nil {
		t.Fatalf("combine: %v", err)
	}

	tests := []struct {
		name string
		diff time.Duration
		want bool
	}{
		{"same instant", 0, true},
		{"90 minutes later", 90 * time.Minute, true},
		{"90 minutes earlier", -90 * time.Minute, true},
		{"just under two hours", 2*time.Hour - time.Second, true},
		{"exactly two hours", 2 * time.Hour, false},
		{"two and a half hours", 150 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InConflictWindow(base, base.Add(tt.diff)); got != tt.want {
				t.Errorf("InConflictWindow diff=%v: got %v, want %v", tt.diff, got, tt.want)
			}
		})
	}
}

func TestStartsAt(t *testing.T) {
	b := &Booking{Date: "2024-06-01", Time: "12:30:00"}
	at, err := b.StartsAt()
	if err != nil {
		t.Fatalf("StartsAt: %v", err)
	}
	want := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", at, want)
	}

	b = &Booking{Date: "2024-06-01", Time: "bogus"}
	if _, err := b.StartsAt(); err == nil {
		t.Error("expected error for malformed time")
	}
}
