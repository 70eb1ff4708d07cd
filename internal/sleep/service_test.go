package sleep

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	}
}

func TestDaily(t *testing.T) {
	svc := NewService(WithFailureRate(0), WithClock(fixedClock()))

	samples, err := svc.Daily(context.Background())
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(samples) != 14 {
		t.Fatalf("expected 14 samples, got %d", len(samples))
	}

	// Oldest first, ending yesterday.
	if samples[0].Date != "2026-08-18" {
		t.Errorf("first date = %s, want 2026-08-18", samples[0].Date)
	}
	if samples[13].Date != "2026-08-31" {
		t.Errorf("last date = %s, want 2026-08-31", samples[13].Date)
	}

	for _, s := range samples {
		if s.TotalHours < 5.5 || s.TotalHours > 9.0 {
			t.Errorf("%s: total hours %.1f out of range", s.Date, s.TotalHours)
		}
		if s.Quality < 55 || s.Quality > 95 {
			t.Errorf("%s: quality %d out of range", s.Date, s.Quality)
		}
		if s.Awakenings < 0 || s.Awakenings > 3 {
			t.Errorf("%s: awakenings %d out of range", s.Date, s.Awakenings)
		}
		if s.DeepHours+s.RemHours > s.TotalHours {
			t.Errorf("%s: stages exceed total", s.Date)
		}
	}
}

func TestDailyDeterministicPerDate(t *testing.T) {
	svc := NewService(WithFailureRate(0), WithClock(fixedClock()))

	first, err := svc.Daily(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Daily(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("sample %d differs between fetches: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestWeekly(t *testing.T) {
	svc := NewService(WithFailureRate(0), WithClock(fixedClock()))

	samples, err := svc.Weekly(context.Background())
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}
	if len(samples) != 7 {
		t.Fatalf("expected 7 samples, got %d", len(samples))
	}

	// 2026-09-01 is a Tuesday; the newest completed week starts the
	// Monday before, 2026-08-24.
	if samples[6].WeekStart != "2026-08-24" {
		t.Errorf("last week start = %s, want 2026-08-24", samples[6].WeekStart)
	}
	if samples[0].WeekStart != "2026-07-13" {
		t.Errorf("first week start = %s, want 2026-07-13", samples[0].WeekStart)
	}

	for _, s := range samples {
		if s.TotalNights != 7 {
			t.Errorf("%s: nights = %d, want 7", s.WeekStart, s.TotalNights)
		}
		if s.AvgHours < 5.5 || s.AvgHours > 9.0 {
			t.Errorf("%s: avg hours %.1f out of range", s.WeekStart, s.AvgHours)
		}
	}
}

func TestSimulatedFailure(t *testing.T) {
	svc := NewService(WithFailureRate(1), WithClock(fixedClock()))

	if _, err := svc.Daily(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if _, err := svc.Weekly(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestDelayHonoursContext(t *testing.T) {
	svc := NewService(WithFailureRate(0), WithDelay(time.Minute), WithClock(fixedClock()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := svc.Daily(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
}

func TestConcurrentFetches(t *testing.T) {
	// Failure rate above zero so every fetch rolls the shared source.
	// Run with -race to catch unsynchronized access.
	svc := NewService(WithFailureRate(0.5), WithClock(fixedClock()), WithSeed(1))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := svc.Daily(context.Background()); err != nil && !errors.Is(err, ErrUnavailable) {
					t.Errorf("Daily: %v", err)
				}
				if _, err := svc.Weekly(context.Background()); err != nil && !errors.Is(err, ErrUnavailable) {
					t.Errorf("Weekly: %v", err)
				}
			}
		}()
	}
	wg.Wait()
}
