package sleep

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// ErrUnavailable is returned when a fetch is simulated as failed.
var ErrUnavailable = errors.New("sleep data temporarily unavailable")

// History window sizes.
const (
	dailyDays   = 14
	weeklyWeeks = 7
)

// defaultFailureRate is the share of fetches that simulate an upstream
// failure.
const defaultFailureRate = 0.1

// DailySample is one night of tracked sleep.
type DailySample struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	TotalHours float64 `json:"total_hours"`
	DeepHours  float64 `json:"deep_hours"`
	RemHours   float64 `json:"rem_hours"`
	LightHours float64 `json:"light_hours"`
	Awakenings int     `json:"awakenings"`
	Quality    int     `json:"quality"` // 0..100
}

// WeeklySample aggregates one week of tracked sleep.
type WeeklySample struct {
	WeekStart   string  `json:"week_start"` // YYYY-MM-DD, Monday
	AvgHours    float64 `json:"avg_hours"`
	AvgQuality  int     `json:"avg_quality"`
	TotalNights int     `json:"total_nights"`
}

// Service serves generated sleep-tracking history.
//
// There is no tracker hardware behind this; samples are synthesized
// deterministically from the seed so repeated fetches within a process
// agree with each other. A configurable share of fetches fails to mimic
// a flaky upstream.
type Service struct {
	rngMu       sync.Mutex
	rng         *rand.Rand // guarded by rngMu; rand.Rand is not concurrency-safe
	now         func() time.Time
	delay       time.Duration
	failureRate float64
}

// Option configures a Service.
type Option func(*Service)

// WithDelay sets a simulated fetch latency.
func WithDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// WithFailureRate overrides the simulated failure share (0 disables).
func WithFailureRate(rate float64) Option {
	return func(s *Service) { s.failureRate = rate }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSeed fixes the random source.
func WithSeed(seed int64) Option {
	return func(s *Service) { s.rng = rand.New(rand.NewSource(seed)) }
}

// NewService creates a sleep history service.
func NewService(opts ...Option) *Service {
	s := &Service{
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
		failureRate: defaultFailureRate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Daily returns the last 14 nights, oldest first.
func (s *Service) Daily(ctx context.Context) ([]DailySample, error) {
	if err := s.simulateFetch(ctx); err != nil {
		return nil, err
	}

	today := s.now()
	samples := make([]DailySample, 0, dailyDays)
	for i := dailyDays; i > 0; i-- {
		day := today.AddDate(0, 0, -i)
		samples = append(samples, s.nightFor(day))
	}
	return samples, nil
}

// Weekly returns the last 7 weeks aggregated, oldest first.
func (s *Service) Weekly(ctx context.Context) ([]WeeklySample, error) {
	if err := s.simulateFetch(ctx); err != nil {
		return nil, err
	}

	monday := startOfWeek(s.now())
	samples := make([]WeeklySample, 0, weeklyWeeks)
	for i := weeklyWeeks; i > 0; i-- {
		start := monday.AddDate(0, 0, -7*i)

		var hours float64
		var quality int
		for d := 0; d < 7; d++ {
			night := s.nightFor(start.AddDate(0, 0, d))
			hours += night.TotalHours
			quality += night.Quality
		}

		samples = append(samples, WeeklySample{
			WeekStart:   start.Format(time.DateOnly),
			AvgHours:    round1(hours / 7),
			AvgQuality:  quality / 7,
			TotalNights: 7,
		})
	}
	return samples, nil
}

// simulateFetch applies the configured latency and failure rate.
func (s *Service) simulateFetch(ctx context.Context) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.failureRate > 0 {
		s.rngMu.Lock()
		roll := s.rng.Float64()
		s.rngMu.Unlock()
		if roll < s.failureRate {
			return ErrUnavailable
		}
	}
	return nil
}

// nightFor synthesizes one night keyed on the calendar date, so the same
// date always yields the same sample.
func (s *Service) nightFor(day time.Time) DailySample {
	rng := rand.New(rand.NewSource(int64(day.Year())*10000 + int64(day.YearDay())))

	total := 5.5 + rng.Float64()*3.5 // 5.5..9.0 hours
	deep := total * (0.15 + rng.Float64()*0.15)
	rem := total * (0.20 + rng.Float64()*0.10)
	light := total - deep - rem

	return DailySample{
		Date:       day.Format(time.DateOnly),
		TotalHours: round1(total),
		DeepHours:  round1(deep),
		RemHours:   round1(rem),
		LightHours: round1(light),
		Awakenings: rng.Intn(4),
		Quality:    55 + rng.Intn(41), // 55..95
	}
}

func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
