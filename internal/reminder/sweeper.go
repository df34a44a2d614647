package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/events"
)

// ErrInvalidInterval is returned for a sweep interval that is not positive.
var ErrInvalidInterval = errors.New("reminder interval must be positive")

// DueCounter counts due review progress per session.
// store.ProgressStore satisfies it.
type DueCounter interface {
	CountDue(ctx context.Context, now time.Time) (map[uuid.UUID]int, error)
}

// Sweeper runs the due-review sweep on a schedule.
type Sweeper struct {
	counter  DueCounter
	emitter  events.EventEmitter
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu        sync.Mutex
	scheduler *gocron.Scheduler
	cancel    context.CancelFunc
}

// NewSweeper creates a Sweeper that runs every interval.
func NewSweeper(
	counter DueCounter,
	emitter events.EventEmitter,
	interval time.Duration,
	logger *slog.Logger,
) (*Sweeper, error) {
	if counter == nil {
		return nil, errors.New("due counter cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("event emitter cannot be nil")
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		counter:  counter,
		emitter:  emitter,
		interval: interval,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "reminder_sweeper")),
	}, nil
}

// SetClock replaces time.Now. It must be called before Start.
func (s *Sweeper) SetClock(now func() time.Time) {
	s.now = now
}

// Sweep emits one review.due event per session with due cards and returns
// how many were emitted. Emission failures are logged and skipped.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := s.now().UTC()

	counts, err := s.counter.CountDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to count due reviews: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(counts))
	for id, n := range counts {
		if n > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	emitted := 0
	for _, id := range ids {
		event, err := events.NewEvent(events.TypeReviewDue, id, events.ReviewDuePayload{DueCount: counts[id]})
		if err != nil {
			return emitted, fmt.Errorf("failed to build reminder event: %w", err)
		}
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			s.logger.Warn("failed to emit reminder",
				slog.String("session_id", id.String()),
				slog.String("error", err.Error()))
			continue
		}
		emitted++
	}

	s.logger.Debug("reminder sweep finished",
		slog.Int("sessions_due", len(ids)),
		slog.Int("reminders_emitted", emitted))

	return emitted, nil
}

// Start schedules the sweep and returns immediately. The first sweep runs
// right away. Sweeps never overlap.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return errors.New("reminder sweeper already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(s.interval).Do(func() {
		if _, err := s.Sweep(runCtx); err != nil && runCtx.Err() == nil {
			s.logger.Error("reminder sweep failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}

	scheduler.StartAsync()
	s.scheduler = scheduler
	s.cancel = cancel

	s.logger.Info("reminder sweeper started", slog.Duration("interval", s.interval))
	return nil
}

// Stop cancels a running sweep and stops the schedule.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return
	}
	s.cancel()
	s.scheduler.Stop()
	s.scheduler = nil
	s.logger.Info("reminder sweeper stopped")
}
