package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestScheduler_isDue(t *testing.T) {
	location := time.UTC

	type fields struct {
		deliveredDay string
	}
	type args struct {
		now time.Time
	}
	tests := []struct {
		name   string
		fields fields
		args   args
		want   bool
	}{
		{
			name: "due at the configured minute",
			args: args{
				now: time.Date(2025, time.February, 18, 7, 0, 30, 0, location),
			},
			want: true,
		},
		{
			name: "not due one minute later",
			args: args{
				now: time.Date(2025, time.February, 18, 7, 1, 0, 0, location),
			},
			want: false,
		},
		{
			name: "not due on a different hour",
			args: args{
				now: time.Date(2025, time.February, 18, 8, 0, 0, 0, location),
			},
			want: false,
		},
		{
			name: "not due when the day was already delivered",
			fields: fields{
				deliveredDay: "2025-02-18",
			},
			args: args{
				now: time.Date(2025, time.February, 18, 7, 0, 30, 0, location),
			},
			want: false,
		},
		{
			name: "due again after the day rolls over",
			fields: fields{
				deliveredDay: "2025-02-18",
			},
			args: args{
				now: time.Date(2025, time.February, 19, 7, 0, 30, 0, location),
			},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(clockwork.NewFakeClock(), location, 7, 0)
			s.deliveredDay = tt.fields.deliveredDay
			if got := s.isDue(tt.args.now); got != tt.want {
				t.Errorf("isDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestScheduler_Run_atMostOncePerDay walks a fake clock through the trigger
// minute with a poll interval short enough to observe it twice. The job must
// run exactly once for the day and once more after the next day's rollover.
func TestScheduler_Run_atMostOncePerDay(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2025, time.February, 18, 6, 59, 10, 0, time.UTC))
	s := New(fc, time.UTC, 7, 0).WithIntervals(20*time.Second, 61*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx, func() { runs.Add(1) })
	}()

	advance := func(d time.Duration) {
		fc.BlockUntil(1)
		fc.Advance(d)
	}

	// 06:59:30, 06:59:50, 07:00:10 (due, job runs, cooldown starts)
	advance(20 * time.Second)
	advance(20 * time.Second)
	advance(20 * time.Second)
	// cooldown carries the loop to 07:01:11, past the trigger minute
	advance(61 * time.Second)
	// two more polls inside the same day stay quiet
	advance(20 * time.Second)
	advance(20 * time.Second)

	fc.BlockUntil(1)
	if got := runs.Load(); got != 1 {
		t.Fatalf("Run() executed the job %d times in one day, want 1", got)
	}

	// Jump to 07:00:30 the next day: the delivered day token resets by
	// date comparison and the job runs again.
	fc.Advance(23*time.Hour + 58*time.Minute + 39*time.Second)

	fc.BlockUntil(1)
	if got := runs.Load(); got != 2 {
		t.Fatalf("Run() executed the job %d times across two days, want 2", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after context cancellation")
	}
}

// TestScheduler_Run_marksDayOnJobFailure ensures the delivered day is
// recorded even when the job does nothing useful (empty day, failed
// delivery): the window must not reopen later the same day.
func TestScheduler_Run_marksDayOnJobFailure(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2025, time.February, 18, 6, 59, 50, 0, time.UTC))
	s := New(fc, time.UTC, 7, 0).WithIntervals(20*time.Second, 61*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	go s.Run(ctx, func() { runs.Add(1) }) // job that delivers nothing

	advance := func(d time.Duration) {
		fc.BlockUntil(1)
		fc.Advance(d)
	}

	advance(20 * time.Second) // 07:00:10, due
	advance(61 * time.Second) // cooldown to 07:01:11
	advance(20 * time.Second)

	fc.BlockUntil(1)
	if got := runs.Load(); got != 1 {
		t.Fatalf("Run() executed the job %d times, want 1", got)
	}
	if s.deliveredDay != "2025-02-18" {
		t.Errorf("Run() deliveredDay = %q, want %q", s.deliveredDay, "2025-02-18")
	}
}
