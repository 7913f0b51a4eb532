package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/questlearn-backend/internal/data/repos/testutil"
)

type fakeResyncer struct{ calls atomic.Int32 }

func (f *fakeResyncer) Resync(ctx context.Context) error {
	f.calls.Add(1)
	return nil
}

type fakeWarmer struct{ err error }

func (f fakeWarmer) WarmCache(ctx context.Context) error { return f.err }

func TestNewSchedulerRejectsBadJobs(t *testing.T) {
	log := testutil.Logger(t)
	noop := func(context.Context) error { return nil }

	_, err := NewScheduler(log, []Job{{Name: "x", Every: 0, Run: noop}})
	assert.Error(t, err)
	_, err = NewScheduler(log, []Job{{Name: "", Every: time.Minute, Run: noop}})
	assert.Error(t, err)
	_, err = NewScheduler(log, []Job{
		{Name: "x", Every: time.Minute, Run: noop},
		{Name: "x", Every: time.Hour, Run: noop},
	})
	assert.Error(t, err)
}

func TestRunNow(t *testing.T) {
	log := testutil.Logger(t)
	r := &fakeResyncer{}
	boom := errors.New("boom")
	s, err := NewScheduler(log, []Job{
		LeaderboardResync(r, time.Hour),
		CatalogCacheWarm(fakeWarmer{err: boom}, time.Hour),
		{Name: "panics", Every: time.Hour, Run: func(context.Context) error { panic("bad") }},
	})
	require.NoError(t, err)

	require.NoError(t, s.RunNow(JobLeaderboardResync))
	assert.EqualValues(t, 1, r.calls.Load())
	assert.ErrorIs(t, s.RunNow(JobCatalogCacheWarm), boom)
	assert.ErrorContains(t, s.RunNow("panics"), "panicked")
	assert.Error(t, s.RunNow("missing"))
}

func TestStartRunsImmediately(t *testing.T) {
	log := testutil.Logger(t)
	ran := make(chan struct{}, 1)
	s, err := NewScheduler(log, []Job{{
		Name:  "tick",
		Every: time.Hour,
		Run: func(ctx context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	}})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run after Start")
	}
}

func TestStopCancelsRunningJob(t *testing.T) {
	log := testutil.Logger(t)
	s, err := NewScheduler(log, []Job{{
		Name:  "wait",
		Every: time.Hour,
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.RunNow("wait") }()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("job ignored cancellation")
	}
}
