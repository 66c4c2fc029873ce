package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_RejectsInvalidSchedule(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := New(logger, 0)

	err := s.Add("every half hour", Task{Name: "posts", Run: func(ctx context.Context) error { return nil }})
	assert.ErrorContains(t, err, `invalid schedule "every half hour"`)

	err = s.Add(DefaultSchedule, Task{Name: "posts"})
	assert.ErrorContains(t, err, "has no run function")
}

func TestRunNow_RunsTasksInOrderAndLogsFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := New(logger, time.Second)

	var order []string
	require.NoError(t, s.Add(DefaultSchedule, Task{Name: "posts", Run: func(ctx context.Context) error {
		order = append(order, "posts")
		return errors.New("feed unavailable")
	}}))
	require.NoError(t, s.Add(DefaultSchedule, Task{Name: "news", Run: func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		order = append(order, "news")
		return nil
	}}))

	s.RunNow(context.Background())

	assert.Equal(t, []string{"posts", "news"}, order)

	var failed, completed int
	for _, e := range hook.AllEntries() {
		switch {
		case e.Message == "task failed" && e.Level == logrus.ErrorLevel:
			assert.Equal(t, "posts", e.Data["task"])
			failed++
		case e.Message == "task completed":
			assert.Equal(t, "news", e.Data["task"])
			completed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, completed)
}

func TestStart_RunsOnScheduleWithoutOverlap(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := New(logger, 10*time.Second)

	var runs, running, overlaps int32
	require.NoError(t, s.Add("@every 1s", Task{Name: "slow", Run: func(ctx context.Context) error {
		if atomic.AddInt32(&running, 1) > 1 {
			atomic.AddInt32(&overlaps, 1)
		}
		defer atomic.AddInt32(&running, -1)
		atomic.AddInt32(&runs, 1)
		select {
		case <-time.After(1500 * time.Millisecond):
		case <-ctx.Done():
		}
		return nil
	}}))

	s.Start()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, 6*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Stop(ctx)

	assert.Zero(t, atomic.LoadInt32(&overlaps))
}

func TestStop_CancelsRunningTask(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := New(logger, time.Minute)

	started := make(chan struct{})
	var cancelled atomic.Bool
	require.NoError(t, s.Add("@every 1s", Task{Name: "blocking", Run: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}}))

	s.Start()
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("task never started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	s.Stop(ctx)

	assert.True(t, cancelled.Load())
}

func TestFields(t *testing.T) {
	f := fields([]interface{}{"entry", 3, "now", "x", "dangling"})
	assert.Equal(t, logrus.Fields{"entry": 3, "now": "x"}, f)
}
