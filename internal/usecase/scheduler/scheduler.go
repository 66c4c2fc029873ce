package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSchedule runs the refresh tasks twice an hour
const DefaultSchedule = "@every 30m"

// DefaultTimeout bounds a single task run
const DefaultTimeout = 2 * time.Minute

// Task is a named unit of background work
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler runs tasks on cron schedules. A task never overlaps with itself;
// a tick that arrives while the previous run is still going is skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  logrus.FieldLogger
	timeout time.Duration

	mu     sync.Mutex
	tasks  []Task
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler. Task runs get a context bounded by timeout
// (DefaultTimeout when timeout <= 0).
func New(logger logrus.FieldLogger, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registers task on spec, a standard five-field cron expression or a
// descriptor such as "@every 30m"
func (s *Scheduler) Add(spec string, task Task) error {
	if task.Run == nil {
		return fmt.Errorf("task %q has no run function", task.Name)
	}
	if _, err := s.cron.AddFunc(spec, func() { s.run(s.ctx, task) }); err != nil {
		return fmt.Errorf("invalid schedule %q for task %q: %w", spec, task.Name, err)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
	return nil
}

// RunNow runs every registered task once, in registration order, and waits for them
func (s *Scheduler) RunNow(ctx context.Context) {
	s.mu.Lock()
	tasks := append([]Task(nil), s.tasks...)
	s.mu.Unlock()

	for _, task := range tasks {
		s.run(ctx, task)
	}
}

// Start begins running tasks on their schedules
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling, cancels running tasks and waits for them to return
// or for ctx to end
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out with tasks still running")
	}
}

func (s *Scheduler) run(ctx context.Context, task Task) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log := s.logger.WithField("task", task.Name)
	start := time.Now()
	if err := task.Run(ctx); err != nil {
		log.WithError(err).Error("task failed")
		return
	}
	log.WithField("duration", time.Since(start).String()).Info("task completed")
}

// cronLogger adapts logrus to cron.Logger
type cronLogger struct {
	logger logrus.FieldLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Debug("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithError(err).WithFields(fields(keysAndValues)).Error("cron: " + msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
