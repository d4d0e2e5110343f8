package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/tasks"
)

// enqueueTimeout bounds a single scheduled enqueue.
const enqueueTimeout = 30 * time.Second

// Enqueuer persists a task for the worker pool.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// MaintenanceScheduler periodically enqueues store maintenance tasks.
type MaintenanceScheduler struct {
	enqueuer Enqueuer
	schedule string

	cron       *cron.Cron
	parsed     cron.Schedule
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a new scheduler instance
func NewMaintenanceScheduler(enqueuer Enqueuer, schedule string) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		enqueuer: enqueuer,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(config.CronParser)),
	}
}

// Start registers the maintenance job and starts the cron loop. The scheduler
// stops on its own when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	sched, err := config.CronParser.Parse(s.schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.parsed = sched
	s.entryID = s.cron.Schedule(sched, cron.FuncJob(func() {
		if err := s.enqueue(cancelCtx); err != nil {
			log.Printf("Maintenance scheduler: %v", err)
		}
	}))

	s.cron.Start()
	s.isRunning = true

	log.Printf("Maintenance scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, sched.Next(time.Now()))

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	log.Printf("Maintenance scheduler: stopped")
}

// RunNow enqueues a maintenance task immediately.
func (s *MaintenanceScheduler) RunNow(ctx context.Context) error {
	return s.enqueue(ctx)
}

// IsRunning returns whether the scheduler is active
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next maintenance run will occur
func (s *MaintenanceScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.parsed.Next(time.Now())
	return &next
}

func (s *MaintenanceScheduler) enqueue(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, enqueueTimeout)
	defer cancel()

	id, err := s.enqueuer.Enqueue(ctx, tasks.OptimizeDatabaseTask{})
	if err != nil {
		return fmt.Errorf("enqueue maintenance: %w", err)
	}
	log.Printf("Maintenance scheduler: enqueued %s task %s", tasks.OptimizeDatabaseQueue, id)
	return nil
}
