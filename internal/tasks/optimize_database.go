package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// OptimizeDatabaseQueue is the queue name for store maintenance.
const OptimizeDatabaseQueue = "optimize_database"

// DatabaseOptimizer provides the ability to run store maintenance.
type DatabaseOptimizer interface {
	Optimize(ctx context.Context) error
}

// OptimizeDatabaseTask refreshes the catalog store's query planner statistics.
type OptimizeDatabaseTask struct{}

// Config returns the queue configuration for maintenance tasks.
func (t OptimizeDatabaseTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        OptimizeDatabaseQueue,
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// OptimizeDatabaseProcessor creates a processor function for OptimizeDatabaseTask.
func OptimizeDatabaseProcessor(optimizer DatabaseOptimizer) backlite.QueueProcessor[OptimizeDatabaseTask] {
	return func(ctx context.Context, task OptimizeDatabaseTask) error {
		if optimizer == nil {
			return fmt.Errorf("database optimizer not configured")
		}

		start := time.Now()
		if err := optimizer.Optimize(ctx); err != nil {
			return fmt.Errorf("optimize database: %w", err)
		}

		log.Printf("[TASK] Database optimized in %s", time.Since(start).Round(time.Millisecond))
		return nil
	}
}

// NewOptimizeDatabaseQueue creates a backlite queue for maintenance tasks.
func NewOptimizeDatabaseQueue(optimizer DatabaseOptimizer) backlite.Queue {
	return backlite.NewQueue(OptimizeDatabaseProcessor(optimizer))
}
