// Package poll owns the fixed-interval fetch loops. Pollers are
// fire-and-forget from the renderer's perspective: a fetch failure is logged
// and absorbed, and the missed tick is corrected by the next one because
// reconciliation is stateless.
package poll

import (
	"context"
	"log"
	"time"

	"github.com/unarmedpuppy/command-grid/engine/bridge"
	"github.com/unarmedpuppy/command-grid/engine/core"
)

// Default poll cadences.
const (
	DefaultJobInterval  = 2 * time.Second
	DefaultTaskInterval = 30 * time.Second
)

// JobLister fetches the current job list.
type JobLister interface {
	List(ctx context.Context) ([]core.Job, error)
}

// TaskLister fetches the current task list.
type TaskLister interface {
	List(ctx context.Context, status core.TaskStatus) ([]core.Task, error)
}

// JobPoller fetches jobs on an interval and emits a SyncJobs command
// carrying the full snapshot.
type JobPoller struct {
	Jobs     JobLister
	Bus      *bridge.Bus
	Interval time.Duration
}

// Run polls until ctx is cancelled. Cancellation stops scheduling; a fetch
// already in flight completes and its snapshot is discarded.
func (p *JobPoller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultJobInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *JobPoller) tick(ctx context.Context) {
	jobs, err := p.Jobs.List(ctx)
	if err != nil {
		log.Printf("poll: job list fetch failed: %v", err)
		return
	}
	if ctx.Err() != nil {
		return
	}
	p.Bus.Send(bridge.SyncJobs{Jobs: jobs})
}

// TaskPoller fetches tasks on an interval and emits a SyncTasks command for
// the classifier.
type TaskPoller struct {
	Tasks    TaskLister
	Bus      *bridge.Bus
	Status   core.TaskStatus // optional filter
	Interval time.Duration
}

// Run polls until ctx is cancelled.
func (p *TaskPoller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultTaskInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *TaskPoller) tick(ctx context.Context) {
	tasks, err := p.Tasks.List(ctx, p.Status)
	if err != nil {
		log.Printf("poll: task list fetch failed: %v", err)
		return
	}
	if ctx.Err() != nil {
		return
	}
	p.Bus.Send(bridge.SyncTasks{Tasks: tasks})
}
