package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finrag/internal/config"
	"finrag/internal/extract"
	"finrag/internal/store"
)

// Orchestrator manages the report-pair pipeline: a bounded queue, a
// worker pool and the shared document operations.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	ops       *Ops
	extractor *extract.Extractor
	topics    []extract.Topic
	log       *slog.Logger
	cfg       config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator wires the pipeline together.
func NewOrchestrator(cfg config.Config, ops *Ops, extractor *extract.Extractor, topics []extract.Topic, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		ops:       ops,
		extractor: extractor,
		topics:    topics,
		log:       log,
		cfg:       cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.ops, o.extractor, o.topics, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Ops returns the shared document operations for direct use by API
// handlers.
func (o *Orchestrator) Ops() *Ops {
	return o.ops
}

// Store returns the artifact store.
func (o *Orchestrator) Store() *store.Store {
	return o.ops.Store
}
