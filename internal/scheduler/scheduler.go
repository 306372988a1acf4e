// Package scheduler runs periodic maintenance jobs.
//
// A tick is skipped while the previous run of the same job is still in
// flight on this instance, or while another instance holds the job lock.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"case-opening-platform/internal/core/ports"

	"github.com/rs/zerolog"
)

const (
	lockPrefix         = "job:"
	releaseTimeout     = 2 * time.Second
	defaultLockTTL     = 10 * time.Minute
	minimumJobInterval = time.Second
)

// Job is a named unit of periodic work.
type Job struct {
	Name     string
	Interval time.Duration
	// RunOnStart runs the job once right after Start instead of waiting a full interval.
	RunOnStart bool
	Run        func(ctx context.Context) error
}

type job struct {
	Job
	running atomic.Bool
}

// Scheduler drives registered jobs on tickers.
type Scheduler struct {
	lock    ports.JobLock
	lockTTL time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	jobs    []*job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// New creates a scheduler. A nil lock limits overlap protection to this process.
func New(lock ports.JobLock, lockTTL time.Duration, log zerolog.Logger) *Scheduler {
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	return &Scheduler{lock: lock, lockTTL: lockTTL, log: log}
}

// Register adds a job. Jobs registered after Start are ignored.
func (s *Scheduler) Register(j Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.log.Warn().Str("job", j.Name).Msg("job registered after start, ignoring")
		return
	}
	if j.Interval < minimumJobInterval {
		j.Interval = minimumJobInterval
	}
	s.jobs = append(s.jobs, &job{Job: j})
}

// Start launches one worker per job. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.worker(ctx, j)
	}
	s.log.Info().Int("jobs", len(s.jobs)).Msg("scheduler started")
}

// Stop cancels running jobs and waits for the workers to exit or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info().Msg("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) worker(ctx context.Context, j *job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	if j.RunOnStart {
		s.tick(ctx, j)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Detached so an overlapping tick reaches the skip check.
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.tick(ctx, j)
			}()
		}
	}
}

// tick runs the job once unless a previous run is still active. It reports whether the job ran.
func (s *Scheduler) tick(ctx context.Context, j *job) bool {
	if !j.running.CompareAndSwap(false, true) {
		s.log.Debug().Str("job", j.Name).Msg("previous run still active, skipping tick")
		return false
	}
	defer j.running.Store(false)

	if s.lock != nil {
		token, err := s.lock.Acquire(ctx, lockPrefix+j.Name, s.lockTTL)
		if err != nil {
			s.log.Warn().Err(err).Str("job", j.Name).Msg("job lock unavailable, skipping tick")
			return false
		}
		if token == "" {
			s.log.Debug().Str("job", j.Name).Msg("job running on another instance, skipping tick")
			return false
		}
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
			defer cancel()
			if err := s.lock.Release(releaseCtx, lockPrefix+j.Name, token); err != nil {
				s.log.Warn().Err(err).Str("job", j.Name).Msg("failed to release job lock")
			}
		}()
	}

	// The run must not outlive the lock it holds.
	runCtx, cancel := context.WithTimeout(ctx, s.lockTTL)
	defer cancel()

	start := time.Now()
	err := j.Run(runCtx)
	switch {
	case err == nil:
		s.log.Info().Str("job", j.Name).Dur("took", time.Since(start)).Msg("job finished")
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		s.log.Info().Str("job", j.Name).Msg("job interrupted by shutdown")
	default:
		s.log.Error().Err(err).Str("job", j.Name).Dur("took", time.Since(start)).Msg("job failed")
	}
	return true
}
