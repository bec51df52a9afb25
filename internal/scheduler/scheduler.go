// Package scheduler runs the portal's periodic jobs: the deadline sweeps and
// the notification dispatcher.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const (
	JobAutoCancel     = "auto-cancel"
	JobWarnings       = "deadline-warnings"
	JobUrgentWarnings = "urgent-deadline-warnings"
	JobDispatch       = "dispatch-notifications"
)

// tickLeaseTTL bounds how far apart replica clocks may fire the same cron
// tick and still be deduplicated.
const tickLeaseTTL = 10 * time.Minute

// JobFunc returns a result that is logged and handed back to manual runs.
type JobFunc func(ctx context.Context) (interface{}, error)

type Job struct {
	Name string
	// Spec is a standard five-field cron expression. Empty means the job
	// can only be run manually.
	Spec string
	Run  JobFunc
}

type Scheduler struct {
	cron    *cron.Cron
	locker  Locker
	logger  logger.ILogger
	lockTTL time.Duration
	now     func() time.Time

	mu   sync.RWMutex
	jobs map[string]Job

	ctx    context.Context
	cancel context.CancelFunc
}

func New(loc *time.Location, locker Locker, log logger.ILogger, lockTTL time.Duration) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		locker:  locker,
		logger:  log,
		lockTTL: lockTTL,
		now:     time.Now,
		jobs:    map[string]Job{},
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("scheduler: job needs a name and a run func")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[job.Name]; dup {
		return fmt.Errorf("scheduler: job %q already registered", job.Name)
	}

	if job.Spec != "" {
		name := job.Name
		if _, err := s.cron.AddFunc(job.Spec, func() { s.tick(name) }); err != nil {
			return fmt.Errorf("scheduler: bad spec %q for %s: %w", job.Spec, job.Name, err)
		}
	}
	s.jobs[job.Name] = job
	return nil
}

// Jobs lists registered job names, sorted.
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.jobs))
	for n := range s.jobs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("SCHEDULER", "Scheduler started", map[string]interface{}{"jobs": s.Jobs()})
}

// Stop halts the triggers, cancels running jobs and waits for them until
// ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("SCHEDULER", "Stopped before running jobs finished", nil)
	}
}

// tick is the cron entry point; run logs the outcome.
func (s *Scheduler) tick(name string) {
	_, _ = s.run(s.ctx, name, false)
}

// RunNow runs a job immediately under the same lease as the scheduled run.
// A job already running elsewhere is a Conflict.
func (s *Scheduler) RunNow(ctx context.Context, name string) (interface{}, error) {
	return s.run(ctx, name, true)
}

// tickKey names one firing of a job. Replicas whose crons fire the same
// minute share it.
func (s *Scheduler) tickKey(name string) string {
	return name + "@" + s.now().UTC().Truncate(time.Minute).Format("2006-01-02T15:04Z")
}

// claimTick takes the per-tick key, which is never released and expires by
// ttl, so a replica whose trigger fires after another finished does not run
// the job a second time for the same tick.
func (s *Scheduler) claimTick(ctx context.Context, name string) bool {
	key := s.tickKey(name)
	_, acquired, err := s.locker.Acquire(ctx, key, tickLeaseTTL)
	if err != nil {
		s.logger.Warn("SCHEDULER", "Tick lease unavailable, running unguarded", map[string]interface{}{
			"job":   name,
			"error": err.Error(),
		})
		return true
	}
	if !acquired {
		s.logger.Info("SCHEDULER", "Job skipped, tick already ran", map[string]interface{}{
			"job":  name,
			"tick": key,
		})
	}
	return acquired
}

func (s *Scheduler) run(ctx context.Context, name string, manual bool) (result interface{}, err error) {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, apperror.NotFound("job %q not found", name)
	}

	release, acquired, lockErr := s.locker.Acquire(ctx, name, s.lockTTL)
	switch {
	case lockErr != nil:
		// Without the lease the row locks still keep the data consistent.
		s.logger.Warn("SCHEDULER", "Job lease unavailable, running unguarded", map[string]interface{}{
			"job":   name,
			"error": lockErr.Error(),
		})
	case !acquired:
		if manual {
			return nil, apperror.Conflict("job %q is already running", name)
		}
		s.logger.Info("SCHEDULER", "Job skipped, lease held elsewhere", map[string]interface{}{"job": name})
		return nil, nil
	default:
		defer release()
	}

	if !manual && !s.claimTick(ctx, name) {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", name, r)
		}
		elapsed := time.Since(start)
		metrics.SweepRunsTotal.WithLabelValues(name).Inc()
		metrics.SweepDuration.WithLabelValues(name).Observe(elapsed.Seconds())

		details := map[string]interface{}{
			"job":         name,
			"manual":      manual,
			"duration_ms": elapsed.Milliseconds(),
			"result":      result,
		}
		if err != nil {
			details["error"] = err.Error()
			s.logger.Error("SCHEDULER", "Job failed", details)
			return
		}
		s.logger.Info("SCHEDULER", "Job finished", details)
	}()

	return job.Run(ctx)
}
