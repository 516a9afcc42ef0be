// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs on cron schedules:
// translation sync, event log cleanup and GeoIP reloads.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mccastellazzob/motoclub/internal/translation"
)

// DefaultJobTimeout bounds a single job run.
const DefaultJobTimeout = 30 * time.Minute

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	schedule string
	entryID  cron.EntryID
	run      func()
	lastRun  time.Time
	lastErr  error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name     string
	Schedule string
	LastRun  time.Time
	LastErr  error
	NextRun  time.Time
}

// Scheduler wraps a cron instance. Overlapping runs of the same job are
// skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration

	mu   sync.RWMutex
	jobs map[string]*job
	base context.Context
}

// New creates a scheduler that logs through logger.
func New(logger *slog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
		logger:  logger,
		timeout: DefaultJobTimeout,
		jobs:    make(map[string]*job),
		base:    context.Background(),
	}
}

// Register adds a job. An empty schedule leaves the job disabled and is
// not an error.
func (s *Scheduler) Register(name, schedule string, fn JobFunc) error {
	if schedule == "" {
		s.logger.Info("scheduled job disabled", "job", name)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job %q already registered", name)
	}

	j := &job{name: name, schedule: schedule}
	j.run = func() { s.execute(j, fn) }

	id, err := s.cron.AddFunc(schedule, j.run)
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}
	j.entryID = id
	s.jobs[name] = j
	return nil
}

func (s *Scheduler) execute(j *job, fn JobFunc) {
	s.mu.RLock()
	base := s.base
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(base, s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)

	s.mu.Lock()
	j.lastRun = start
	j.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("scheduled job failed", "job", j.name, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Info("scheduled job finished", "job", j.name, "duration", time.Since(start))
}

// Start runs the scheduler until ctx is cancelled. Running jobs receive a
// context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// TriggerNow runs a registered job synchronously.
func (s *Scheduler) TriggerNow(name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	j.run()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return j.lastErr
}

// List returns the registered jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, JobInfo{
			Name:     j.name,
			Schedule: j.schedule,
			LastRun:  j.lastRun,
			LastErr:  j.lastErr,
			NextRun:  s.cron.Entry(j.entryID).Next,
		})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	return out
}

// TranslationRunner is the part of the synchronizer used by the sync job.
type TranslationRunner interface {
	Run(ctx context.Context, opts translation.Options) (translation.Stats, error)
}

// SyncJob returns a job that translates new segments only. Existing string
// translations are kept so a scheduled run never re-bills the translation API
// for unchanged content.
func SyncJob(r TranslationRunner, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		stats, err := r.Run(ctx, translation.Options{SkipExisting: true})
		if err != nil {
			return err
		}
		logger.Info("scheduled translation sync",
			"sources_created", stats.SourcesCreated,
			"translations_created", stats.TranslationsCreated,
			"segments_translated", stats.SegmentsTranslated,
			"pages_published", stats.PagesPublished,
			"errors", stats.Errors,
		)
		return nil
	}
}
