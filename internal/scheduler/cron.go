package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = time.Minute

// GenreLoader refreshes the process-wide genre table
type GenreLoader interface {
	LoadGenres(ctx context.Context) error
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron    *cron.Cron
	genres  GenreLoader
	refresh string
	logger  *logrus.Logger
	done    chan struct{}
}

// NewScheduler creates a new scheduler refreshing genres on the refresh cron spec
func NewScheduler(genres GenreLoader, refresh string, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		genres:  genres,
		refresh: refresh,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	_, err := s.cron.AddFunc(s.refresh, func() {
		s.runGenreRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to add genre refresh job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("schedule", s.refresh).Info("Scheduler started")

	// Run initial load immediately
	go func() {
		defer close(s.done)
		s.runGenreRefresh()
	}()

	return nil
}

// InitialLoadDone is closed once the startup genre load has finished
func (s *Scheduler) InitialLoadDone() <-chan struct{} {
	return s.done
}

// Stop stops the scheduler and waits for a running job
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// runGenreRefresh executes the genre refresh job
func (s *Scheduler) runGenreRefresh() {
	s.logger.Debug("Refreshing genre table")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.genres.LoadGenres(ctx); err != nil {
		s.logger.WithError(err).Error("Genre refresh failed, keeping previous table")
	} else {
		s.logger.Info("Genre refresh completed successfully")
	}
}
