package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskmaster-go/internal/command"
	"github.com/nibzard/taskmaster-go/internal/config"
	"github.com/nibzard/taskmaster-go/internal/logging"
	"github.com/nibzard/taskmaster-go/internal/seed"
	"github.com/nibzard/taskmaster-go/internal/task"
)

// session is the state shared by one run of the tui or exec command: the
// store, its dispatcher and the session log.
type session struct {
	clock      task.Clock
	store      *task.Store
	dispatcher *command.Dispatcher
	logger     *log.Logger
	log        *logging.SessionLog
}

// openSession opens the session log and builds a store, seeded from the
// configured seed file or the demo set.
func openSession(cfg *config.Config) (*session, error) {
	sl, err := logging.OpenSessionLog(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("opening session log: %w", err)
	}

	logger := logging.New(sl.Writer(), logging.OptionsFromConfig(
		cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller))

	s := &session{
		clock:  func() time.Time { return time.Now().UTC() },
		logger: logger,
		log:    sl,
	}
	s.store = task.NewStore(task.WithClock(s.clock))

	if err := s.seed(cfg); err != nil {
		logger.Error("seeding failed", "err", err)
		sl.Close()
		return nil, err
	}

	s.dispatcher = command.NewDispatcher(s.store, logger)
	logger.Info("session started", "version", Version, "tasks", s.store.Len(), "log", sl.LogPath)
	return s, nil
}

func (s *session) seed(cfg *config.Config) error {
	switch {
	case cfg.SeedFile != "":
		f, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return err
		}
		if err := s.apply(f); err != nil {
			return fmt.Errorf("%s: %w", cfg.SeedFile, err)
		}
		s.logger.Info("seed file loaded", "path", cfg.SeedFile, "tasks", len(f.Tasks), "next_id", s.store.NextID())
	case cfg.Demo:
		if err := s.apply(seed.Demo(s.clock())); err != nil {
			return fmt.Errorf("loading demo tasks: %w", err)
		}
		s.logger.Info("demo tasks loaded", "tasks", s.store.Len())
	}
	return nil
}

// apply seeds the store from f and logs any validation warnings.
func (s *session) apply(f *seed.File) error {
	result, err := seed.Apply(s.store, f)
	for _, w := range result.Warnings {
		s.logger.Warn(w)
	}
	return err
}

// Close logs final statistics and closes the session log.
func (s *session) Close() error {
	stats := s.store.Stats()
	s.logger.Info("session ended", "total", stats.Total, "completed", stats.Completed)
	return s.log.Close()
}
