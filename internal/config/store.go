package config

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Store hands out configuration snapshots and re-reads the config file when
// it changed on disk or a reload was requested. Command line overrides are
// applied again on every reload. An invalid file never replaces a valid
// snapshot.
type Store struct {
	path      string
	overrides *Config
	logger    zerolog.Logger

	forced atomic.Bool

	mu      sync.Mutex
	current *Config
	modTime time.Time
	lastErr string
}

func NewStore(path string, overrides *Config, initial *Config, logger zerolog.Logger) *Store {
	s := &Store{
		path:      path,
		overrides: overrides.Clone(),
		logger:    logger,
		current:   initial.Clone(),
	}

	if path != "" {
		if info, err := os.Stat(path); err == nil {
			s.modTime = info.ModTime()
		}
	}

	return s
}

func (s *Store) Path() string {
	return s.path
}

// ForceReload makes the next Snapshot re-read the file even if its
// modification time is unchanged. It is safe to call from a signal handler
// goroutine.
func (s *Store) ForceReload() {
	s.forced.Store(true)
}

// Snapshot returns a copy of the current configuration, reloading it first if
// needed.
func (s *Store) Snapshot() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path != "" {
		s.refresh(s.forced.Swap(false))
	}

	return s.current.Clone()
}

func (s *Store) refresh(forced bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		s.warn(err, "config file unavailable; keeping previous configuration")
		return
	}

	if !forced && info.ModTime().Equal(s.modTime) {
		return
	}
	s.modTime = info.ModTime()

	cfg, err := load(s.path, s.overrides)
	if err != nil {
		s.warn(err, "invalid configuration; keeping previous configuration")
		return
	}

	s.current = cfg
	s.lastErr = ""
	s.logger.Info().Str("path", s.path).Bool("forced", forced).Msg("configuration reloaded")
}

// warn logs err unless it repeats the previous failure.
func (s *Store) warn(err error, msg string) {
	if err.Error() == s.lastErr {
		return
	}
	s.lastErr = err.Error()

	s.logger.Warn().Str("path", s.path).Err(err).Msg(msg)
}
