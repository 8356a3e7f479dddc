package store

import (
	"tasker/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) error {
		if log != nil {
			s.Log = *log
		}
		return nil
	}
}

// WithComponent tags subclient logs with component
func WithComponent(name string) Option {
	return func(s *Store) error {
		s.Log = s.Log.With().Str("component", name).Logger()
		return nil
	}
}
