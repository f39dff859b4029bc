package repository

import "github.com/okian/areacheck/pkg/logger"

// Option applies a configuration option to a HistoryStore.
type Option func(*HistoryStore)

// WithLogger sets the logger used for read and write failures.
func WithLogger(l logger.Logger) Option {
	return func(s *HistoryStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// loggerFrom resolves the logger a set of options would install.
func loggerFrom(opts []Option) logger.Logger {
	s := &HistoryStore{logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s.logger
}
