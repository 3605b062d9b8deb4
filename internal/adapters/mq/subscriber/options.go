package subscriber

import "github.com/okian/headlights/pkg/logger"

// Option applies a configuration option to the Subscriber.
type Option func(*Subscriber)

// WithQueueGroup sets the NATS queue group shared by redundant instances.
func WithQueueGroup(group string) Option {
	return func(s *Subscriber) {
		if group != "" {
			s.queueGroup = group
		}
	}
}

// WithName sets the NATS connection name.
func WithName(name string) Option {
	return func(s *Subscriber) {
		if name != "" {
			s.name = name
		}
	}
}

// WithBusyCheck tells the subscriber which Dispatch errors mean the strip
// was taken. Such messages are acked and their id is forgotten.
func WithBusyCheck(isBusy func(error) bool) Option {
	return func(s *Subscriber) {
		if isBusy != nil {
			s.isBusy = isBusy
		}
	}
}

// WithLogger sets a custom logger for the subscriber.
func WithLogger(l logger.Logger) Option {
	return func(s *Subscriber) {
		if l != nil {
			s.logger = l
		}
	}
}
