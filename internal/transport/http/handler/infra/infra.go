package infra

import "time"

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	APIPrefix string
	StartTime time.Time
}

// New creates a new instance of infrastructure handlers.
func New(apiPrefix string, startTime time.Time) *Handlers {
	return &Handlers{
		APIPrefix: apiPrefix,
		StartTime: startTime,
	}
}
