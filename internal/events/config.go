package events

import "time"

// ConfigResolved is emitted once per resolution attempt of the backend
// base URL. Err is set when the attempt failed and will be retried.
type ConfigResolved struct {
	URL      string
	Err      error
	Duration time.Duration
}
