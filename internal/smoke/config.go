// Package smoke drives a running roster server through its HTTP API and
// checks every response against the documented status codes.
package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Prefix   string        // Route prefix, "" or "/api"
	Students int           // Students created concurrently in the load phase
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Log every request
}

// Cohort mirrors the cohort representation.
type Cohort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Student mirrors the student representation.
type Student struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	CohortID *int64 `json:"cohort_id"`
}

// Message is the {message} body used by deletes and errors.
type Message struct {
	Message string `json:"message"`
}

// Stats holds run statistics.
type Stats struct {
	Checks         int
	StudentsSent   int
	StudentsOK     int
	StudentsFailed int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
