package ticketing

import "time"

// Config is the configuration of the controller.
type Config struct {
	// CloseGrace is the delay between closing a ticket and deleting its channel.
	CloseGrace time.Duration

	// SelectionTimeout is how long a transfer selection or panel confirmation stays valid.
	SelectionTimeout time.Duration

	// CreateCooldown is the minimum time between two tickets of the same user. Zero disables it.
	CreateCooldown time.Duration

	// TranscriptLimit is the maximum number of messages in a transcript.
	TranscriptLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CloseGrace:       5 * time.Second,
		SelectionTimeout: 60 * time.Second,
		CreateCooldown:   30 * time.Second,
		TranscriptLimit:  500,
	}
}
