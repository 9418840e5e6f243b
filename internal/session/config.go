package session

import "fmt"

// LimitType selects how a session ends.
type LimitType string

const (
	// LimitQuestions ends the session after a fixed number of answers.
	LimitQuestions LimitType = "questions"
	// LimitMastery keeps cycling until every word in the batch is mastered.
	LimitMastery LimitType = "mastery"
)

// Config controls one study session. It is fixed for the session's lifetime.
type Config struct {
	// Number of words in the batch; in questions mode, also the answer cap
	BatchSize int
	// Termination mode
	Limit LimitType
}

// DefaultConfig returns the configuration used when the user picks nothing.
func DefaultConfig() Config {
	return Config{
		BatchSize: 10,
		Limit:     LimitMastery,
	}
}

func (c Config) validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	switch c.Limit {
	case LimitQuestions, LimitMastery:
		return nil
	default:
		return fmt.Errorf("unknown limit type: %q", c.Limit)
	}
}
