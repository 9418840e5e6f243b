package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Default number of words per study batch
	DefaultBatchSize int
	// Number of words per flashcard round
	FlashcardLimit int
	// Number of questions per test round
	TestLength int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		DefaultBatchSize: 10,
		FlashcardLimit:   20,
		TestLength:       10,
	}
}
