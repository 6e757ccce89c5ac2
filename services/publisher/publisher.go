package publisher

// Publisher represents an optional downstream sink for new postings
type Publisher interface {
	// Publish publishes a message for a company to the stream
	Publish(company string, message []byte) error

	// TrimStream trims the stream to the configured maximum length
	TrimStream() error

	// Close closes the publisher connection
	Close() error
}
