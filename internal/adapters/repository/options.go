package repository

// DefaultMaxReports bounds the memory store when no size is configured.
const DefaultMaxReports = 10000

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxReports bounds how many subjects are kept. The least recently
// saved subject is evicted first. Values <= 0 disable eviction.
func WithMaxReports(n int) Option {
	return func(s *MemoryStore) {
		s.maxReports = n
	}
}
