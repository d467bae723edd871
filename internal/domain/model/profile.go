package model

// ReferenceProfile is a named catalogue entry with the same metric schema
// as a player.
type ReferenceProfile struct {
	Name    string    `json:"name" yaml:"name"`
	Era     string    `json:"era" yaml:"era"`
	Metrics MetricSet `json:"metrics" yaml:"metrics"`
}
