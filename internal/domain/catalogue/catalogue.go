// Package catalogue holds the reference profiles that players are compared
// against.
package catalogue

import (
	"fmt"
	"strings"

	"github.com/okian/chessdna/internal/domain/model"
)

// Catalogue is an ordered, read-only set of uniquely named profiles.
type Catalogue struct {
	profiles []model.ReferenceProfile
	index    map[string]int
}

// New validates profiles and returns a catalogue that keeps their order.
func New(profiles ...model.ReferenceProfile) (*Catalogue, error) {
	c := &Catalogue{
		profiles: make([]model.ReferenceProfile, 0, len(profiles)),
		index:    make(map[string]int, len(profiles)),
	}
	for _, p := range profiles {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidProfile)
		}
		if _, ok := c.index[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProfile, name)
		}
		if err := p.Metrics.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidProfile, name, err)
		}
		c.index[name] = len(c.profiles)
		c.profiles = append(c.profiles, model.ReferenceProfile{
			Name:    name,
			Era:     p.Era,
			Metrics: p.Metrics.Clone(),
		})
	}
	return c, nil
}

// Len returns the number of profiles.
func (c *Catalogue) Len() int {
	return len(c.profiles)
}

// Names returns profile names in insertion order.
func (c *Catalogue) Names() []string {
	out := make([]string, len(c.profiles))
	for i, p := range c.profiles {
		out[i] = p.Name
	}
	return out
}

// Profiles returns copies of every profile in insertion order.
func (c *Catalogue) Profiles() []model.ReferenceProfile {
	out := make([]model.ReferenceProfile, len(c.profiles))
	for i, p := range c.profiles {
		out[i] = copyProfile(p)
	}
	return out
}

// Get returns a copy of the named profile.
func (c *Catalogue) Get(name string) (model.ReferenceProfile, error) {
	i, ok := c.index[name]
	if !ok {
		return model.ReferenceProfile{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return copyProfile(c.profiles[i]), nil
}

func copyProfile(p model.ReferenceProfile) model.ReferenceProfile {
	p.Metrics = p.Metrics.Clone()
	return p
}
