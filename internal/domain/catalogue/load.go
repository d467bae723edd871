package catalogue

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/chessdna/internal/domain/model"
)

type fileFormat struct {
	Profiles []model.ReferenceProfile `yaml:"profiles"`
}

// Decode reads a YAML catalogue of the form
//
//	profiles:
//	  - name: Mikhail Tal
//	    era: 1936-2000
//	    metrics:
//	      aggressiveness: 92
func Decode(r io.Reader) (*Catalogue, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f fileFormat
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidProfile, err)
	}
	return New(f.Profiles...)
}

// Load reads a YAML catalogue from path.
func Load(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("read catalogue %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data))
}
