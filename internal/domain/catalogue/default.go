package catalogue

import "github.com/okian/chessdna/internal/domain/model"

func gm(name, era string, aggressiveness, solidity, precision, complexity, acpl float64) model.ReferenceProfile {
	return model.ReferenceProfile{
		Name: name,
		Era:  era,
		Metrics: model.MetricSet{
			model.Aggressiveness:    aggressiveness,
			model.Solidity:          solidity,
			model.Precision:         precision,
			model.Complexity:        complexity,
			model.MeanCentipawnLoss: acpl,
		},
	}
}

// DefaultProfiles returns the built-in grandmaster profiles. Decision speed
// is not recorded for them, so the vector default applies.
func DefaultProfiles() []model.ReferenceProfile {
	return []model.ReferenceProfile{
		gm("Mikhail Tal", "1936-2000", 92, 35, 78, 7.8, 45),
		gm("Tigran Petrosian", "1929-1984", 38, 92, 85, 6.2, 32),
		gm("Bobby Fischer", "1943-2008", 78, 88, 92, 8.1, 28),
		gm("Anatoly Karpov", "1951-", 65, 85, 88, 7.5, 35),
		gm("Garry Kasparov", "1963-", 85, 82, 90, 8.3, 32),
		gm("Vishy Anand", "1969-", 72, 80, 87, 7.8, 38),
		gm("Magnus Carlsen", "1990-", 75, 90, 95, 8.0, 25),
	}
}

// Default returns a catalogue of the built-in grandmaster profiles.
func Default() *Catalogue {
	c, err := New(DefaultProfiles()...)
	if err != nil {
		panic(err) // static table
	}
	return c
}
