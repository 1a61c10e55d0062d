package models

// ColumnMapping binds the engine's canonical roles to the field names used by
// a particular source dataset. It is a value object: validated once at
// construction and never mutated.
type ColumnMapping struct {
	Datetime  string `koanf:"datetime"`
	TempMean  string `koanf:"temp_mean"`
	TempMax   string `koanf:"temp_max"`
	TempMin   string `koanf:"temp_min"`
	DayOfYear string `koanf:"day_of_year"`
}

// DefaultColumnMapping maps every role to the canonical schema used by the
// migration in this repository.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Datetime:  "date",
		TempMean:  "temp_mean",
		TempMax:   "temp_max",
		TempMin:   "temp_min",
		DayOfYear: "doy",
	}
}

// NewColumnMapping builds a mapping, requiring every role to be bound.
func NewColumnMapping(datetime, tempMean, tempMax, tempMin, dayOfYear string) (ColumnMapping, error) {
	m := ColumnMapping{
		Datetime:  datetime,
		TempMean:  tempMean,
		TempMax:   tempMax,
		TempMin:   tempMin,
		DayOfYear: dayOfYear,
	}
	if err := m.Validate(); err != nil {
		return ColumnMapping{}, err
	}
	return m, nil
}

// Validate checks that every role resolves to a field name.
func (m ColumnMapping) Validate() error {
	roles := []struct {
		role  string
		field string
	}{
		{"datetime", m.Datetime},
		{"temp_mean", m.TempMean},
		{"temp_max", m.TempMax},
		{"temp_min", m.TempMin},
		{"day_of_year", m.DayOfYear},
	}

	for _, r := range roles {
		if r.field == "" {
			return &ConfigurationError{
				Field:   r.role,
				Message: "column mapping role is not bound to a field",
			}
		}
	}

	return nil
}
