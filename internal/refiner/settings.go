package refiner

// SearchSettings controls citation lookup per claim.
type SearchSettings struct {
	MaxResults int
	MinScore   float64
}

// PrivacySettings controls what the engine persists between requests.
type PrivacySettings struct {
	CacheEnabled bool
	CachePath    string
}

// Settings is the full engine configuration. It is a value type: every
// request works on its own copy and the defaults are never mutated.
type Settings struct {
	Search  SearchSettings
	Privacy PrivacySettings
}

// DefaultSettings returns a fresh copy of the default configuration.
func DefaultSettings() Settings {
	return Settings{
		Search: SearchSettings{
			MaxResults: 5,
			MinScore:   0.2,
		},
		Privacy: PrivacySettings{
			CacheEnabled: true,
			CachePath:    "./refscore_citations.db",
		},
	}
}
