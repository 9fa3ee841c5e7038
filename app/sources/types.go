package sources

// Configuration types

type Config struct {
	Name           string         // Derived from filename (without .yml extension)
	Tier           string         `yaml:"tier"`
	LegislationURL string         `yaml:"legislation_url"`
	AnnotationsURL string         `yaml:"annotations_url"`
	Settings       ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled          bool `yaml:"enabled"`
	RefreshInterval  int  `yaml:"refresh_interval"` // seconds
	Timeout          int  `yaml:"timeout"`          // seconds
	ExtractSummaries bool `yaml:"extract_summaries"`
	Annotate         bool `yaml:"annotate"` // enable AI annotation for bills without one
}
