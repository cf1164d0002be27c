package catalog

type YAMLCatalog struct {
	Defaults  YAMLDefaults   `yaml:"defaults"`
	Templates []YAMLTemplate `yaml:"templates"`
}

type YAMLDefaults struct {
	Backend      string   `yaml:"backend"`
	WorkingWidth *int     `yaml:"working_width"`
	Border       *int     `yaml:"border"`
	Blur         *float64 `yaml:"blur"`
	DX           *float64 `yaml:"dx"`
	DY           *float64 `yaml:"dy"`
	Lighting     string   `yaml:"lighting"`
}

type YAMLTemplate struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Template    string    `yaml:"template"`
	Mask        string    `yaml:"mask"`
	Quad        []float64 `yaml:"quad"`
	Blend       string    `yaml:"blend"`
	Color       string    `yaml:"color"`
	Tags        []string  `yaml:"tags"`
}
