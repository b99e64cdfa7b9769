package types

// OutputFormat selects the serialization of extracted patterns.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// DefaultKeyword is the declaration marker that opens a pattern block.
const DefaultKeyword = "VibrationModel"

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// InputPath is the source file containing the declarations.
	InputPath string `json:"input" yaml:"input"`

	// OutputPath is where the pattern document is written. Missing parent
	// directories are created.
	OutputPath string `json:"output" yaml:"output"`

	// Keyword is the declaration marker (default "VibrationModel").
	Keyword string `json:"keyword" yaml:"keyword"`

	// Format selects the output format: json or yaml.
	Format OutputFormat `json:"format" yaml:"format"`
}

// CatalogConfig holds settings for the pattern catalog.
type CatalogConfig struct {
	// CatalogDir is the directory holding the SQLite database and exports.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all stage configurations.
type Config struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
}
