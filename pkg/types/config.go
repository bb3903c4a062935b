package types

import "time"

// HTTPConfig holds shared HTTP settings for requests to E-utilities.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default
	// in place (no client-side timeout).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "get-papers/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the PubMed fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the E-utilities root, e.g.
	// "https://eutils.ncbi.nlm.nih.gov/entrez/eutils".
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Database is the Entrez database name (always "pubmed" from the CLI).
	Database string `json:"database" yaml:"database"`

	// MaxResults caps the number of PMIDs requested from esearch (default 100).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// APIKey is an optional NCBI API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email and Tool identify the caller to NCBI. Both are optional.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	Tool  string `json:"tool,omitempty" yaml:"tool,omitempty"`
}

// ParseConfig holds settings for the article parser and classifier.
type ParseConfig struct {
	// Keywords are matched case-insensitively against affiliation text to
	// flag non-academic authors (default: pharmaceutical, biotech).
	Keywords []string `json:"keywords" yaml:"keywords"`

	// LenientDates formats partial PubDate elements instead of failing.
	LenientDates bool `json:"lenient_dates" yaml:"lenient_dates"`

	// EmailFromAffiliation falls back to an address embedded in an
	// author's affiliation text when the author has no Email element.
	EmailFromAffiliation bool `json:"email_from_affiliation" yaml:"email_from_affiliation"`
}

// OutputFormat selects how records are printed to the terminal.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// Config groups every setting read from flags, the config file, and the
// environment. It is assembled from flat config keys (base_url,
// max_results, keywords, ...) and is not decoded from a file directly.
type Config struct {
	Fetch  FetchConfig
	Parse  ParseConfig
	Format OutputFormat
}
