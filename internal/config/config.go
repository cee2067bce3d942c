package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config models orgforge.yml: dataset shape, scaling ratios, the run
// seed, and optional collaborator settings (scraper, text API).
type Config struct {
	Dataset struct {
		Employees struct {
			Min int `yaml:"min"`
			Max int `yaml:"max"`
		} `yaml:"employees"`
		OrgAgeMonths struct {
			Min int `yaml:"min"`
			Max int `yaml:"max"`
		} `yaml:"org_age_months"`
		FoundingCohort int `yaml:"founding_cohort"`
	} `yaml:"dataset"`
	Ratios struct {
		UsersPerTeam    int     `yaml:"users_per_team"`
		ProjectsPerTeam int     `yaml:"projects_per_team"`
		TasksPerUser    int     `yaml:"tasks_per_user"`
		StoriesPerTask  float64 `yaml:"stories_per_task"`
	} `yaml:"ratios"`
	Seed    uint64 `yaml:"seed"`
	Scraper struct {
		Enabled  bool   `yaml:"enabled"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"scraper"`
	TextAPI struct {
		Endpoint string `yaml:"endpoint"`
		Model    string `yaml:"model"`
		KeyEnv   string `yaml:"key_env"`
	} `yaml:"text_api"`
}

// Default returns the stock configuration: a 5K-10K employee org with
// 24-36 months of history, the ratios the dataset was tuned around, and
// a fixed seed for reproducible runs.
func Default() *Config {
	var cfg Config
	cfg.Dataset.Employees.Min = 5000
	cfg.Dataset.Employees.Max = 10000
	cfg.Dataset.OrgAgeMonths.Min = 24
	cfg.Dataset.OrgAgeMonths.Max = 36
	cfg.Dataset.FoundingCohort = 50
	cfg.Ratios.UsersPerTeam = 20
	cfg.Ratios.ProjectsPerTeam = 6
	cfg.Ratios.TasksPerUser = 12
	cfg.Ratios.StoriesPerTask = 2.5
	cfg.Seed = 42
	cfg.Scraper.Endpoint = "https://api.ycombinator.com/v0.1/companies"
	cfg.TextAPI.KeyEnv = "ORGFORGE_TEXT_API_KEY"
	return &cfg
}

// Validate ensures the config describes a generable dataset.
func (c *Config) Validate() error {
	d := c.Dataset
	if d.Employees.Min <= 0 || d.Employees.Max < d.Employees.Min {
		return fmt.Errorf("dataset.employees: need 0 < min <= max, got [%d, %d]", d.Employees.Min, d.Employees.Max)
	}
	if d.OrgAgeMonths.Min <= 0 || d.OrgAgeMonths.Max < d.OrgAgeMonths.Min {
		return fmt.Errorf("dataset.org_age_months: need 0 < min <= max, got [%d, %d]", d.OrgAgeMonths.Min, d.OrgAgeMonths.Max)
	}
	if d.FoundingCohort < 0 {
		return fmt.Errorf("dataset.founding_cohort must not be negative")
	}
	r := c.Ratios
	if r.UsersPerTeam <= 0 {
		return fmt.Errorf("ratios.users_per_team must be positive")
	}
	if r.ProjectsPerTeam <= 0 {
		return fmt.Errorf("ratios.projects_per_team must be positive")
	}
	if r.TasksPerUser <= 0 {
		return fmt.Errorf("ratios.tasks_per_user must be positive")
	}
	if r.StoriesPerTask <= 0 {
		return fmt.Errorf("ratios.stories_per_task must be positive")
	}
	if c.Scraper.Enabled && c.Scraper.Endpoint == "" {
		return fmt.Errorf("scraper.endpoint required when scraper.enabled")
	}
	return nil
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// ToYAML renders the config, used by `orgforge config init`.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// TextAPIKey reads the completion-API credential from the configured
// environment variable; empty means the local fallback is used.
func (c *Config) TextAPIKey() string {
	if c.TextAPI.KeyEnv == "" {
		return ""
	}
	return os.Getenv(c.TextAPI.KeyEnv)
}
