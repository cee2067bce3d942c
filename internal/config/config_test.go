package config

import (
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestFromYAMLOverridesDefaults(t *testing.T) {
	cfg, err := FromYAML([]byte(`
dataset:
  employees: {min: 100, max: 200}
seed: 7
`))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if cfg.Dataset.Employees.Min != 100 || cfg.Dataset.Employees.Max != 200 {
		t.Fatalf("employees not overridden: %+v", cfg.Dataset.Employees)
	}
	if cfg.Seed != 7 {
		t.Fatalf("seed %d, want 7", cfg.Seed)
	}
	// untouched fields keep their defaults
	if cfg.Ratios.TasksPerUser != 12 {
		t.Fatalf("tasks_per_user %d, want default 12", cfg.Ratios.TasksPerUser)
	}
}

func TestValidateRejectsBadRanges(t *testing.T) {
	cfg := Default()
	cfg.Dataset.Employees.Max = cfg.Dataset.Employees.Min - 1
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "dataset.employees") {
		t.Fatalf("expected employees range error, got %v", err)
	}

	cfg = Default()
	cfg.Ratios.StoriesPerTask = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected stories_per_task error")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	data, err := Default().ToYAML()
	if err != nil {
		t.Fatalf("ToYAML: %v", err)
	}
	cfg, err := FromYAML(data)
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if *cfg != *Default() {
		t.Fatalf("round trip changed config:\n%+v\n%+v", cfg, Default())
	}
}
