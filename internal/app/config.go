package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	DefinitionsPath string // block definition .hcl file(s) or directory
	StateDBPath     string // bbolt database for exec_count/last_exec; "" disables

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and returns a pointer the rest of the app can
// share.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DefinitionsPath == "" {
		return nil, errors.New("DefinitionsPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
