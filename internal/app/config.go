package app

import "errors"

// Config holds all the necessary configuration for an App instance to run
// one training invocation.
type Config struct {
	Model    string // message-passing implementation name
	Task     string
	DataPath string

	SaveDir            string
	ModelParamOverride string // JSON object, may be empty
	DataParamOverride  string // JSON object, may be empty
	MaxEpochs          int
	Patience           int
	Seed               int64
	RunName            string
	LoadSavedModel     string // checkpoint stem for resume/init
	Quiet              bool
	RunTest            bool
	TrackingURL        string
	TunedDefaultsDir   string

	LogFormat string
	LogLevel  string

	// SearchOverrides are hyperparameter-search "--key value" captures.
	SearchOverrides map[string]string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Model == "" {
		return nil, errors.New("model is a required configuration field and cannot be empty")
	}
	if cfg.Task == "" {
		return nil, errors.New("task is a required configuration field and cannot be empty")
	}
	if cfg.DataPath == "" {
		return nil, errors.New("data path is a required configuration field and cannot be empty")
	}
	if cfg.MaxEpochs < 1 {
		return nil, errors.New("max epochs must be positive")
	}
	if cfg.Patience < 1 {
		return nil, errors.New("patience must be at least 1")
	}
	return &cfg, nil
}
