package config

import "github.com/corvidlabs/lexidex/internal/models"

// ApplyDefaults fills in zero-valued fields of cfg with documented defaults.
func ApplyDefaults(cfg *EngineConfig) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.Fields) == 0 {
		cfg.Fields = []string{"content"}
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = StorageMemory
	}

	defaults := models.DefaultSearchOptions()
	if cfg.Search.DefaultOptions.MaxDistance == 0 {
		cfg.Search.DefaultOptions.MaxDistance = defaults.MaxDistance
	}
	if cfg.Search.DefaultOptions.MaxResults == 0 {
		cfg.Search.DefaultOptions.MaxResults = defaults.MaxResults
	}
	if cfg.Search.DefaultOptions.RegexConfig.MaxDepth == 0 {
		cfg.Search.DefaultOptions.RegexConfig.MaxDepth = defaults.RegexConfig.MaxDepth
	}
	if cfg.Search.DefaultOptions.RegexConfig.TimeoutMs == 0 {
		cfg.Search.DefaultOptions.RegexConfig.TimeoutMs = defaults.RegexConfig.TimeoutMs
	}

	if cfg.DocumentSupport.Versioning.Enabled && cfg.DocumentSupport.Versioning.MaxVersions == 0 {
		cfg.DocumentSupport.Versioning.MaxVersions = 10
	}
}
