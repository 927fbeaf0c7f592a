// Package config loads the application's run configuration: defaults,
// then an optional YAML file, then environment overrides. Environment
// always wins. Nothing here reads globals at use time; the loaded struct
// is threaded explicitly to the components that need it.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "PAPERDESK_CONFIG"

	dbPathEnv     = "PAPERDESK_DB"
	blobDirEnv    = "PAPERDESK_BLOB_DIR"
	feedURLEnv    = "PAPERDESK_FEED_URL"
	modelHostEnv  = "PAPERDESK_MODEL_HOST"
	modelEnv      = "PAPERDESK_MODEL"
	modelTokenEnv = "PAPERDESK_MODEL_TOKEN"
	thresholdEnv  = "PAPERDESK_RELEVANCE_THRESHOLD"
)

// Config holds the settings required across the application.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Feed    FeedConfig    `yaml:"feed"`
	Model   ModelConfig   `yaml:"model"`
	Limits  LimitsConfig  `yaml:"limits"`
}

// StorageConfig locates the metadata database and the PDF blob store.
type StorageConfig struct {
	DBPath  string `yaml:"dbPath"`
	BlobDir string `yaml:"blobDir"`
}

// FeedConfig describes where candidate papers are listed.
type FeedConfig struct {
	URL string `yaml:"url"`
}

// ModelConfig defines how to contact the language model service.
type ModelConfig struct {
	Host  string `yaml:"host"`
	Name  string `yaml:"name"`
	Token string `yaml:"token"`
}

// LimitsConfig bounds stage runs and analysis results.
type LimitsConfig struct {
	StageLimit         int     `yaml:"stageLimit"`
	RelevanceThreshold float64 `yaml:"relevanceThreshold"`
}

// Load reads YAML configuration (if PAPERDESK_CONFIG points at a file)
// and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			slog.Warn("cannot read config file, using defaults", "path", path, "err", err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				slog.Warn("cannot parse config file, using defaults", "path", path, "err", err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv(blobDirEnv); v != "" {
		c.Storage.BlobDir = v
	}
	if v := os.Getenv(feedURLEnv); v != "" {
		c.Feed.URL = v
	}
	if v := os.Getenv(modelHostEnv); v != "" {
		c.Model.Host = v
	}
	if v := os.Getenv(modelEnv); v != "" {
		c.Model.Name = v
	}
	if v := os.Getenv(modelTokenEnv); v != "" {
		c.Model.Token = v
	}
	if v := os.Getenv(thresholdEnv); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			c.Limits.RelevanceThreshold = threshold
		} else {
			slog.Warn("ignoring unparseable threshold override", "value", v)
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Storage.DBPath != "" {
		base.Storage.DBPath = override.Storage.DBPath
	}
	if override.Storage.BlobDir != "" {
		base.Storage.BlobDir = override.Storage.BlobDir
	}
	if override.Feed.URL != "" {
		base.Feed.URL = override.Feed.URL
	}
	if override.Model.Host != "" {
		base.Model.Host = override.Model.Host
	}
	if override.Model.Name != "" {
		base.Model.Name = override.Model.Name
	}
	if override.Model.Token != "" {
		base.Model.Token = override.Model.Token
	}
	if override.Limits.StageLimit > 0 {
		base.Limits.StageLimit = override.Limits.StageLimit
	}
	if override.Limits.RelevanceThreshold > 0 {
		base.Limits.RelevanceThreshold = override.Limits.RelevanceThreshold
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			DBPath:  "./paperdesk-db",
			BlobDir: "./paperdesk-blobs",
		},
		Feed: FeedConfig{
			URL: "https://rss.arxiv.org/rss/cs.ai",
		},
		Model: ModelConfig{
			Host:  "http://localhost:11434",
			Name:  "llama3.1:8b",
			Token: "none",
		},
		Limits: LimitsConfig{
			StageLimit:         100,
			RelevanceThreshold: 6.0,
		},
	}
}
