package scanconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML strategy file and returns the parsed config
// with the raw bytes. KnownFields(true) makes typos and stale fields
// fail immediately instead of silently parsing to defaults.
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, err
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, data, err
	}

	return &cfg, data, nil
}

// applyDefaults fills the bounds a config may omit.
func applyDefaults(cfg *Config) {
	if cfg.Scan.TopN == 0 {
		cfg.Scan.TopN = 20
	}
	if cfg.Scan.BatchSize == 0 {
		cfg.Scan.BatchSize = 20
	}
	if cfg.Scan.Concurrency == 0 {
		cfg.Scan.Concurrency = 5
	}
	if cfg.Scan.TimeoutSeconds == 0 {
		cfg.Scan.TimeoutSeconds = 20
	}
	if cfg.Scan.HistoryDays == 0 {
		cfg.Scan.HistoryDays = 90
	}
	if cfg.Short.MinScore == 0 {
		cfg.Short.MinScore = 40
	}
	if cfg.Sources.Benchmark == "" {
		cfg.Sources.Benchmark = "SPY"
	}
	if cfg.Universe.MaxTickers == 0 {
		cfg.Universe.MaxTickers = 100
	}
}

// Hash generates a SHA256 hash from the config's canonical JSON.
// Structs, not maps, keep the field order deterministic; the two
// weight maps are re-marshaled through sorted keys by encoding/json.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
