// Package config loads gca-bridge's process configuration and keeps the
// registry's alias and fallback tables hot-reloadable without a restart.
//
// Three sources layer together, lowest precedence first: a YAML base file
// (gopkg.in/yaml.v3, matching the teacher's direct dependency), a .env file
// loaded with joho/godotenv for local development, and process environment
// variables, which win over both; the one exception is GCA_PROJECT_ID, which
// only fills in a project_id the YAML file left unset. A sibling JWCC override file — JSON with
// comments and trailing commas, parsed with tailscale/hujson — lets an
// operator hand-edit model aliases and fallback chains without touching the
// main YAML file or restarting the process; internal/config/watch.go
// reloads it on change.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Server holds HTTP listener settings.
type Server struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Logging holds logger construction settings.
type Logging struct {
	Dir   string `yaml:"dir"`
	Debug bool   `yaml:"debug"`
}

// Config is gca-bridge's top-level configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`

	// ProjectID is the GCP project hint sent with Code Assist requests.
	// Falls back to GCA_PROJECT_ID if unset here.
	ProjectID string `yaml:"project_id"`

	// ModelOverridesPath points at the JWCC file watched for hot-reloaded
	// aliases and fallback chains. Defaults to config.local.jsonc next to
	// the main config file.
	ModelOverridesPath string `yaml:"model_overrides_path"`
}

func defaultConfig() Config {
	return Config{
		Server:  Server{ListenAddr: ":8085"},
		Logging: Logging{Dir: ""},
	}
}

// Load reads the YAML file at path (if path is "", the defaults apply),
// then layers a .env file and environment variables on top. Env vars are
// prefixed GCA_BRIDGE_, mirroring the teacher's GCA_ env namespace.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(envCandidates(path)...)

	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.ModelOverridesPath == "" && path != "" {
		cfg.ModelOverridesPath = filepath.Join(filepath.Dir(path), "config.local.jsonc")
	}

	return &cfg, nil
}

func envCandidates(configPath string) []string {
	var out []string
	if configPath != "" {
		out = append(out, filepath.Join(filepath.Dir(configPath), ".env"))
	}
	out = append(out, ".env")
	return out
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GCA_BRIDGE_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("GCA_BRIDGE_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("GCA_BRIDGE_DEBUG"); v != "" {
		cfg.Logging.Debug = v == "1" || v == "true"
	}
	if v := os.Getenv("GCA_PROJECT_ID"); v != "" && cfg.ProjectID == "" {
		cfg.ProjectID = v
	}
}

// ModelOverrides is the shape of the hot-reloaded JWCC file: explicit
// alias -> canonical-id mappings and model -> fallback-model chains,
// applied wholesale to the registry on every reload (spec §4's alias
// table and GLOSSARY fallback table).
type ModelOverrides struct {
	Aliases   map[string]string `json:"aliases"`
	Fallbacks map[string]string `json:"fallbacks"`
}

// LoadModelOverrides reads and standardizes a JWCC (JSON with comments and
// trailing commas) file at path. A missing file yields an empty, valid
// ModelOverrides rather than an error, since overrides are optional.
func LoadModelOverrides(path string) (*ModelOverrides, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ModelOverrides{}, nil
		}
		return nil, fmt.Errorf("reading model overrides: %w", err)
	}

	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing model overrides: %w", err)
	}

	var out ModelOverrides
	if err := json.Unmarshal(std, &out); err != nil {
		return nil, fmt.Errorf("decoding model overrides: %w", err)
	}
	return &out, nil
}

// refreshInterval bounds how often the fsnotify-driven watcher in watch.go
// re-reads the overrides file after a debounced change event.
const refreshInterval = 250 * time.Millisecond
