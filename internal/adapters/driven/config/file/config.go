// Package file loads docwiki configuration from a TOML file in the
// user's config directory.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the persisted docwiki configuration.
type Config struct {
	// StoreBackend selects the document store: "local" or "api".
	StoreBackend string `toml:"store_backend"`

	// APIURL and APIToken configure the remote backend when
	// StoreBackend is "api".
	APIURL   string `toml:"api_url"`
	APIToken string `toml:"api_token"`

	// DataDir is where the local backend keeps pages and its index.
	DataDir string `toml:"data_dir"`

	// FallbackDir receives page content when the remote backend is
	// unreachable mid-run.
	FallbackDir string `toml:"fallback_dir"`

	// RepoDir, when set, reads history from a local clone instead of
	// the GitHub API.
	RepoDir     string `toml:"repo_dir"`
	GitHubToken string `toml:"github_token"`

	// WriterCommand is the external command that produces page bodies.
	WriterCommand string   `toml:"writer_command"`
	WriterArgs    []string `toml:"writer_args"`

	// Regeneration thresholds. Zero values take the built-in defaults.
	HumanRecencyDays int `toml:"human_recency_days"`
	AIStaleDays      int `toml:"ai_stale_days"`
	CommitThreshold  int `toml:"commit_threshold"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		StoreBackend: "local",
	}
}

// Load reads the configuration from configDir/config.toml. If configDir
// is empty, defaults to ~/.docwiki. A missing file yields the defaults;
// environment variables DOCWIKI_API_TOKEN and GITHUB_TOKEN override the
// stored tokens.
func Load(configDir string) (Config, error) {
	path, err := configPath(configDir)
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file yet - that's fine, start with defaults
	case err != nil:
		return Config{}, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if token := os.Getenv("DOCWIKI_API_TOKEN"); token != "" {
		cfg.APIToken = token
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHubToken = token
	}

	return cfg, nil
}

// Save persists the configuration to configDir/config.toml with
// restricted permissions.
func Save(configDir string, cfg Config) error {
	path, err := configPath(configDir)
	if err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// configPath resolves the config file location, creating the directory.
func configPath(configDir string) (string, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".docwiki")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
