package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type (
	Config struct {
		GreptileAPIKey string `json:"greptile_api_key,omitempty"`
		GitHubToken    string `json:"github_token,omitempty"`
		Language       string `json:"language"`
		UseEmoji       bool   `json:"use_emoji"`

		// DefaultRemote, DefaultRepository and DefaultBranch preselect the
		// context repository for the generate command.
		DefaultRemote     string `json:"default_remote"`
		DefaultRepository string `json:"default_repository,omitempty"`
		DefaultBranch     string `json:"default_branch"`

		// TicketCount is the default number of stub tickets to request.
		TicketCount int `json:"ticket_count"`

		// TemplatesDir is where body-format templates are loaded from.
		TemplatesDir string `json:"templates_dir"`

		// Genius toggles the code-query service's deeper reasoning tier.
		Genius bool `json:"genius"`

		// Production disables the mock-file override. Set from TICKMATE_ENV.
		Production bool `json:"-"`

		// MockFile points to a pre-recorded query response used instead of
		// the live service. Development only. Set from TICKMATE_MOCK_FILE.
		MockFile string `json:"-"`

		PathFile string `json:"path_file"`
	}
)

const (
	defaultLang         = "en"
	defaultUseEmoji     = true
	defaultRemote       = "github"
	defaultBranch       = "main"
	defaultTicketCount  = 3
	defaultTemplatesDir = "ticket_templates"
)

// LoadConfig reads the configuration file under path (or path itself when it
// is a .json file), creating it with defaults when missing, then applies the
// environment overrides. Environment values are read once here and are
// immutable for the rest of the session.
func LoadConfig(path string) (*Config, error) {
	var configPath string

	if filepath.Ext(path) == ".json" {
		configPath = path
	} else {
		configDir := filepath.Join(path, ".tickmate")
		configPath = filepath.Join(configDir, "config.json")

		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			if err := os.MkdirAll(configDir, 0755); err != nil {
				return nil, fmt.Errorf("error creating config directory: %w", err)
			}
		}
	}

	var config *Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config, err = createDefaultConfig(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		config = &Config{}
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error decoding config file: %w", err)
		}
		config.PathFile = configPath
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("loaded configuration is not valid: %w", err)
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if key := os.Getenv("GREPTILE_API_KEY"); key != "" {
		config.GreptileAPIKey = key
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		config.GitHubToken = token
	}
	config.Production = os.Getenv("TICKMATE_ENV") == "production"
	config.MockFile = os.Getenv("TICKMATE_MOCK_FILE")
}

func createDefaultConfig(path string) (*Config, error) {
	config := &Config{
		Language:      defaultLang,
		UseEmoji:      defaultUseEmoji,
		DefaultRemote: defaultRemote,
		DefaultBranch: defaultBranch,
		TicketCount:   defaultTicketCount,
		TemplatesDir:  defaultTemplatesDir,
		PathFile:      path,
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("error saving default config: %w", err)
	}

	return config, nil
}

// SaveConfig persists the configuration back to its file. Secrets taken from
// the environment are not written unless they were already in the file.
func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration to save is not valid: %w", err)
	}

	if config.PathFile == "" {
		return errors.New("config file path is not set")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if err := os.WriteFile(config.PathFile, data, 0644); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	return nil
}

func validateConfig(config *Config) error {
	if config.Language == "" {
		config.Language = defaultLang
	}
	if config.DefaultRemote == "" {
		config.DefaultRemote = defaultRemote
	}
	if config.DefaultBranch == "" {
		config.DefaultBranch = defaultBranch
	}
	if config.TemplatesDir == "" {
		config.TemplatesDir = defaultTemplatesDir
	}
	if config.TicketCount <= 0 {
		config.TicketCount = defaultTicketCount
	}
	if config.TicketCount > 10 {
		return errors.New("ticket_count must be between 1 and 10")
	}
	return nil
}
