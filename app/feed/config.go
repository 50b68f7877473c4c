package feed

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultFeedURL = "https://feeds.rebuild.fm/rebuildfm"

func DefaultConfig() *Config {
	return &Config{
		URL: DefaultFeedURL,
		Settings: ConfigSettings{
			Enabled: true,
			Timeout: 30,
		},
		Markup: ConfigMarkup{
			AttributePrefix: "__",
			TextNodeName:    "$text",
			AlwaysArray:     []string{"ul", "ul.li"},
		},
	}
}

// LoadConfig reads the feed configuration file. A missing file is not an
// error: the built-in defaults are returned instead.
func LoadConfig(configFile string) (*Config, error) {
	if configFile == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		slog.Debug("Feed configuration not found, using defaults", "path", configFile)
		return DefaultConfig(), nil
	}

	feedConfig, err := parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(feedConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	slog.Debug("Configuration loaded", "path", configFile, "url", feedConfig.URL, "enabled", feedConfig.Settings.Enabled)

	return feedConfig, nil
}

func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Settings.Timeout) * time.Second
}

func parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Unset keys keep their default values.
	feedConfig := DefaultConfig()
	if err := yaml.Unmarshal(data, feedConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if feedConfig.Settings.Timeout == 0 {
		feedConfig.Settings.Timeout = 30
	}

	return feedConfig, nil
}

func validateConfig(feedConfig *Config) error {
	if feedConfig == nil {
		return fmt.Errorf("feedConfig is nil")
	}

	requiredFields := map[string]string{
		"feed URL":                feedConfig.URL,
		"markup attribute prefix": feedConfig.Markup.AttributePrefix,
		"markup text node name":   feedConfig.Markup.TextNodeName,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if feedConfig.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	if feedConfig.Markup.AttributePrefix == feedConfig.Markup.TextNodeName {
		return fmt.Errorf("markup attribute prefix and text node name must differ")
	}

	return nil
}
