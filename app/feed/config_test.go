package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigValid(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com/podcast.xml"

settings:
  enabled: true
  timeout: 15

markup:
  attribute_prefix: "@"
  text_node_name: "#text"
  always_array:
    - "ul"
    - "ul.li"
    - "ol.li"
`

	configFile := filepath.Join(tempDir, "feed.yml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	feedConfig, err := LoadConfig(configFile)
	if err != nil {
		t.Fatal(err)
	}

	if feedConfig.URL != "https://example.com/podcast.xml" {
		t.Errorf("Expected URL 'https://example.com/podcast.xml', got '%s'", feedConfig.URL)
	}
	if !feedConfig.Settings.Enabled {
		t.Error("Expected feed to be enabled")
	}
	if feedConfig.TimeoutDuration() != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", feedConfig.TimeoutDuration())
	}
	if feedConfig.Markup.AttributePrefix != "@" {
		t.Errorf("Expected attribute prefix '@', got '%s'", feedConfig.Markup.AttributePrefix)
	}
	if len(feedConfig.Markup.AlwaysArray) != 3 {
		t.Errorf("Expected 3 always-array paths, got %d", len(feedConfig.Markup.AlwaysArray))
	}

	parserConfig := feedConfig.Markup.ParserConfig()
	if !parserConfig.IsArray("ol.li") {
		t.Error("Expected ol.li to be forced to an array")
	}
	if parserConfig.IsArray("ol") {
		t.Error("Expected ol not to be forced to an array")
	}
}

func TestLoadConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com/podcast.xml"
`

	configFile := filepath.Join(tempDir, "feed.yml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	feedConfig, err := LoadConfig(configFile)
	if err != nil {
		t.Fatal(err)
	}

	if !feedConfig.Settings.Enabled {
		t.Error("Expected feed to be enabled by default")
	}
	if feedConfig.TimeoutDuration() != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", feedConfig.TimeoutDuration())
	}
	if feedConfig.Markup.AttributePrefix != "__" || feedConfig.Markup.TextNodeName != "$text" {
		t.Errorf("Expected default markup config, got %+v", feedConfig.Markup)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	feedConfig, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}

	if feedConfig.URL != DefaultFeedURL {
		t.Errorf("Expected default URL '%s', got '%s'", DefaultFeedURL, feedConfig.URL)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty url", `url: ""`},
		{"negative timeout", "settings:\n  timeout: -1\n"},
		{"prefix equals text node", "markup:\n  attribute_prefix: \"x\"\n  text_node_name: \"x\"\n"},
		{"malformed yaml", "url: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "feed.yml")
			if err := os.WriteFile(configFile, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			if _, err := LoadConfig(configFile); err == nil {
				t.Error("Expected error for invalid configuration")
			}
		})
	}
}
