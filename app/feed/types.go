package feed

import (
	"time"

	"github.com/lysyi3m/shownotes-comb/app/markup"
)

// Feed processing types

type Metadata struct {
	Title           string
	Link            string
	Description     string
	ImageURL        string
	Language        string
	FeedPublishedAt *time.Time
}

// Episode is one feed item as read from the document, before dedup.
type Episode struct {
	Title       string
	Link        string
	PubDate     string     // raw pubDate text from the feed
	PublishedAt *time.Time // parsed PubDate, nil when unparseable
	Description string     // raw description markup
}

// Shownote is a (title, link) candidate extracted from a description.
type Shownote struct {
	Title string
	Link  string
}

type SkipReason string

const (
	ReasonNoAnchor        SkipReason = "no_anchor"
	ReasonEmptyAnchorText SkipReason = "empty_anchor_text"
	ReasonMissingHref     SkipReason = "missing_href"
	ReasonUnparseable     SkipReason = "unparseable"
)

type SkippedFragment struct {
	Reason SkipReason
	Raw    string // JSON rendering of the fragment subtree
}

type Extraction struct {
	Shownotes []Shownote
	Skipped   []SkippedFragment
}

func (e Extraction) SkippedCount() int {
	return len(e.Skipped)
}

// Configuration types

type Config struct {
	URL      string         `yaml:"url"`
	Settings ConfigSettings `yaml:"settings"`
	Markup   ConfigMarkup   `yaml:"markup"`
}

type ConfigSettings struct {
	Enabled bool `yaml:"enabled"`
	Timeout int  `yaml:"timeout"` // seconds
}

type ConfigMarkup struct {
	AttributePrefix string   `yaml:"attribute_prefix"`
	TextNodeName    string   `yaml:"text_node_name"`
	AlwaysArray     []string `yaml:"always_array"`
}

// ParserConfig turns the markup section into an immutable parser config.
func (m ConfigMarkup) ParserConfig() markup.Config {
	return markup.Config{
		AttributePrefix: m.AttributePrefix,
		TextNodeName:    m.TextNodeName,
		IsArray:         markup.ArrayPaths(m.AlwaysArray...),
	}
}
