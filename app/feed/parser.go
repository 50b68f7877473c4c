package feed

import (
	"bytes"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// PubDateLayout is the canonical stored form: ISO-8601, UTC, milliseconds.
const PubDateLayout = "2006-01-02T15:04:05.000Z"

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Metadata, []Episode, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &ParseError{Err: err}
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
	}

	if feed.Image != nil {
		metadata.ImageURL = feed.Image.URL
	}

	if feed.PublishedParsed != nil {
		metadata.FeedPublishedAt = feed.PublishedParsed
	}

	episodes := make([]Episode, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		episodes = append(episodes, p.normalizeItem(item))
	}

	return metadata, episodes, nil
}

// Episodes yields the already parsed episodes one at a time in feed
// document order, stopping as soon as the consumer does.
func (p *Parser) Episodes(episodes []Episode) iter.Seq[Episode] {
	return func(yield func(Episode) bool) {
		for _, episode := range episodes {
			if !yield(episode) {
				return
			}
		}
	}
}

func (p *Parser) normalizeItem(item *gofeed.Item) Episode {
	episode := Episode{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		PubDate:     strings.TrimSpace(item.Published),
		Description: item.Description,
	}

	if item.PublishedParsed != nil {
		episode.PublishedAt = item.PublishedParsed
	}

	return episode
}

// NormalizedPubDate returns the canonical pubDate used for both the
// duplicate check and storage.
func (e Episode) NormalizedPubDate() (string, error) {
	if e.PublishedAt == nil {
		return "", fmt.Errorf("invalid pubDate %q", e.PubDate)
	}
	return NormalizePubDate(*e.PublishedAt), nil
}

func NormalizePubDate(t time.Time) string {
	return t.UTC().Format(PubDateLayout)
}
