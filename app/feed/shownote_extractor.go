package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lysyi3m/shownotes-comb/app/markup"
	"golang.org/x/text/unicode/norm"
)

// ShownoteExtractor pulls (title, link) pairs out of the <ul><li><a>
// structure of an episode description.
type ShownoteExtractor struct {
	parser *markup.Parser
	cfg    markup.Config
}

func NewShownoteExtractor(parser *markup.Parser) *ShownoteExtractor {
	return &ShownoteExtractor{
		parser: parser,
		cfg:    parser.Config(),
	}
}

// Run never fails: fragments it cannot use are returned in Skipped.
func (e *ShownoteExtractor) Run(description string) Extraction {
	var extraction Extraction

	doc, err := e.parser.Parse(description)
	if err != nil {
		slog.Debug("Description could not be parsed", "error", err)
		extraction.Skipped = append(extraction.Skipped, SkippedFragment{
			Reason: ReasonUnparseable,
			Raw:    description,
		})
		return extraction
	}

	for _, ul := range markup.List(doc["ul"]) {
		ulNode, ok := markup.AsNode(ul)
		if !ok {
			continue
		}

		for _, li := range markup.List(ulNode["li"]) {
			shownote, reason, ok := e.extractItem(li)
			if !ok {
				extraction.Skipped = append(extraction.Skipped, SkippedFragment{
					Reason: reason,
					Raw:    rawFragment(li),
				})
				continue
			}
			extraction.Shownotes = append(extraction.Shownotes, shownote)
		}
	}

	return extraction
}

func (e *ShownoteExtractor) extractItem(li any) (Shownote, SkipReason, bool) {
	liNode, ok := markup.AsNode(li)
	if !ok {
		return Shownote{}, ReasonNoAnchor, false
	}

	anchors := markup.List(liNode["a"])
	if len(anchors) == 0 {
		return Shownote{}, ReasonNoAnchor, false
	}

	// <a>text</a> without attributes parses to a bare string: it has a
	// title but nowhere to point.
	anchor, ok := markup.AsNode(anchors[0])
	if !ok {
		if text, _ := anchors[0].(string); strings.TrimSpace(text) == "" {
			return Shownote{}, ReasonEmptyAnchorText, false
		}
		return Shownote{}, ReasonMissingHref, false
	}

	title, ok := e.cfg.Text(anchor)
	if !ok {
		return Shownote{}, ReasonEmptyAnchorText, false
	}

	link, ok := e.cfg.Attr(anchor, "href")
	link = strings.TrimSpace(link)
	if !ok || link == "" {
		return Shownote{}, ReasonMissingHref, false
	}

	return Shownote{
		Title: norm.NFC.String(strings.TrimSpace(title)),
		Link:  link,
	}, "", true
}

func rawFragment(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
