package parser

import (
	"bytes"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/IshaanNene/NoticeGoat/internal/classify"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// FeedExtractor reads RSS, Atom and JSON feeds, which many of the blog
// sources also publish alongside their HTML listings.
type FeedExtractor struct{}

// NewFeedExtractor returns a FeedExtractor.
func NewFeedExtractor() *FeedExtractor {
	return &FeedExtractor{}
}

// Strategy implements Extractor.
func (e *FeedExtractor) Strategy() types.Strategy { return types.StrategyFeed }

// Extract implements Extractor. A page that is not a feed is an error.
func (e *FeedExtractor) Extract(in *Input) ([]types.Candidate, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(in.Page.Body))
	if err != nil {
		return nil, err
	}

	base := in.LinkBase
	if feed.Link != "" {
		if l, ok := ResolveURL(base, feed.Link); ok {
			base = l
		}
	}

	var out []types.Candidate
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title := classify.CleanText(item.Title)
		link, ok := ResolveURL(base, item.Link)
		if title == "" || !ok {
			continue
		}

		var dateText string
		switch {
		case item.PublishedParsed != nil:
			dateText = item.PublishedParsed.UTC().Format(time.RFC3339)
		case item.UpdatedParsed != nil:
			dateText = item.UpdatedParsed.UTC().Format(time.RFC3339)
		default:
			dateText = item.Published
		}

		out = append(out, types.Candidate{
			Source:   in.Source,
			Title:    title,
			URL:      link,
			DateText: dateText,
			Channel:  in.Channel,
		})
	}
	return out, nil
}
