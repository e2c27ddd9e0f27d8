package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/NoticeGoat/internal/classify"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// ListingExtractor reads blog-style listing pages: one container per post
// with a heading link and an optional date element. This covers most
// WordPress themes.
type ListingExtractor struct {
	Containers         string
	FallbackContainers string
	TitleLinks         string
	DateElements       string
}

// NewListingExtractor returns a ListingExtractor with the default selectors.
func NewListingExtractor() *ListingExtractor {
	return &ListingExtractor{
		Containers:         "article",
		FallbackContainers: ".post, .blog-post, .td-module-container, .elementor-post, li, .card",
		TitleLinks:         "h2 a[href], h3 a[href], .entry-title a[href], a[rel='bookmark'], .post-title a[href], .td-module-title a[href]",
		DateElements:       "[class*='date'], .posted-on, .post-date, .elementor-post-date",
	}
}

// Strategy implements Extractor.
func (e *ListingExtractor) Strategy() types.Strategy { return types.StrategyListing }

// Extract implements Extractor. The fallback containers are only swept
// when the primary ones yield nothing.
func (e *ListingExtractor) Extract(in *Input) ([]types.Candidate, error) {
	doc, err := in.Page.Document()
	if err != nil {
		return nil, err
	}

	var out []types.Candidate
	pick := func(_ int, root *goquery.Selection) {
		if c, ok := e.pick(in, root); ok {
			out = append(out, c)
		}
	}

	doc.Find(e.Containers).Each(pick)
	if len(out) == 0 && e.FallbackContainers != "" {
		doc.Find(e.FallbackContainers).Each(pick)
	}
	return out, nil
}

func (e *ListingExtractor) pick(in *Input, root *goquery.Selection) (types.Candidate, bool) {
	a := root.Find(e.TitleLinks).First()
	title := classify.CleanText(a.Text())
	href, _ := a.Attr("href")
	link, ok := ResolveURL(in.LinkBase, href)
	if title == "" || !ok {
		return types.Candidate{}, false
	}

	return types.Candidate{
		Source:   in.Source,
		Title:    title,
		URL:      link,
		DateText: e.dateText(root),
		Channel:  in.Channel,
	}, true
}

// dateText prefers a machine-readable datetime attribute, then the time
// element text, then anything that looks like a date element.
func (e *ListingExtractor) dateText(root *goquery.Selection) string {
	t := root.Find("time").First()
	if dt, ok := t.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	if txt := classify.CleanText(t.Text()); txt != "" {
		return txt
	}
	return classify.CleanText(root.Find(e.DateElements).First().Text())
}
