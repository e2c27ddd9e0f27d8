package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/NoticeGoat/internal/classify"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// HeadingSection names a heading label and the channel of the links under it.
type HeadingSection struct {
	Label   string
	Channel types.Channel
}

// HeadingsExtractor reads pages grouped into sections, each a heading
// followed by sibling blocks of links up to the next heading.
type HeadingsExtractor struct {
	Heading  string
	Sections []HeadingSection
}

// NewHeadingsExtractor returns a HeadingsExtractor for h2 sections.
func NewHeadingsExtractor() *HeadingsExtractor {
	return &HeadingsExtractor{
		Heading: "h2",
		Sections: []HeadingSection{
			{Label: "notifications / results", Channel: types.ChannelNotification},
			{Label: "news / articles", Channel: types.ChannelNews},
		},
	}
}

// Strategy implements Extractor.
func (e *HeadingsExtractor) Strategy() types.Strategy { return types.StrategyHeadings }

// Extract implements Extractor. Sections are collected in the order they
// are configured, not the order they appear on the page.
func (e *HeadingsExtractor) Extract(in *Input) ([]types.Candidate, error) {
	doc, err := in.Page.Document()
	if err != nil {
		return nil, err
	}

	var out []types.Candidate
	for _, section := range e.Sections {
		label := strings.ToLower(section.Label)
		doc.Find(e.Heading).Each(func(_ int, h *goquery.Selection) {
			if !strings.Contains(strings.ToLower(h.Text()), label) {
				return
			}
			for el := h.Next(); el.Length() > 0 && goquery.NodeName(el) != e.Heading; el = el.Next() {
				links := el.Find("a[href]")
				if goquery.NodeName(el) == "a" {
					links = links.AddSelection(el)
				}
				links.Each(func(_ int, a *goquery.Selection) {
					title := classify.CleanText(a.Text())
					href, _ := a.Attr("href")
					link, ok := ResolveURL(in.LinkBase, href)
					if title == "" || !ok {
						return
					}
					out = append(out, types.Candidate{
						Source:  in.Source,
						Title:   title,
						URL:     link,
						Channel: section.Channel,
					})
				})
			}
		})
	}
	return out, nil
}
