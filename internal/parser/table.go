package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/NoticeGoat/internal/classify"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// TableExtractor reads notice tables laid out as type | linked title | date.
type TableExtractor struct {
	Rows string
}

// NewTableExtractor returns a TableExtractor over every table row.
func NewTableExtractor() *TableExtractor {
	return &TableExtractor{Rows: "table tr"}
}

// Strategy implements Extractor.
func (e *TableExtractor) Strategy() types.Strategy { return types.StrategyTable }

// Extract implements Extractor. Rows with fewer than three cells are
// headers or spacers and are skipped.
func (e *TableExtractor) Extract(in *Input) ([]types.Candidate, error) {
	doc, err := in.Page.Document()
	if err != nil {
		return nil, err
	}

	var out []types.Candidate
	doc.Find(e.Rows).Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 3 {
			return
		}

		a := tds.Eq(1).Find("a").First()
		title := classify.CleanText(a.Text())
		href, _ := a.Attr("href")
		link, ok := ResolveURL(in.LinkBase, href)
		if title == "" || !ok {
			return
		}

		out = append(out, types.Candidate{
			Source:   in.Source,
			Title:    title,
			URL:      link,
			DateText: classify.CleanText(tds.Eq(2).Text()),
			Channel:  rowChannel(tds.Eq(0).Text()),
		})
	})
	return out, nil
}

// rowChannel maps the type column to a channel hint.
func rowChannel(typeText string) types.Channel {
	t := strings.ToLower(typeText)
	switch {
	case strings.Contains(t, "result"):
		return types.ChannelResult
	case strings.Contains(t, "noti"):
		return types.ChannelNotification
	default:
		return types.ChannelNews
	}
}
