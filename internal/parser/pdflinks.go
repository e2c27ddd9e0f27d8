package parser

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/NoticeGoat/internal/classify"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// PDFLinksExtractor reads notice boards that publish each notice as a PDF
// link with little structure around it. Metadata is recovered from the
// text of the block enclosing each link.
type PDFLinksExtractor struct {
	// Containers are XPath expressions tried in order; the first one whose
	// containers hold any PDF link wins. When none do, every PDF link in
	// the document is used.
	Containers []string
}

// NewPDFLinksExtractor returns a PDFLinksExtractor with the default
// notice-board container expressions.
func NewPDFLinksExtractor() *PDFLinksExtractor {
	return &PDFLinksExtractor{
		Containers: []string{
			`//*[contains(@class,'notice') or contains(@id,'notice') or contains(concat(' ',normalize-space(@class),' '),' list-group ')]`,
			`//*[self::li or self::tr or self::article or self::section or contains(concat(' ',normalize-space(@class),' '),' card ')]`,
		},
	}
}

var (
	viewText = regexp.MustCompile(`(?i)view|preview|eye|details`)
	viewHref = regexp.MustCompile(`(?i)view`)
)

// blockTags are the elements treated as the block a link belongs to.
var blockTags = map[string]bool{"li": true, "div": true, "tr": true, "section": true, "article": true}

// Strategy implements Extractor.
func (e *PDFLinksExtractor) Strategy() types.Strategy { return types.StrategyPDFLinks }

// Extract implements Extractor.
func (e *PDFLinksExtractor) Extract(in *Input) ([]types.Candidate, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(in.Page.Body))
	if err != nil {
		return nil, err
	}

	for _, expr := range e.Containers {
		containers, err := htmlquery.QueryAll(doc, expr)
		if err != nil {
			return nil, err
		}
		var links []*html.Node
		for _, c := range containers {
			links = append(links, pdfAnchors(c)...)
		}
		if out := e.collect(in, links); len(out) > 0 {
			return out, nil
		}
	}

	return e.collect(in, pdfAnchors(doc)), nil
}

// collect builds one candidate per distinct PDF URL.
func (e *PDFLinksExtractor) collect(in *Input, links []*html.Node) []types.Candidate {
	seen := make(map[string]bool)
	var out []types.Candidate
	for _, a := range links {
		pdf, ok := ResolveURL(in.LinkBase, htmlquery.SelectAttr(a, "href"))
		if !ok || seen[pdf] {
			continue
		}
		seen[pdf] = true

		block := closestBlock(a)
		blob := classify.CleanText(htmlquery.InnerText(block))

		title := classify.CleanText(htmlquery.InnerText(a))
		if title == "" {
			title = classify.CleanText(htmlquery.SelectAttr(a, "title"))
		}
		if title == "" {
			title = blob
		}
		if title == "" {
			title = "Untitled"
		}

		out = append(out, types.Candidate{
			Source:     in.Source,
			Title:      title,
			URL:        pdf,
			PDF:        pdf,
			View:       viewLink(in.LinkBase, block, a),
			DateText:   classify.NearDate(blob),
			Size:       classify.NearSize(blob),
			Categories: classify.ExtractCategories(title),
			Channel:    in.Channel,
		})
	}
	return out
}

// pdfAnchors returns the PDF anchors under n in document order.
func pdfAnchors(n *html.Node) []*html.Node {
	anchors, err := htmlquery.QueryAll(n, `.//a[@href]`)
	if err != nil {
		return nil
	}
	var out []*html.Node
	for _, a := range anchors {
		if isPDFLink(htmlquery.SelectAttr(a, "href")) {
			out = append(out, a)
		}
	}
	return out
}

// closestBlock walks up from n to the nearest block element, or the
// parent of n when there is none.
func closestBlock(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && blockTags[p.Data] {
			return p
		}
	}
	if n.Parent != nil {
		return n.Parent
	}
	return n
}

// viewLink finds a "view" or "details" companion link for a PDF within its
// block.
func viewLink(base string, block, pdf *html.Node) string {
	anchors, err := htmlquery.QueryAll(block, `.//a[@href]`)
	if err != nil {
		return ""
	}
	for _, a := range anchors {
		if a == pdf {
			continue
		}
		href := htmlquery.SelectAttr(a, "href")
		text := strings.TrimSpace(htmlquery.InnerText(a))
		if !viewText.MatchString(text) && !viewHref.MatchString(href) {
			continue
		}
		if link, ok := ResolveURL(base, href); ok {
			return link
		}
	}
	return ""
}
