package types

import (
	"bytes"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is a successfully fetched HTML document.
type Page struct {
	// URL is the URL that was requested.
	URL string

	// FinalURL is the URL after any redirects. Relative links resolve against it.
	FinalURL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Headers are the response HTTP headers.
	Headers http.Header

	// ContentType is the MIME type of the response.
	ContentType string

	// Body is the decoded response body.
	Body []byte

	// FetchDuration is how long the fetch took.
	FetchDuration time.Duration

	// FetchedAt is when the page was received.
	FetchedAt time.Time

	doc *goquery.Document
}

// NewPage builds a Page from an http.Response and its already-read body.
func NewPage(rawURL string, httpResp *http.Response, body []byte, duration time.Duration) *Page {
	finalURL := rawURL
	if httpResp.Request != nil && httpResp.Request.URL != nil {
		finalURL = httpResp.Request.URL.String()
	}
	return &Page{
		URL:           rawURL,
		FinalURL:      finalURL,
		StatusCode:    httpResp.StatusCode,
		Headers:       httpResp.Header,
		ContentType:   httpResp.Header.Get("Content-Type"),
		Body:          body,
		FetchDuration: duration,
		FetchedAt:     time.Now(),
	}
}

// NewBrowserPage builds a Page from headless browser output.
func NewBrowserPage(rawURL, finalURL string, body []byte, duration time.Duration) *Page {
	return &Page{
		URL:           rawURL,
		FinalURL:      finalURL,
		StatusCode:    http.StatusOK,
		Headers:       make(http.Header),
		ContentType:   "text/html",
		Body:          body,
		FetchDuration: duration,
		FetchedAt:     time.Now(),
	}
}

// BaseURL returns the URL relative links on the page resolve against.
func (p *Page) BaseURL() string {
	if p.FinalURL != "" {
		return p.FinalURL
	}
	return p.URL
}

// Document returns a parsed goquery document, lazily initializing it.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}
