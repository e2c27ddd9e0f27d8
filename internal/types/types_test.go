package types

import (
	"errors"
	"strings"
	"testing"
)

func TestChannelRank(t *testing.T) {
	for i, c := range Channels {
		if c.Rank() != i {
			t.Errorf("%s: expected rank %d, got %d", c, i, c.Rank())
		}
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
	if ChannelUnclassified.Rank() != len(Channels) {
		t.Errorf("unclassified should rank last, got %d", ChannelUnclassified.Rank())
	}
	if ChannelUnclassified.Valid() || Channel("bogus").Valid() {
		t.Error("unknown channels should not be valid")
	}
	if ChannelJobs.Rank() >= ChannelNews.Rank() {
		t.Error("jobs should outrank news")
	}
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		input string
		want  Channel
	}{
		{"jobs", ChannelJobs},
		{" Admit-Card ", ChannelAdmitCard},
		{"RESULT", ChannelResult},
		{"", ChannelUnclassified},
		{"sports", ChannelUnclassified},
	}
	for _, tt := range tests {
		if got := ParseChannel(tt.input); got != tt.want {
			t.Errorf("ParseChannel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestErrorChains(t *testing.T) {
	fe := &FetchError{URL: "https://ssc.gov.in/", StatusCode: 503, Err: ErrHTTPStatus}
	pe := &PageError{Source: "SSC", Page: "https://ssc.gov.in/", Err: fe}

	if !errors.Is(pe, ErrHTTPStatus) {
		t.Error("page error should unwrap to the fetch cause")
	}
	var got *FetchError
	if !errors.As(pe, &got) || got.StatusCode != 503 {
		t.Error("page error should expose the fetch error")
	}
	if !strings.HasPrefix(pe.Error(), "SSC: https://ssc.gov.in/: ") {
		t.Errorf("unexpected message %q", pe.Error())
	}

	se := &SourceError{Source: "Adda247", Err: ErrNoFetcher}
	if !errors.Is(se, ErrNoFetcher) || !strings.HasPrefix(se.Error(), "Adda247: ") {
		t.Errorf("unexpected source error %q", se.Error())
	}
}

func TestNoticeHasDate(t *testing.T) {
	var n Notice
	if n.HasDate() {
		t.Error("zero notice has no date")
	}
}

func TestLinkBaseFor(t *testing.T) {
	src := Source{Name: "Testbook", BaseURL: "https://testbook.com"}

	tests := []struct {
		name     string
		linkBase string
		pageURL  string
		want     string
	}{
		{"base url on same host", "", "https://testbook.com/blog/results/", "https://testbook.com"},
		{"host compare ignores case", "", "https://TestBook.com/jobs/", "https://testbook.com"},
		{"other host keeps page url", "", "https://cdn.example.org/list/", "https://cdn.example.org/list/"},
		{"link base wins", "https://www.testbook.com/", "https://testbook.com/blog/", "https://www.testbook.com/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := src
			s.LinkBase = tt.linkBase
			page := NewBrowserPage(tt.pageURL, tt.pageURL, nil, 0)
			if got := s.LinkBaseFor(page); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	noBase := Source{Name: "Bare"}
	page := NewBrowserPage("https://bare.example/a/", "https://bare.example/a/", nil, 0)
	if got := noBase.LinkBaseFor(page); got != "https://bare.example/a/" {
		t.Errorf("source without base url should use the page url, got %q", got)
	}
}
