package pipeline

import (
	"html"
	"regexp"
	"strings"

	"github.com/IshaanNene/NoticeGoat/internal/classify"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// HTMLSanitizeMiddleware strips HTML tags and entities from text fields.
type HTMLSanitizeMiddleware struct {
	stripRe *regexp.Regexp
}

func NewHTMLSanitizeMiddleware() *HTMLSanitizeMiddleware {
	return &HTMLSanitizeMiddleware{
		stripRe: regexp.MustCompile(`<[^>]*>`),
	}
}

func (m *HTMLSanitizeMiddleware) Name() string { return "html_sanitize" }

func (m *HTMLSanitizeMiddleware) Process(n *types.Notice) (*types.Notice, error) {
	n.Title = m.clean(n.Title)
	n.DateText = m.clean(n.DateText)
	n.Source = strings.TrimSpace(n.Source)
	n.URL = strings.TrimSpace(n.URL)
	return n, nil
}

func (m *HTMLSanitizeMiddleware) clean(s string) string {
	if s == "" {
		return s
	}
	cleaned := m.stripRe.ReplaceAllString(s, "")
	cleaned = html.UnescapeString(cleaned)
	return classify.CleanText(cleaned)
}

// RequiredFieldsMiddleware drops notices without a title or URL.
type RequiredFieldsMiddleware struct{}

func (m *RequiredFieldsMiddleware) Name() string { return "required_fields" }

func (m *RequiredFieldsMiddleware) Process(n *types.Notice) (*types.Notice, error) {
	if n.Title == "" || n.URL == "" {
		return nil, nil
	}
	return n, nil
}

// ClassifyMiddleware assigns the channel from the title, keeping the
// provisional channel as the fallback.
type ClassifyMiddleware struct{}

func (m *ClassifyMiddleware) Name() string { return "classify" }

func (m *ClassifyMiddleware) Process(n *types.Notice) (*types.Notice, error) {
	n.Channel = classify.ClassifyChannel(n.Title, n.Channel)
	return n, nil
}

// DateMiddleware parses the date text. Unparseable text is kept as is so
// clients can still show it.
type DateMiddleware struct{}

func (m *DateMiddleware) Name() string { return "date" }

func (m *DateMiddleware) Process(n *types.Notice) (*types.Notice, error) {
	if n.Date == nil && n.DateText != "" {
		n.Date = classify.ParseDate(n.DateText)
	}
	return n, nil
}

// CategoryMiddleware adds exam tags found in the title to any the extractor
// already set. Categories is never nil afterwards.
type CategoryMiddleware struct{}

func (m *CategoryMiddleware) Name() string { return "categories" }

func (m *CategoryMiddleware) Process(n *types.Notice) (*types.Notice, error) {
	n.Categories = MergeCategories(n.Categories, classify.ExtractCategories(n.Title))
	return n, nil
}

// MergeCategories returns the union of a and b, keeping first-seen order.
// The result is never nil.
func MergeCategories(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, c := range list {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
