package engine

import (
	"net/url"
	"sort"
	"strings"

	"github.com/IshaanNene/NoticeGoat/internal/pipeline"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// Merge collapses notices sharing a URL into one. The first-seen notice
// keeps its title, source and channel; gaps in its date and link metadata
// are filled from later duplicates. Output order is first-seen order.
func Merge(notices []types.Notice) []types.Notice {
	index := make(map[string]int, len(notices))
	out := make([]types.Notice, 0, len(notices))

	for _, n := range notices {
		if n.URL == "" {
			continue
		}
		key := CanonicalizeURL(n.URL)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, n)
			continue
		}

		prev := &out[i]
		if prev.Date == nil && n.Date != nil {
			prev.Date = n.Date
			prev.DateText = n.DateText
		} else if prev.DateText == "" && n.DateText != "" {
			prev.DateText = n.DateText
		}
		if prev.PDF == "" {
			prev.PDF = n.PDF
		}
		if prev.View == "" {
			prev.View = n.View
		}
		if prev.Size == "" {
			prev.Size = n.Size
		}
		if len(n.Categories) > 0 {
			prev.Categories = pipeline.MergeCategories(prev.Categories, n.Categories)
		}
	}
	return out
}

// CanonicalizeURL normalizes a URL for deduplication:
// - lowercases scheme and host
// - removes fragment
// - sorts query parameters
// - removes trailing slash (except root)
// - removes default ports (80 for http, 443 for https)
func CanonicalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	host := u.Hostname()
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		u.Host = host
	}

	if u.RawQuery != "" {
		params := u.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var sorted []string
		for _, k := range keys {
			vals := params[k]
			sort.Strings(vals)
			for _, v := range vals {
				sorted = append(sorted, url.QueryEscape(k)+"="+url.QueryEscape(v))
			}
		}
		u.RawQuery = strings.Join(sorted, "&")
	}

	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
