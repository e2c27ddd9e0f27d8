package engine

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// Query selects and caps feed output.
type Query struct {
	// Channels keeps only notices in these channels. Empty keeps all.
	Channels []types.Channel

	// Sources keeps only notices whose source name contains one of these,
	// case-insensitively. Empty keeps all.
	Sources []string

	// Limit caps the ranked output. Zero or less means no cap.
	Limit int
}

// ParseList splits a comma-separated query value, dropping empty entries.
func ParseList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseChannels splits a comma-separated channel list. Unknown names are
// kept so that they match nothing rather than everything.
func ParseChannels(raw string) []types.Channel {
	var out []types.Channel
	for _, s := range ParseList(raw) {
		out = append(out, types.Channel(strings.ToLower(s)))
	}
	return out
}

// Filter drops notices without a URL and applies the query's channel and
// source selections.
func Filter(notices []types.Notice, q Query) []types.Notice {
	sources := make([]string, 0, len(q.Sources))
	for _, s := range q.Sources {
		sources = append(sources, strings.ToLower(s))
	}

	out := make([]types.Notice, 0, len(notices))
	for _, n := range notices {
		if n.URL == "" {
			continue
		}
		if len(q.Channels) > 0 && !slices.Contains(q.Channels, n.Channel) {
			continue
		}
		if len(sources) > 0 && !matchesAny(strings.ToLower(n.Source), sources) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func matchesAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Rank orders notices by channel priority, then newest first. Dated
// notices sort before undated ones within a channel, and ties keep their
// input order.
func Rank(notices []types.Notice) {
	sort.SliceStable(notices, func(i, j int) bool {
		a, b := &notices[i], &notices[j]
		if ra, rb := a.Channel.Rank(), b.Channel.Rank(); ra != rb {
			return ra < rb
		}
		switch {
		case a.Date != nil && b.Date != nil:
			return a.Date.After(*b.Date)
		case a.Date != nil:
			return true
		default:
			return false
		}
	})
}

// Truncate returns at most k notices. It must only be applied to ranked
// output. k <= 0 means no cap.
func Truncate(notices []types.Notice, k int) []types.Notice {
	if k <= 0 || len(notices) <= k {
		return notices
	}
	return notices[:k]
}

// Build runs filter, merge, rank and truncate, in that order, and wraps the
// result in a FeedResult.
func Build(notices []types.Notice, errs []string, q Query, now time.Time, runID string) types.FeedResult {
	items := Filter(notices, q)
	items = Merge(items)
	Rank(items)
	items = Truncate(items, q.Limit)

	return types.FeedResult{
		RunID:     runID,
		UpdatedAt: now,
		Count:     len(items),
		Items:     items,
		Errors:    errs,
	}
}
