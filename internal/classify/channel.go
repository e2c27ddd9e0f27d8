// Package classify holds the pure text rules that turn raw candidate text
// into feed metadata: channel, date, categories, size.
package classify

import (
	"regexp"
	"strings"

	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// Rule maps a title pattern to a channel.
type Rule struct {
	Channel types.Channel
	Pattern *regexp.Regexp
}

// ChannelRules is the ordered rule table used by ClassifyChannel. The first
// matching rule wins, so a title naming both an admit card and a result is
// an admit card.
var ChannelRules = []Rule{
	{types.ChannelAdmitCard, regexp.MustCompile(`\b(admit[-\s]?card|hall[-\s]?ticket|call[-\s]?letter)\b`)},
	{types.ChannelResult, regexp.MustCompile(`\bresults?|merit list|final selection|score ?card\b`)},
	{types.ChannelNotification, regexp.MustCompile(`\bnotification|releases?|announces?|corrigendum\b`)},
	{types.ChannelJobs, regexp.MustCompile(`\brecruitment|vacanc(y|ies)|apply online|application form|\bjobs?\b`)},
	{types.ChannelAnswerKey, regexp.MustCompile(`\banswer[-\s]?key|response[-\s]?(key|sheet)\b`)},
	{types.ChannelCutoff, regexp.MustCompile(`\bcut[-\s]?offs?\b`)},
}

// ClassifyChannel assigns a channel from the title. When no rule matches it
// returns fallback if that is a known channel, else news.
func ClassifyChannel(title string, fallback types.Channel) types.Channel {
	t := strings.ToLower(title)
	for _, r := range ChannelRules {
		if r.Pattern.MatchString(t) {
			return r.Channel
		}
	}
	if fallback.Valid() {
		return fallback
	}
	return types.ChannelNews
}
