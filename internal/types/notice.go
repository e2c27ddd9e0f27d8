package types

import (
	"strings"
	"time"
)

// Channel is the coarse category a notice belongs to.
type Channel string

// Known channels. Unclassified is the zero value.
const (
	ChannelJobs         Channel = "jobs"
	ChannelAdmitCard    Channel = "admit-card"
	ChannelResult       Channel = "result"
	ChannelAnswerKey    Channel = "answer-key"
	ChannelCutoff       Channel = "cutoff"
	ChannelNotification Channel = "notification"
	ChannelNews         Channel = "news"
	ChannelUnclassified Channel = ""
)

// Channels lists the known channels in ranking order.
var Channels = []Channel{
	ChannelJobs,
	ChannelAdmitCard,
	ChannelResult,
	ChannelAnswerKey,
	ChannelCutoff,
	ChannelNotification,
	ChannelNews,
}

// Rank returns the fixed priority of the channel. Lower sorts first;
// unclassified sorts after every known channel.
func (c Channel) Rank() int {
	for i, known := range Channels {
		if c == known {
			return i
		}
	}
	return len(Channels)
}

// Valid reports whether c is one of the known channels.
func (c Channel) Valid() bool {
	return c.Rank() < len(Channels)
}

// ParseChannel maps free text to a known channel, or ChannelUnclassified.
func ParseChannel(s string) Channel {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return ChannelUnclassified
}

// Candidate is an item as pulled off a page, before normalization.
// Extractors never emit one without a title and an absolute URL.
type Candidate struct {
	Source     string
	Title      string
	URL        string
	PDF        string
	View       string
	DateText   string
	Size       string
	Categories []string

	// Channel is a hint from the page descriptor or the extraction strategy.
	Channel Channel
}

// Notice is a normalized feed record. URL is its identity key.
type Notice struct {
	Title      string     `json:"title"                bson:"title"`
	URL        string     `json:"url"                  bson:"url"`
	PDF        string     `json:"pdf,omitempty"        bson:"pdf,omitempty"`
	View       string     `json:"view,omitempty"       bson:"view,omitempty"`
	Channel    Channel    `json:"channel"              bson:"channel"`
	Date       *time.Time `json:"date"                 bson:"date"`
	DateText   string     `json:"dateText,omitempty"   bson:"date_text,omitempty"`
	Categories []string   `json:"categories"           bson:"categories"`
	Size       string     `json:"size,omitempty"       bson:"size,omitempty"`
	Source     string     `json:"source"               bson:"source"`
}

// HasDate reports whether the notice carries any date information.
func (n *Notice) HasDate() bool {
	return n.Date != nil || n.DateText != ""
}

// FeedResult is the outcome of one aggregation run.
type FeedResult struct {
	RunID     string    `json:"runId,omitempty"  bson:"run_id"`
	UpdatedAt time.Time `json:"updatedAt"        bson:"updated_at"`
	Count     int       `json:"count"            bson:"count"`
	Items     []Notice  `json:"items"            bson:"items"`
	Errors    []string  `json:"errors,omitempty" bson:"errors,omitempty"`
}
