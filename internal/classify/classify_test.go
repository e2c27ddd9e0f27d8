package classify

import (
	"reflect"
	"testing"
	"time"

	"github.com/IshaanNene/NoticeGoat/internal/types"
)

func TestClassifyChannel(t *testing.T) {
	tests := []struct {
		title    string
		fallback types.Channel
		expected types.Channel
	}{
		{"SSC CGL Tier-II Result 2024", "", types.ChannelResult},
		{"SSC GD Admit Card 2024 and Result Date", "", types.ChannelAdmitCard},
		{"RRB Group D Hall Ticket Out", "", types.ChannelAdmitCard},
		{"IBPS PO Recruitment 2024 Apply Online", "", types.ChannelJobs},
		{"UPSC Releases Exam Calendar", "", types.ChannelNotification},
		{"SSC CHSL Answer Key 2024 Out", "", types.ChannelAnswerKey},
		{"RRB NTPC Cut Off 2024", "", types.ChannelCutoff},
		{"SBI Clerk Final Selection List", "", types.ChannelResult},
		{"Monthly current affairs quiz", "", types.ChannelNews},
		{"Monthly current affairs quiz", types.ChannelJobs, types.ChannelJobs},
		{"Monthly current affairs quiz", types.Channel("bogus"), types.ChannelNews},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := ClassifyChannel(tt.title, tt.fallback)
			if got != tt.expected {
				t.Errorf("ClassifyChannel(%q, %q) = %q, want %q", tt.title, tt.fallback, got, tt.expected)
			}
		})
	}
}

func TestClassifyChannelIsStable(t *testing.T) {
	title := "SSC Selection Post Phase XII Notification"
	first := ClassifyChannel(title, types.ChannelNews)
	for i := 0; i < 5; i++ {
		if got := ClassifyChannel(title, types.ChannelNews); got != first {
			t.Fatalf("call %d returned %q, first call returned %q", i, got, first)
		}
	}
}

func TestParseDate(t *testing.T) {
	aug5 := time.Date(2024, time.August, 5, 0, 0, 0, 0, time.UTC)
	aug12 := time.Date(2024, time.August, 12, 0, 0, 0, 0, time.UTC)
	sep5 := time.Date(2024, time.September, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input    string
		expected *time.Time
	}{
		{"Posted on 05-Aug-2024", &aug5},
		{"August 5, 2024", &aug5},
		{"2024-08-05", &aug5},
		{"Aug 5, 2024", &aug5},
		{"5 Sept 2024", &sep5},
		{"12/08/2024", &aug12},
		{"Updated: Aug 05, 2024 | 10:30", &aug5},
		{"2024-08-05T00:00:00Z", &aug5},
		{"", nil},
		{"no date here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.expected == nil {
				if got != nil {
					t.Errorf("ParseDate(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseDate(%q) = nil, want %v", tt.input, tt.expected)
			}
			if !got.Equal(*tt.expected) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	inputs := []string{"Posted on 05-Aug-2024", "March 3, 2023", "2022-12-31", "Tue, 10 Sep 2024 08:00:00 +0530"}
	for _, in := range inputs {
		first := ParseDate(in)
		if first == nil {
			t.Fatalf("ParseDate(%q) = nil", in)
		}
		again := ParseDate(first.Format(time.RFC3339))
		if again == nil || !again.Equal(*first) {
			t.Errorf("reparse of %q: got %v, want %v", in, again, first)
		}
	}
}

func TestExtractCategories(t *testing.T) {
	got := ExtractCategories("SSC JE and Junior Engineer, CGL Stenographer exam")
	want := []string{"JE", "STENO", "CGL"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractCategories = %v, want %v", got, want)
	}

	if got := ExtractCategories("India Post GDS Result"); !reflect.DeepEqual(got, []string{"GDS"}) {
		t.Errorf("GDS should not also tag GD, got %v", got)
	}
	if got := ExtractCategories("Bank exam calendar"); got != nil {
		t.Errorf("expected no categories, got %v", got)
	}
}

func TestNearDateAndSize(t *testing.T) {
	blob := "Notice regarding CGL 2024 uploaded 12 Aug 2024 (1.5 mb) View"
	if got := NearDate(blob); got != "12 Aug 2024" {
		t.Errorf("NearDate = %q, want %q", got, "12 Aug 2024")
	}
	if got := NearSize(blob); got != "1.5 MB" {
		t.Errorf("NearSize = %q, want %q", got, "1.5 MB")
	}
	if got := NearSize("no size"); got != "" {
		t.Errorf("NearSize = %q, want empty", got)
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  SSC \n\t CGL   Result "); got != "SSC CGL Result" {
		t.Errorf("CleanText = %q", got)
	}
}

func BenchmarkClassifyChannel(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ClassifyChannel("SSC CGL Tier-II Result 2024 declared, check merit list", "")
	}
}
