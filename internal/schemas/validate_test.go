package schemas

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IshaanNene/NoticeGoat/internal/types"
)

func TestValidateFeedValid(t *testing.T) {
	d := time.Date(2024, time.August, 5, 0, 0, 0, 0, time.UTC)
	feed := types.FeedResult{
		RunID:     "7f0c",
		UpdatedAt: time.Now().UTC(),
		Count:     2,
		Items: []types.Notice{
			{
				Title: "SSC CGL Tier-II Result 2024", URL: "https://ssc.gov.in/cgl.pdf", PDF: "https://ssc.gov.in/cgl.pdf",
				Channel: types.ChannelResult, Date: &d, Categories: []string{"CGL"}, Source: "SSC",
			},
			{
				Title: "Weekly quiz", URL: "https://example.com/quiz",
				Channel: types.ChannelNews, Categories: []string{}, Source: "Blog",
			},
		},
		Errors: []string{"B: https://b.test/: connection reset"},
	}

	if err := ValidateFeed(feed); err != nil {
		t.Errorf("valid feed rejected: %v", err)
	}
}

func TestValidateFeedJSONMissingField(t *testing.T) {
	err := ValidateFeedJSON([]byte(`{"count": 0, "items": []}`))

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Errors) == 0 {
		t.Error("expected field errors")
	}
	if !strings.Contains(err.Error(), "updatedAt") {
		t.Errorf("error should mention updatedAt: %v", err)
	}
}

func TestValidateFeedJSONWrongTypes(t *testing.T) {
	doc := `{
		"updatedAt": "2024-08-05T00:00:00Z",
		"count": 1,
		"items": [{"title": "x", "url": "ftp://x", "channel": "bogus", "date": 5, "categories": null, "source": "S"}]
	}`
	err := ValidateFeedJSON([]byte(doc))

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Errors) < 3 {
		t.Errorf("expected at least 3 field errors, got %d: %v", len(ve.Errors), err)
	}
}

func TestValidateFeedJSONMalformed(t *testing.T) {
	err := ValidateFeedJSON([]byte(`{not json`))

	var le *SchemaLoadError
	if !errors.As(err, &le) {
		t.Errorf("malformed input should be a load error, got %v", err)
	}
}

func TestFeedSchemaEmbedded(t *testing.T) {
	if !strings.Contains(FeedSchema(), `"definitions"`) {
		t.Error("embedded schema should carry definitions")
	}
}
