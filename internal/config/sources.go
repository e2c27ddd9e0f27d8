package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// SourceConfig describes one scraped site.
type SourceConfig struct {
	Name       string       `mapstructure:"name"       yaml:"name"                 validate:"required"`
	BaseURL    string       `mapstructure:"base_url"   yaml:"base_url"             validate:"required,url"`
	Strategies []string     `mapstructure:"strategies" yaml:"strategies,omitempty" validate:"dive,oneof=listing table headings pdf-links feed"`
	Fetcher    string       `mapstructure:"fetcher"    yaml:"fetcher,omitempty"    validate:"omitempty,oneof=http browser"`
	Mode       string       `mapstructure:"mode"       yaml:"mode,omitempty"       validate:"omitempty,oneof=all first-working"`
	LinkBase   string       `mapstructure:"link_base"  yaml:"link_base,omitempty"  validate:"omitempty,url"`
	Disabled   bool         `mapstructure:"disabled"   yaml:"disabled,omitempty"`
	Pages      []PageConfig `mapstructure:"pages"      yaml:"pages"                validate:"required,min=1,dive"`
}

// PageConfig is one page of a source. URL may be relative to the source's
// base URL.
type PageConfig struct {
	URL        string   `mapstructure:"url"        yaml:"url"                  validate:"required"`
	Channel    string   `mapstructure:"channel"    yaml:"channel,omitempty"    validate:"omitempty,oneof=jobs admit-card result answer-key cutoff notification news"`
	Strategies []string `mapstructure:"strategies" yaml:"strategies,omitempty" validate:"dive,oneof=listing table headings pdf-links feed"`
}

// Build resolves the page URLs against the base URL and returns the
// immutable source descriptor used by the engine.
func (sc SourceConfig) Build() (types.Source, error) {
	base, err := url.Parse(sc.BaseURL)
	if err != nil || base.Host == "" {
		return types.Source{}, fmt.Errorf("source %q: %w: %s", sc.Name, types.ErrInvalidURL, sc.BaseURL)
	}

	src := types.Source{
		Name:       sc.Name,
		BaseURL:    base.String(),
		Strategies: toStrategies(sc.Strategies),
		Fetcher:    sc.Fetcher,
		Mode:       sc.Mode,
		LinkBase:   sc.LinkBase,
	}
	if src.Fetcher == "" {
		src.Fetcher = "http"
	}
	if src.Mode == "" {
		src.Mode = types.ModeAll
	}
	if len(src.Strategies) == 0 {
		src.Strategies = []types.Strategy{types.StrategyListing}
	}

	for _, p := range sc.Pages {
		ref, err := url.Parse(strings.TrimSpace(p.URL))
		if err != nil {
			return types.Source{}, fmt.Errorf("source %q page %q: %w", sc.Name, p.URL, types.ErrInvalidURL)
		}
		src.Pages = append(src.Pages, types.PageSpec{
			URL:        base.ResolveReference(ref).String(),
			Channel:    types.ParseChannel(p.Channel),
			Strategies: toStrategies(p.Strategies),
		})
	}
	if len(src.Pages) == 0 {
		return types.Source{}, fmt.Errorf("source %q: %w", sc.Name, types.ErrNoPages)
	}
	return src, nil
}

// BuildSources builds every enabled source.
func BuildSources(cfgs []SourceConfig) ([]types.Source, error) {
	var out []types.Source
	for _, sc := range cfgs {
		if sc.Disabled {
			continue
		}
		src, err := sc.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

func toStrategies(names []string) []types.Strategy {
	if len(names) == 0 {
		return nil
	}
	out := make([]types.Strategy, 0, len(names))
	for _, n := range names {
		out = append(out, types.Strategy(strings.TrimSpace(n)))
	}
	return out
}

// wordpress builds a listing-strategy source with the usual
// jobs/admit-card/result trio of category pages.
func wordpress(name, base, jobs, admit, result string) SourceConfig {
	return SourceConfig{
		Name:    name,
		BaseURL: base,
		Pages: []PageConfig{
			{URL: jobs, Channel: "jobs"},
			{URL: admit, Channel: "admit-card"},
			{URL: result, Channel: "result"},
		},
	}
}

// DefaultSources returns the built-in source catalog.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		wordpress("Testbook", "https://testbook.com", "/blog/latest-govt-jobs/", "/blog/admit-card/", "/blog/results/"),
		wordpress("Adda247", "https://www.adda247.com", "/jobs/", "/tag/admit-card/", "/sarkari-result/"),
		wordpress("Oliveboard", "https://www.oliveboard.in", "/blog/category/recruitment/", "/blog/category/admit-cards/", "/blog/category/results/"),
		{
			Name:     "T.I.M.E.",
			BaseURL:  "https://www.time4education.com/",
			LinkBase: "https://www.time4education.com/",
			Pages: []PageConfig{
				{URL: "local/articlecms/all.php?types=notres", Strategies: []string{"table"}},
				{URL: "local/articlecms/all.php?course=Bank&type=articles", Strategies: []string{"headings"}},
			},
		},
		wordpress("BYJU'S Exam Prep", "https://byjusexamprep.com", "/blog/category/government-jobs/", "/blog/category/admit-cards/", "/blog/category/results/"),
		wordpress("Career Power", "https://www.careerpower.in", "/blog/category/government-jobs", "/blog/tag/admit-card", "/blog/category/results"),
		{
			Name:    "PracticeMock",
			BaseURL: "https://www.practicemock.com",
			Pages:   []PageConfig{{URL: "/blog/", Channel: "news"}},
		},
		{
			Name:    "Guidely",
			BaseURL: "https://guidely.in",
			Pages: []PageConfig{
				{URL: "/blog/category/exams/notifications", Channel: "notification"},
				{URL: "/blog/category/exams/admit-card", Channel: "admit-card"},
				{URL: "/blog/category/exams/result", Channel: "result"},
			},
		},
		wordpress("ixamBee", "https://www.ixambee.com", "/blog/category/jobs", "/blog/category/admit-card", "/blog/category/result"),
		wordpress("BankersDaily", "https://www.bankersdaily.in", "/category/exams/recruitment/", "/category/admit-card/", "/category/results/"),
		wordpress("AffairsCloud", "https://affairscloud.com", "/jobs/", "/tag/admit-card/", "/tag/result/"),
		wordpress("Aglasem", "https://aglasem.com", "/category/jobs/", "/category/admit-card/", "/category/result/"),
		wordpress("StudyIQ", "https://studyiq.com", "/category/jobs/", "/category/admit-card/", "/category/result/"),
		wordpress("Examstocks", "https://www.examstocks.com", "/category/jobs/", "/category/admit-card/", "/category/result/"),
		{
			Name:       "SSC",
			BaseURL:    "https://ssc.gov.in",
			Strategies: []string{"pdf-links"},
			Mode:       types.ModeFirstWorking,
			Pages: []PageConfig{
				{URL: "/notice-board", Channel: "notification"},
				{URL: "/noticeboard", Channel: "notification"},
				{URL: "/Notices", Channel: "notification"},
				{URL: "/", Channel: "notification"},
			},
		},
	}
}
