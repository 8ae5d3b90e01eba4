package models

import (
	"sort"
	"strings"
	"time"
)

// NewsArticle is the public news-feed projection of an article or filing.
type NewsArticle struct {
	ID        string    `json:"id" badgerhold:"key"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Sector    string    `json:"sector"`
	SubSector []string  `json:"sub_sector"`
	Tags      []string  `json:"tags"`
	Tickers   []string  `json:"tickers"`
	Dimension string    `json:"dimension,omitempty"`
	Score     *int      `json:"score,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewsFromFiling projects a filing into the news feed. The narrative is
// copied, the sub-sector is wrapped as a singleton list and the tag set is
// narrowed to "insider-trading" plus a sentiment tag when the filing
// carries one.
func NewsFromFiling(f *Filing) *NewsArticle {
	tags := []string{"insider-trading"}
	for _, tag := range f.Tags {
		lower := strings.ToLower(tag)
		if lower == "bullish" || lower == "bearish" {
			tags = append(tags, lower)
		}
	}
	sort.Strings(tags)

	var subSector []string
	if f.SubSector != "" {
		subSector = []string{f.SubSector}
	}

	return &NewsArticle{
		Title:     f.Title,
		Body:      f.Body,
		Source:    f.Source,
		Timestamp: f.Timestamp,
		Sector:    f.Sector,
		SubSector: subSector,
		Tags:      tags,
		Tickers:   []string{f.Ticker},
	}
}
