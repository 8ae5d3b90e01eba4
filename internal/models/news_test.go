package models

import (
	"testing"
	"time"
)

func TestNewsFromFiling(t *testing.T) {
	filing := &Filing{
		Title:     "Informasi insider trading",
		Body:      "Body text",
		Source:    "https://idx.co.id/filing/1",
		Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Sector:    "financials",
		SubSector: "banks",
		Ticker:    "BBCA.JK",
		Tags:      []string{"investment", "takeover", "bullish"},
	}

	news := NewsFromFiling(filing)

	if news.Title != filing.Title || news.Body != filing.Body {
		t.Errorf("title/body not copied: %q / %q", news.Title, news.Body)
	}
	if len(news.SubSector) != 1 || news.SubSector[0] != "banks" {
		t.Errorf("sub_sector = %v, want singleton [banks]", news.SubSector)
	}
	wantTags := []string{"bullish", "insider-trading"}
	if len(news.Tags) != len(wantTags) {
		t.Fatalf("tags = %v, want %v", news.Tags, wantTags)
	}
	for i := range wantTags {
		if news.Tags[i] != wantTags[i] {
			t.Errorf("tags[%d] = %q, want %q", i, news.Tags[i], wantTags[i])
		}
	}
	if len(news.Tickers) != 1 || news.Tickers[0] != "BBCA.JK" {
		t.Errorf("tickers = %v, want [BBCA.JK]", news.Tickers)
	}
}

func TestNewsFromFilingNoSentiment(t *testing.T) {
	filing := &Filing{Tags: []string{"divestment", "mesop"}, Ticker: "TLKM.JK"}
	news := NewsFromFiling(filing)
	if len(news.Tags) != 1 || news.Tags[0] != "insider-trading" {
		t.Errorf("tags = %v, want [insider-trading]", news.Tags)
	}
}
