package models

import "strings"

// RawArticle is a news-article submit/update payload before sanitization.
// The sub-sector field arrives as a string or a list under two spellings;
// SubSectors resolves it once.
type RawArticle struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title,omitempty"`
	Body      string `json:"body,omitempty"`
	Source    string `json:"source" validate:"required"`
	Timestamp string `json:"timestamp" validate:"required"`

	Sector       string      `json:"sector,omitempty"`
	SubSectorRaw interface{} `json:"sub_sector,omitempty"`
	SubsectorAlt interface{} `json:"subsector,omitempty"`

	Tags      []string    `json:"tags,omitempty"`
	Tickers   []string    `json:"tickers,omitempty"`
	Dimension string      `json:"dimension,omitempty"`
	Score     interface{} `json:"score,omitempty"`
}

// SubSectors resolves the sub_sector/subsector alias, accepting a single
// string or a list of strings.
func (r *RawArticle) SubSectors() []string {
	for _, v := range []interface{}{r.SubSectorRaw, r.SubsectorAlt} {
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return []string{s}
			}
		case []string:
			if len(t) > 0 {
				return t
			}
		case []interface{}:
			out := make([]string, 0, len(t))
			for _, e := range t {
				if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}
