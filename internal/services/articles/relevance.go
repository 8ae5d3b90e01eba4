package articles

import (
	"strings"

	"github.com/sahamlabs/emiten/internal/common"
	"github.com/sahamlabs/emiten/internal/models"
)

// topCompanyCount bounds the symbol list used by the relevance gate.
const topCompanyCount = 300

// indonesiaIndicators are the keywords whose presence in the title or
// body marks an article as Indonesia-relevant.
var indonesiaIndicators = []string{
	"INDONESIA", "INDONESIAN", "NUSANTARA", "JAVA", "JAKARTA", "JAWA",
	"IHSG", "IDR", "PT", "IDX", "TBK", "OJK",
}

// IsRelevant is the deterministic Indonesia-relevance gate: an article
// passes when its title or body mentions an indicator keyword or a
// top-market-cap symbol, or when it already carries tickers.
func (s *Service) IsRelevant(article *models.NewsArticle) bool {
	if len(article.Tickers) > 0 {
		return true
	}

	words := tokenize(article.Title)
	words = append(words, tokenize(article.Body)...)

	wanted := make(map[string]struct{}, len(indonesiaIndicators)+topCompanyCount)
	for _, kw := range indonesiaIndicators {
		wanted[kw] = struct{}{}
	}
	for _, symbol := range s.reference.TopCompanySymbols(topCompanyCount) {
		wanted[symbol] = struct{}{}
		// Directory symbols carry the .JK suffix; articles mention the
		// bare code.
		wanted[common.TickerCode(symbol)] = struct{}{}
	}

	for _, word := range words {
		if _, ok := wanted[word]; ok {
			return true
		}
	}
	return false
}

// tokenize upper-cases and splits on the separators seen in wire text.
func tokenize(text string) []string {
	replacer := strings.NewReplacer(",", " ", ".", " ", "-", " ", "'", " ")
	return strings.Fields(replacer.Replace(strings.ToUpper(text)))
}
