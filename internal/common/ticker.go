// Package common provides shared utilities across the application.
package common

import (
	"strings"
)

// IDXSuffix is the exchange suffix for Indonesia Stock Exchange listings.
// Every instrument handled by this service is an IDX listing; tickers
// arriving with a foreign suffix are rewritten to .JK.
const IDXSuffix = "JK"

// NormalizeTicker canonicalizes a ticker to the form CODE.JK, uppercase.
// The operation is idempotent.
//
//   - "bbca"      -> "BBCA.JK"
//   - "BBCA.jk"   -> "BBCA.JK"
//   - "BBCA.NY"   -> "BBCA.JK"
//   - "BBCA.JK"   -> "BBCA.JK"
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return ""
	}

	parts := strings.SplitN(ticker, ".", 2)
	if len(parts) > 1 {
		if !strings.EqualFold(parts[1], IDXSuffix) {
			ticker = parts[0] + "." + IDXSuffix
		}
	} else {
		ticker = parts[0] + "." + IDXSuffix
	}

	return strings.ToUpper(ticker)
}

// NormalizeTickers canonicalizes a list of tickers, dropping empties.
func NormalizeTickers(tickers []string) []string {
	result := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if normalized := NormalizeTicker(t); normalized != "" {
			result = append(result, normalized)
		}
	}
	return result
}

// TickerCode returns the bare code without the exchange suffix.
// "BBCA.JK" -> "BBCA".
func TickerCode(ticker string) string {
	normalized := NormalizeTicker(ticker)
	if idx := strings.Index(normalized, "."); idx > 0 {
		return normalized[:idx]
	}
	return normalized
}
