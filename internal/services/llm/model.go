package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

// Chatter is the completion capability Model is built on; satisfied by
// *Collection and by fakes in tests.
type Chatter interface {
	Chat(ctx context.Context, messages []interfaces.Message) (string, error)
}

// Model implements TextGenerator, Classifier and FilingParser on top of
// a chat backend. All structured outputs are requested as JSON and run
// through repair before decoding; chat models habitually wrap JSON in
// markdown fences or drop a trailing brace.
type Model struct {
	chat   Chatter
	logger arbor.ILogger
}

// NewModel wraps a chat backend.
func NewModel(chat Chatter, logger arbor.ILogger) *Model {
	return &Model{chat: chat, logger: logger}
}

const summarizeFilingSystem = `You are a financial news writer covering the Indonesia Stock Exchange.
Given an insider-trading disclosure, write a short news item in Indonesian.
Respond with JSON: {"title": "...", "body": "..."}`

// SummarizeFiling rewrites a filing's templated narrative as a short
// news item.
func (m *Model) SummarizeFiling(ctx context.Context, filing *models.Filing) (string, string, error) {
	payload, err := json.Marshal(filing)
	if err != nil {
		return "", "", err
	}

	var out struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := m.structured(ctx, summarizeFilingSystem, string(payload), &out); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(out.Title), strings.TrimSpace(out.Body), nil
}

const summarizeArticleSystem = `You are a financial news editor covering the Indonesia Stock Exchange.
Summarize the news article at the given URL for retail investors.
Respond with JSON: {"title": "...", "body": "..."}`

// SummarizeArticle produces a title and summary for a source URL.
func (m *Model) SummarizeArticle(ctx context.Context, url string) (string, string, error) {
	var out struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := m.structured(ctx, summarizeArticleSystem, url, &out); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(out.Title), strings.TrimSpace(out.Body), nil
}

// Tickers extracts IDX ticker symbols mentioned in the text.
func (m *Model) Tickers(ctx context.Context, body string) ([]string, error) {
	var out []string
	err := m.structured(ctx,
		`List the IDX stock ticker symbols of companies central to this text. Respond with a JSON array of strings, e.g. ["BBCA", "TLKM"]. Respond with [] if none.`,
		body, &out)
	return out, err
}

// Tags derives topic tags for the text.
func (m *Model) Tags(ctx context.Context, body string) ([]string, error) {
	var out []string
	err := m.structured(ctx,
		`Assign topical tags to this Indonesian financial news text (e.g. "IPO", "dividend", "merger", "earnings"). Respond with a JSON array of strings.`,
		body, &out)
	return out, err
}

// Sentiment classifies the text as bullish, bearish or neutral.
func (m *Model) Sentiment(ctx context.Context, body string) (string, error) {
	var out []string
	err := m.structured(ctx,
		`Classify the market sentiment of this text. Respond with a JSON array containing exactly one of "bullish", "bearish", "neutral".`,
		body, &out)
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty sentiment response")
	}
	return strings.ToLower(out[0]), nil
}

// SubSector picks the best-fitting IDX sub-sector for the text.
func (m *Model) SubSector(ctx context.Context, body string) (string, error) {
	var out struct {
		SubSector string `json:"sub_sector"`
	}
	err := m.structured(ctx,
		`Identify the IDX sub-sector this text is about (e.g. "banks", "coal", "telecommunication"). Respond with JSON: {"sub_sector": "..."}`,
		body, &out)
	return strings.ToLower(strings.TrimSpace(out.SubSector)), err
}

// Dimension predicts which analytical dimension the article informs.
func (m *Model) Dimension(ctx context.Context, title, body string) (string, error) {
	var out struct {
		Dimension string `json:"dimension"`
	}
	err := m.structured(ctx,
		`Which analytical dimension does this article inform: "valuation", "future", "technical", "financials", "dividend", "management", "ownership", or "sustainability"? Respond with JSON: {"dimension": "..."}`,
		title+"\n\n"+body, &out)
	return strings.ToLower(strings.TrimSpace(out.Dimension)), err
}

// Score rates article quality/impact from 0 to 100.
func (m *Model) Score(ctx context.Context, body string) (int, error) {
	var out struct {
		Score int `json:"score"`
	}
	err := m.structured(ctx,
		`Rate this Indonesian financial news article for investor relevance from 0 to 100. Respond with JSON: {"score": N}`,
		body, &out)
	return out.Score, err
}

const parseFilingSystem = `You read text extracted from an IDX insider-ownership disclosure form (Indonesian).
Extract the fields into JSON with exactly these keys:
{"ticker": "", "company_name": "", "holder_name": "", "holder_type": "", "control_status": "",
 "document_number": "", "date_time": "YYYY-MM-DD HH:MM:SS",
 "holding_before": 0, "holding_after": 0,
 "share_percentage_before": 0.0, "share_percentage_after": 0.0,
 "price_transaction": {"prices": [], "amount_transacted": [], "types": [], "dates": []}}
Types are "buy", "sell" or "other". Use null for fields the form does not state.`

// ParseFilingText turns extracted PDF form text into a raw submission.
func (m *Model) ParseFilingText(ctx context.Context, source, purpose, subSector, holderType, uid, text string) (*models.RawSubmission, error) {
	var raw models.RawSubmission
	if err := m.structured(ctx, parseFilingSystem, text, &raw); err != nil {
		return nil, fmt.Errorf("parsing filing text: %w", err)
	}

	// Caller-supplied context wins over whatever the form text implies.
	raw.Source = source
	if purpose != "" {
		raw.Purpose = purpose
	}
	if subSector != "" {
		raw.SubSectorRaw = subSector
	}
	if holderType != "" {
		raw.HolderType = holderType
	}
	if uid != "" {
		raw.UIDRaw = uid
	}
	return &raw, nil
}

// structured sends one system+user exchange and decodes the JSON reply
// into out, repairing malformed JSON first.
func (m *Model) structured(ctx context.Context, system, user string, out interface{}) error {
	response, err := m.chat.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return err
	}

	repaired, err := jsonrepair.RepairJSON(response)
	if err != nil {
		return fmt.Errorf("unparseable model response: %w", err)
	}

	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("decoding model response: %w", err)
	}
	return nil
}
