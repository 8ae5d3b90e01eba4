package interfaces

import (
	"context"

	"github.com/sahamlabs/emiten/internal/models"
)

// Message is a provider-agnostic chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// TextGenerator produces narrative text (titles, summaries) from records.
// Output quality is the external model's concern; callers only pass it
// through.
type TextGenerator interface {
	SummarizeFiling(ctx context.Context, filing *models.Filing) (title, body string, err error)
	SummarizeArticle(ctx context.Context, url string) (title, body string, err error)
}

// Classifier derives structured metadata from free text via the external
// model. Every method is best-effort: an error means "no answer", not a
// failed request pipeline.
type Classifier interface {
	Tickers(ctx context.Context, body string) ([]string, error)
	Tags(ctx context.Context, body string) ([]string, error)
	Sentiment(ctx context.Context, body string) (string, error)
	SubSector(ctx context.Context, body string) (string, error)
	Dimension(ctx context.Context, title, body string) (string, error)
	Score(ctx context.Context, body string) (int, error)
}

// FilingParser turns extracted IDX-form text into a raw submission.
type FilingParser interface {
	ParseFilingText(ctx context.Context, source, purpose, subSector, holderType, uid, text string) (*models.RawSubmission, error)
}
