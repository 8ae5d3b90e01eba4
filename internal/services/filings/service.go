package filings

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

// Result is the per-item outcome of an insert/update/delete. Batch
// callers collect one per input and never abort on a failed item.
type Result struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	StatusSuccess    = "success"
	StatusError      = "error"
	StatusRestricted = "restricted"
)

// Service owns the filing lifecycle: normalize, summarize, persist,
// project to news, reconcile pairs, cascade deletes.
type Service struct {
	storage    interfaces.FilingStorage
	news       interfaces.NewsStorage
	normalizer *Normalizer
	reconciler *Reconciler
	generator  interfaces.TextGenerator // nil disables narrative generation
	logger     arbor.ILogger
}

// NewService wires the filing pipeline. generator may be nil; the
// templated narrative is stored unchanged then.
func NewService(storage interfaces.FilingStorage, news interfaces.NewsStorage, normalizer *Normalizer, generator interfaces.TextGenerator, logger arbor.ILogger) *Service {
	return &Service{
		storage:    storage,
		news:       news,
		normalizer: normalizer,
		reconciler: NewReconciler(storage, logger),
		generator:  generator,
		logger:     logger,
	}
}

// Insert normalizes and persists one submission. When the UID is not yet
// present in the store the filing is also projected into the news feed.
// generate controls LLM narrative generation; pre-parsed submissions from
// the PDF path are inserted as-is.
func (s *Service) Insert(ctx context.Context, raw *models.RawSubmission, generate bool) (*models.Filing, error) {
	filing, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	uidSeen, err := s.uidExists(filing.UID)
	if err != nil {
		return nil, err
	}

	if generate && s.generator != nil {
		s.applyGeneratedNarrative(ctx, filing)
	}

	if err := s.storage.SaveFiling(filing); err != nil {
		return nil, err
	}

	// The second half of a pair shares the narrative; one news row per
	// disclosure, not per party.
	if !uidSeen {
		article := models.NewsFromFiling(filing)
		if err := s.news.SaveArticle(article); err != nil {
			s.logger.Warn().Err(err).Str("filing_id", filing.ID).Msg("News projection failed")
		}
	}

	return filing, nil
}

// InsertBatch processes items sequentially with independent outcomes.
func (s *Service) InsertBatch(ctx context.Context, raws []*models.RawSubmission, generate bool) []Result {
	results := make([]Result, 0, len(raws))
	for _, raw := range raws {
		filing, err := s.Insert(ctx, raw, generate)
		if err != nil {
			results = append(results, Result{Status: StatusError, Message: err.Error()})
			continue
		}
		results = append(results, Result{Status: StatusSuccess, ID: filing.ID})
	}
	return results
}

// Update re-normalizes the submission and persists it under its existing
// id. A changed leg list on a UID-carrying filing triggers pair
// reconciliation; reconciliation failures never block the update.
func (s *Service) Update(ctx context.Context, raw *models.RawSubmission) (*models.Filing, error) {
	if raw.ID == "" {
		return nil, models.NewValidationError("id", "record ID is required")
	}

	previous, err := s.storage.GetFiling(raw.ID)
	if err != nil {
		return nil, err
	}

	filing, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}
	filing.ID = previous.ID
	filing.CreatedAt = previous.CreatedAt

	if err := s.storage.SaveFiling(filing); err != nil {
		return nil, err
	}

	if filing.UID != "" && !models.LegsEqual(previous.Legs, filing.Legs) {
		s.reconciler.ReconcilePair(filing)
	}

	return filing, nil
}

// Get returns one filing by id.
func (s *Service) Get(id string) (*models.Filing, error) {
	return s.storage.GetFiling(id)
}

// List returns every stored filing.
func (s *Service) List() ([]*models.Filing, error) {
	return s.storage.ListFilings()
}

// Delete removes the listed filings with UID cascade: both halves of a
// pair go together. One result per requested id.
func (s *Service) Delete(idList []string) []Result {
	results := make([]Result, 0, len(idList))
	for _, id := range idList {
		filing, err := s.storage.GetFiling(id)
		if err != nil {
			results = append(results, Result{Status: StatusError, ID: id, Message: err.Error()})
			continue
		}

		if filing.UID != "" {
			if err := s.storage.DeleteFilingsByUID(filing.UID); err != nil {
				results = append(results, Result{Status: StatusError, ID: id, Message: err.Error()})
				continue
			}
		} else if err := s.storage.DeleteFiling(id); err != nil {
			results = append(results, Result{Status: StatusError, ID: id, Message: err.Error()})
			continue
		}

		results = append(results, Result{Status: StatusSuccess, ID: id})
	}
	return results
}

func (s *Service) uidExists(uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	group, err := s.storage.GetFilingsByUID(uid)
	if err != nil {
		return false, fmt.Errorf("UID lookup failed: %w", err)
	}
	return len(group) > 0, nil
}

// applyGeneratedNarrative replaces the templated title/body with the
// model's version when generation succeeds and returns non-empty text.
func (s *Service) applyGeneratedNarrative(ctx context.Context, filing *models.Filing) {
	title, body, err := s.generator.SummarizeFiling(ctx, filing)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", filing.Ticker).Msg("Filing summarization failed, keeping templated narrative")
		return
	}
	if title != "" {
		filing.Title = title
	}
	if body != "" {
		filing.Body = body
	}
}
