// Package articles manages the news-article surface: sanitized inserts
// with source deduplication, LLM-backed generation from bare URLs, and
// the deterministic relevance gate for article scoring.
package articles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/common"
	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// Result is the per-item outcome of an article operation.
type Result struct {
	Status      string `json:"status"`
	ID          string `json:"id,omitempty"`
	IDDuplicate string `json:"id_duplicate,omitempty"`
	Message     string `json:"message,omitempty"`
}

const (
	StatusSuccess    = "success"
	StatusError      = "error"
	StatusRestricted = "restricted"
)

// Reference is the slice of the reference service this package needs.
type Reference interface {
	SectorFor(subSector string) string
	SubSectorByTicker(ticker string) string
	IsListed(ticker string) bool
	TopCompanySymbols(n int) []string
}

// Service owns article sanitization, persistence and generation.
type Service struct {
	storage    interfaces.NewsStorage
	reference  Reference
	metadata   interfaces.MetadataExtractor // nil disables URL metadata fallback
	generator  interfaces.TextGenerator     // nil disables narrative generation
	classifier interfaces.Classifier        // nil disables metadata classification
	logger     arbor.ILogger
}

// NewService wires the article pipeline. metadata, generator and
// classifier are each optional; missing capabilities degrade to the raw
// submitted values.
func NewService(storage interfaces.NewsStorage, reference Reference, metadata interfaces.MetadataExtractor, generator interfaces.TextGenerator, classifier interfaces.Classifier, logger arbor.ILogger) *Service {
	return &Service{
		storage:    storage,
		reference:  reference,
		metadata:   metadata,
		generator:  generator,
		classifier: classifier,
		logger:     logger,
	}
}

// Sanitize validates and canonicalizes one raw article without storing
// it. Empty title/body fall back to URL metadata when an extractor is
// wired; generate additionally rewrites both through the model.
func (s *Service) Sanitize(ctx context.Context, raw *models.RawArticle, generate bool) (*models.NewsArticle, error) {
	source := strings.TrimSpace(raw.Source)
	if source == "" {
		return nil, models.NewValidationError("source", "source is required")
	}

	timestamp, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return nil, models.NewValidationError("timestamp", err.Error())
	}

	subSectors := raw.SubSectors()
	sector := strings.TrimSpace(raw.Sector)
	if sector == "" && len(subSectors) > 0 {
		sector = s.reference.SectorFor(subSectors[0])
	}

	article := &models.NewsArticle{
		ID:        raw.ID,
		Title:     strings.TrimSpace(raw.Title),
		Body:      strings.TrimSpace(raw.Body),
		Source:    source,
		Timestamp: timestamp,
		Sector:    sector,
		SubSector: subSectors,
		Tags:      raw.Tags,
		Tickers:   common.NormalizeTickers(raw.Tickers),
		Dimension: raw.Dimension,
		Score:     scoreFrom(raw.Score),
	}

	if (article.Title == "" || article.Body == "") && s.metadata != nil {
		title, _, body, err := s.metadata.Extract(ctx, source)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", source).Msg("Metadata extraction failed")
		} else {
			if article.Title == "" {
				article.Title = title
			}
			if article.Body == "" {
				article.Body = body
			}
		}
	}

	if generate && s.generator != nil {
		title, body, err := s.generator.SummarizeArticle(ctx, source)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", source).Msg("Article summarization failed, keeping submitted text")
		} else {
			if title != "" {
				article.Title = title
			}
			if body != "" {
				article.Body = body
			}
		}
	}

	return article, nil
}

// Insert sanitizes and persists one article. A source URL already in the
// store is rejected as restricted, returning the existing row's id.
func (s *Service) Insert(ctx context.Context, raw *models.RawArticle, generate bool) Result {
	article, err := s.Sanitize(ctx, raw, generate)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}

	if existing, err := s.storage.GetArticleBySource(article.Source); err == nil {
		return Result{
			Status:      StatusRestricted,
			Message:     "Insert failed! Duplicate source",
			IDDuplicate: existing.ID,
		}
	}

	if err := s.storage.SaveArticle(article); err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}
	return Result{Status: StatusSuccess, ID: article.ID}
}

// InsertBatch processes items sequentially with independent outcomes.
func (s *Service) InsertBatch(ctx context.Context, raws []*models.RawArticle, generate bool) []Result {
	results := make([]Result, 0, len(raws))
	for _, raw := range raws {
		results = append(results, s.Insert(ctx, raw, generate))
	}
	return results
}

// Update re-sanitizes the payload and persists it under its existing id,
// without narrative regeneration.
func (s *Service) Update(ctx context.Context, raw *models.RawArticle) (*models.NewsArticle, error) {
	if raw.ID == "" {
		return nil, models.NewValidationError("id", "record ID is required")
	}

	previous, err := s.storage.GetArticle(raw.ID)
	if err != nil {
		return nil, err
	}

	article, err := s.Sanitize(ctx, raw, false)
	if err != nil {
		return nil, err
	}
	article.ID = previous.ID
	article.CreatedAt = previous.CreatedAt

	if err := s.storage.SaveArticle(article); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete removes the listed articles, one result per id.
func (s *Service) Delete(idList []string) []Result {
	results := make([]Result, 0, len(idList))
	for _, id := range idList {
		if err := s.storage.DeleteArticle(id); err != nil {
			results = append(results, Result{Status: StatusError, ID: id, Message: err.Error()})
			continue
		}
		results = append(results, Result{Status: StatusSuccess, ID: id})
	}
	return results
}

// List returns stored articles, optionally filtered by sub-sector or
// narrowed to one id.
func (s *Service) List(subSector, id string) ([]*models.NewsArticle, error) {
	if id != "" {
		article, err := s.storage.GetArticle(id)
		if err != nil {
			return nil, err
		}
		return []*models.NewsArticle{article}, nil
	}
	return s.storage.ListArticles(subSector)
}

// GenerateFromURL builds a complete article from a bare source URL:
// summarize, classify tickers/tags/sentiment/sub-sector, validate
// tickers against the company directory, derive sector, predict
// dimension, score. The article is returned unstored; InsertGenerated
// persists it subject to the usual source dedupe.
func (s *Service) GenerateFromURL(ctx context.Context, source, timestampStr string) (*models.NewsArticle, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, models.NewValidationError("source", "source is required")
	}
	timestamp, err := parseTimestamp(timestampStr)
	if err != nil {
		return nil, models.NewValidationError("timestamp", err.Error())
	}

	article := &models.NewsArticle{
		Source:    source,
		Timestamp: timestamp,
		SubSector: []string{},
		Tags:      []string{},
		Tickers:   []string{},
	}

	if s.generator == nil || s.classifier == nil {
		return nil, fmt.Errorf("article generation requires a configured model provider")
	}

	title, body, err := s.generator.SummarizeArticle(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("summarizing %s: %w", source, err)
	}
	if body == "" {
		return article, nil
	}
	article.Title = title
	article.Body = body

	article.Tickers = s.classifiedTickers(ctx, body)
	article.Tags = s.classifiedTags(ctx, body)
	article.SubSector = s.resolveSubSectors(ctx, article.Tickers, body)

	for _, sub := range article.SubSector {
		if sector := s.reference.SectorFor(sub); sector != "" {
			article.Sector = sector
			break
		}
	}

	if dimension, err := s.classifier.Dimension(ctx, article.Title, body); err == nil {
		article.Dimension = dimension
	}
	if score, err := s.classifier.Score(ctx, body); err == nil {
		article.Score = &score
	}

	return article, nil
}

// InsertGenerated persists a previously generated article.
func (s *Service) InsertGenerated(article *models.NewsArticle) Result {
	if existing, err := s.storage.GetArticleBySource(article.Source); err == nil {
		return Result{
			Status:      StatusRestricted,
			Message:     "Insert failed! Duplicate source",
			IDDuplicate: existing.ID,
		}
	}
	if err := s.storage.SaveArticle(article); err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}
	return Result{Status: StatusSuccess, ID: article.ID}
}

// Evaluate scores an article body, gated by the deterministic
// Indonesia-relevance check. Irrelevant articles score 0 without a model
// call.
func (s *Service) Evaluate(ctx context.Context, article *models.NewsArticle) (int, error) {
	if !s.IsRelevant(article) {
		return 0, nil
	}
	if s.classifier == nil {
		return 0, fmt.Errorf("article scoring requires a configured model provider")
	}
	return s.classifier.Score(ctx, article.Body)
}

// classifiedTickers keeps only model-suggested tickers that are actually
// listed.
func (s *Service) classifiedTickers(ctx context.Context, body string) []string {
	suggested, err := s.classifier.Tickers(ctx, body)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Ticker classification failed")
		return []string{}
	}

	valid := make([]string, 0, len(suggested))
	for _, ticker := range common.NormalizeTickers(suggested) {
		if s.reference.IsListed(ticker) {
			valid = append(valid, ticker)
		}
	}
	return valid
}

func (s *Service) classifiedTags(ctx context.Context, body string) []string {
	tags, err := s.classifier.Tags(ctx, body)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Tag classification failed")
		tags = []string{}
	}
	if sentiment, err := s.classifier.Sentiment(ctx, body); err == nil && sentiment != "" {
		tags = append(tags, sentiment)
	}
	return tags
}

// resolveSubSectors prefers the validated tickers' directory sub-sectors;
// without tickers it falls back to the model's suggestion.
func (s *Service) resolveSubSectors(ctx context.Context, tickers []string, body string) []string {
	if len(tickers) > 0 {
		subs := make([]string, 0, len(tickers))
		for _, ticker := range tickers {
			if sub := s.reference.SubSectorByTicker(ticker); sub != "" {
				subs = append(subs, sub)
			}
		}
		return subs
	}

	suggested, err := s.classifier.SubSector(ctx, body)
	if err != nil || suggested == "" {
		return []string{}
	}
	return []string{strings.ToLower(suggested)}
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "T", " "))
	if s == "" {
		return time.Time{}, fmt.Errorf("timestamp is required")
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}

func scoreFrom(v interface{}) *int {
	f := common.SafeInt(v)
	if f == nil {
		return nil
	}
	score := int(*f)
	return &score
}
