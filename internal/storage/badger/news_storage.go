package badger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

// NewsStorage implements the NewsStorage interface for Badger
type NewsStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewNewsStorage creates a new NewsStorage instance
func NewNewsStorage(db *BadgerDB, logger arbor.ILogger) interfaces.NewsStorage {
	return &NewsStorage{
		db:     db,
		logger: logger,
	}
}

func (s *NewsStorage) SaveArticle(article *models.NewsArticle) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}

	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now

	if err := s.db.Store().Upsert(article.ID, article); err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}
	return nil
}

func (s *NewsStorage) GetArticle(id string) (*models.NewsArticle, error) {
	var article models.NewsArticle
	if err := s.db.Store().Get(id, &article); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

// GetArticleBySource looks an article up by its source URL. The insert
// path relies on this to dedupe resubmissions.
func (s *NewsStorage) GetArticleBySource(source string) (*models.NewsArticle, error) {
	var articles []models.NewsArticle
	err := s.db.Store().Find(&articles, badgerhold.Where("Source").Eq(source))
	if err != nil {
		return nil, fmt.Errorf("failed to find article by source: %w", err)
	}
	if len(articles) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return &articles[0], nil
}

// ListArticles returns articles newest first, optionally restricted to a
// sub-sector.
func (s *NewsStorage) ListArticles(subSector string) ([]*models.NewsArticle, error) {
	var articles []models.NewsArticle
	if err := s.db.Store().Find(&articles, nil); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	result := make([]*models.NewsArticle, 0, len(articles))
	for i := range articles {
		if subSector != "" && !containsString(articles[i].SubSector, subSector) {
			continue
		}
		result = append(result, &articles[i])
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result, nil
}

func (s *NewsStorage) DeleteArticle(id string) error {
	if err := s.db.Store().Delete(id, &models.NewsArticle{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
