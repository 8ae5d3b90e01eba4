package interfaces

import (
	"errors"

	"github.com/sahamlabs/emiten/internal/models"
)

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("record not found")

// FilingStorage persists insider/ownership filings.
type FilingStorage interface {
	SaveFiling(filing *models.Filing) error
	GetFiling(id string) (*models.Filing, error)
	GetFilingsByUID(uid string) ([]*models.Filing, error)
	ListFilings() ([]*models.Filing, error)
	DeleteFiling(id string) error
	DeleteFilingsByUID(uid string) error
}

// NewsStorage persists news-feed articles.
type NewsStorage interface {
	SaveArticle(article *models.NewsArticle) error
	GetArticle(id string) (*models.NewsArticle, error)
	GetArticleBySource(source string) (*models.NewsArticle, error)
	ListArticles(subSector string) ([]*models.NewsArticle, error)
	DeleteArticle(id string) error
}

// KeyValueStorage is a small KV store used for cached reference data and
// resolved secrets.
type KeyValueStorage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// StorageManager aggregates the per-entity storages over one database.
type StorageManager interface {
	FilingStorage() FilingStorage
	NewsStorage() NewsStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
