package articles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

type fakeNewsStorage struct {
	articles map[string]*models.NewsArticle
	nextID   int
}

func newFakeNewsStorage() *fakeNewsStorage {
	return &fakeNewsStorage{articles: make(map[string]*models.NewsArticle)}
}

func (s *fakeNewsStorage) SaveArticle(a *models.NewsArticle) error {
	if a.ID == "" {
		s.nextID++
		a.ID = string(rune('a' + s.nextID - 1))
	}
	clone := *a
	s.articles[a.ID] = &clone
	return nil
}

func (s *fakeNewsStorage) GetArticle(id string) (*models.NewsArticle, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (s *fakeNewsStorage) GetArticleBySource(source string) (*models.NewsArticle, error) {
	for _, a := range s.articles {
		if a.Source == source {
			clone := *a
			return &clone, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (s *fakeNewsStorage) ListArticles(subSector string) ([]*models.NewsArticle, error) {
	var out []*models.NewsArticle
	for _, a := range s.articles {
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (s *fakeNewsStorage) DeleteArticle(id string) error {
	if _, ok := s.articles[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(s.articles, id)
	return nil
}

type fakeReference struct{}

func (fakeReference) SectorFor(subSector string) string {
	if subSector == "banks" {
		return "financials"
	}
	return ""
}

func (fakeReference) SubSectorByTicker(ticker string) string {
	if ticker == "BBCA.JK" {
		return "banks"
	}
	return ""
}

func (fakeReference) IsListed(ticker string) bool { return ticker == "BBCA.JK" }

func (fakeReference) TopCompanySymbols(n int) []string { return []string{"BBCA.JK"} }

func newTestService(t *testing.T) (*Service, *fakeNewsStorage) {
	t.Helper()
	storage := newFakeNewsStorage()
	svc := NewService(storage, fakeReference{}, nil, nil, nil, arbor.NewLogger())
	return svc, storage
}

func rawArticle() *models.RawArticle {
	return &models.RawArticle{
		Title:        "Laba bank naik",
		Body:         "PT Bank Central Asia Tbk mencatat kenaikan laba.",
		Source:       "https://example.com/news/1",
		Timestamp:    "2024-03-01T10:30:00",
		SubSectorRaw: "banks",
		Tickers:      []string{"bbca"},
	}
}

func TestSanitize(t *testing.T) {
	svc, _ := newTestService(t)

	article, err := svc.Sanitize(context.Background(), rawArticle(), false)
	require.NoError(t, err)

	assert.Equal(t, "financials", article.Sector)
	assert.Equal(t, []string{"banks"}, article.SubSector)
	assert.Equal(t, []string{"BBCA.JK"}, article.Tickers)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), article.Timestamp)
	assert.Nil(t, article.Score)
}

func TestSanitizeSubSectorVariants(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	raw := rawArticle()
	raw.SubSectorRaw = nil
	raw.SubsectorAlt = []interface{}{"banks", "coal"}
	article, err := svc.Sanitize(ctx, raw, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"banks", "coal"}, article.SubSector)

	raw = rawArticle()
	raw.SubSectorRaw = nil
	article, err = svc.Sanitize(ctx, raw, false)
	require.NoError(t, err)
	assert.Empty(t, article.SubSector)
}

func TestInsertDuplicateSource(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := svc.Insert(ctx, rawArticle(), false)
	require.Equal(t, StatusSuccess, first.Status)
	require.NotEmpty(t, first.ID)

	second := svc.Insert(ctx, rawArticle(), false)
	assert.Equal(t, StatusRestricted, second.Status)
	assert.Equal(t, first.ID, second.IDDuplicate)
}

func TestInsertBatchPartialFailure(t *testing.T) {
	svc, _ := newTestService(t)

	bad := rawArticle()
	bad.Source = ""

	results := svc.InsertBatch(context.Background(), []*models.RawArticle{rawArticle(), bad}, false)
	require.Len(t, results, 2)
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusError, results[1].Status)
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()

	inserted := svc.Insert(ctx, rawArticle(), false)
	require.Equal(t, StatusSuccess, inserted.Status)
	stored, err := storage.GetArticle(inserted.ID)
	require.NoError(t, err)
	stored.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, storage.SaveArticle(stored))

	raw := rawArticle()
	raw.ID = inserted.ID
	raw.Title = "Updated title"
	updated, err := svc.Update(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "Updated title", updated.Title)
	assert.Equal(t, stored.CreatedAt, updated.CreatedAt)
}

func TestIsRelevant(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name    string
		article models.NewsArticle
		want    bool
	}{
		{
			"indicator keyword in body",
			models.NewsArticle{Title: "Market update", Body: "The IHSG index rose today."},
			true,
		},
		{
			"top company symbol in title",
			models.NewsArticle{Title: "BBCA posts record profit", Body: "..."},
			true,
		},
		{
			"has tickers",
			models.NewsArticle{Title: "Foreign", Body: "Foreign", Tickers: []string{"BBCA.JK"}},
			true,
		},
		{
			"separator handling",
			models.NewsArticle{Title: "Rally in Jakarta-based stocks", Body: ""},
			true,
		},
		{
			"irrelevant",
			models.NewsArticle{Title: "US markets close higher", Body: "The S&P gained."},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.IsRelevant(&tt.article); got != tt.want {
				t.Errorf("IsRelevant = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateIrrelevantScoresZero(t *testing.T) {
	svc, _ := newTestService(t)

	score, err := svc.Evaluate(context.Background(), &models.NewsArticle{
		Title: "US markets close higher",
		Body:  "The S&P gained.",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}
