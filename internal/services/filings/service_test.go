package filings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

// fakeFilingStorage is an in-memory FilingStorage for pipeline tests.
type fakeFilingStorage struct {
	filings map[string]*models.Filing
	nextID  int
}

func newFakeFilingStorage() *fakeFilingStorage {
	return &fakeFilingStorage{filings: make(map[string]*models.Filing)}
}

func (s *fakeFilingStorage) SaveFiling(f *models.Filing) error {
	if f.ID == "" {
		s.nextID++
		f.ID = string(rune('a' + s.nextID - 1))
	}
	clone := *f
	s.filings[f.ID] = &clone
	return nil
}

func (s *fakeFilingStorage) GetFiling(id string) (*models.Filing, error) {
	f, ok := s.filings[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *f
	return &clone, nil
}

func (s *fakeFilingStorage) GetFilingsByUID(uid string) ([]*models.Filing, error) {
	if uid == "" {
		return nil, nil
	}
	var out []*models.Filing
	for _, f := range s.filings {
		if f.UID == uid {
			clone := *f
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *fakeFilingStorage) ListFilings() ([]*models.Filing, error) {
	var out []*models.Filing
	for _, f := range s.filings {
		clone := *f
		out = append(out, &clone)
	}
	return out, nil
}

func (s *fakeFilingStorage) DeleteFiling(id string) error {
	if _, ok := s.filings[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(s.filings, id)
	return nil
}

func (s *fakeFilingStorage) DeleteFilingsByUID(uid string) error {
	for id, f := range s.filings {
		if f.UID == uid {
			delete(s.filings, id)
		}
	}
	return nil
}

// fakeNewsStorage records saved articles.
type fakeNewsStorage struct {
	articles []*models.NewsArticle
}

func (s *fakeNewsStorage) SaveArticle(a *models.NewsArticle) error {
	s.articles = append(s.articles, a)
	return nil
}

func (s *fakeNewsStorage) GetArticle(id string) (*models.NewsArticle, error) {
	return nil, interfaces.ErrNotFound
}

func (s *fakeNewsStorage) GetArticleBySource(source string) (*models.NewsArticle, error) {
	return nil, interfaces.ErrNotFound
}

func (s *fakeNewsStorage) ListArticles(subSector string) ([]*models.NewsArticle, error) {
	return s.articles, nil
}

func (s *fakeNewsStorage) DeleteArticle(id string) error { return nil }

func newTestService(t *testing.T) (*Service, *fakeFilingStorage, *fakeNewsStorage) {
	t.Helper()
	storage := newFakeFilingStorage()
	news := &fakeNewsStorage{}
	svc := NewService(storage, news, NewNormalizer(stubReference{}), nil, arbor.NewLogger())
	return svc, storage, news
}

func TestInsertProjectsNewsOncePerUID(t *testing.T) {
	svc, _, news := newTestService(t)
	ctx := context.Background()

	first := baseSubmission()
	first.UIDRaw = "pair-1"
	filing, err := svc.Insert(ctx, first, false)
	require.NoError(t, err)
	require.NotEmpty(t, filing.ID)
	require.Len(t, news.articles, 1)

	article := news.articles[0]
	assert.Equal(t, filing.Title, article.Title)
	assert.Equal(t, []string{filing.SubSector}, article.SubSector)
	assert.Contains(t, article.Tags, "insider-trading")
	assert.Equal(t, []string{"BBCA.JK"}, article.Tickers)

	// Second half of the pair: no second news row.
	second := baseSubmission()
	second.UIDRaw = "pair-1"
	_, err = svc.Insert(ctx, second, false)
	require.NoError(t, err)
	assert.Len(t, news.articles, 1)

	// Different UID projects again.
	third := baseSubmission()
	third.UIDRaw = "pair-2"
	_, err = svc.Insert(ctx, third, false)
	require.NoError(t, err)
	assert.Len(t, news.articles, 2)
}

func TestInsertBatchPartialFailure(t *testing.T) {
	svc, _, _ := newTestService(t)

	good := baseSubmission()
	bad := baseSubmission()
	bad.Ticker = ""

	results := svc.InsertBatch(context.Background(), []*models.RawSubmission{good, bad, good}, false)
	require.Len(t, results, 3)
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusError, results[1].Status)
	assert.NotEmpty(t, results[1].Message)
	assert.Equal(t, StatusSuccess, results[2].Status)
}

func TestUpdateReconcilesPair(t *testing.T) {
	svc, storage, _ := newTestService(t)
	ctx := context.Background()

	// The seller's side of the pair: 100 shares disposed.
	a := baseSubmission()
	a.UIDRaw = "pair-9"
	filingA, err := svc.Insert(ctx, a, false)
	require.NoError(t, err)

	b := baseSubmission()
	b.UIDRaw = "pair-9"
	b.HoldingBefore = float64(500)
	b.HoldingAfter = float64(400)
	b.Title = "Sibling title"
	b.Body = "Sibling body"
	filingB, err := svc.Insert(ctx, b, false)
	require.NoError(t, err)

	// Correct A's legs; B must pick up the same transactions.
	update := baseSubmission()
	update.ID = filingA.ID
	update.UIDRaw = "pair-9"
	update.PriceTransaction = models.RawPriceTransaction{
		Prices:           []float64{2000},
		AmountTransacted: []float64{100},
		Types:            []string{"sell"},
	}
	_, err = svc.Update(ctx, update)
	require.NoError(t, err)

	sibling, err := storage.GetFiling(filingB.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(2000), sibling.Price)
	assert.Equal(t, float64(200000), sibling.TransactionValue)
	// Sibling holdings fell 500 -> 400, so its own type stays sell.
	assert.Equal(t, models.TransactionSell, sibling.TransactionType)
	assert.Equal(t, "Sibling title", sibling.Title)
	assert.Equal(t, "Sibling body", sibling.Body)
}

func TestUpdateUnpairedUIDSkipsReconciliation(t *testing.T) {
	svc, storage, _ := newTestService(t)
	ctx := context.Background()

	// Three rows share the UID: no reconciliation for any of them.
	var ids []string
	for i := 0; i < 3; i++ {
		raw := baseSubmission()
		raw.UIDRaw = "crowd"
		f, err := svc.Insert(ctx, raw, false)
		require.NoError(t, err)
		ids = append(ids, f.ID)
	}

	update := baseSubmission()
	update.ID = ids[0]
	update.UIDRaw = "crowd"
	update.PriceTransaction = models.RawPriceTransaction{
		Prices:           []float64{9999},
		AmountTransacted: []float64{1},
		Types:            []string{"buy"},
	}
	_, err := svc.Update(ctx, update)
	require.NoError(t, err)

	for _, id := range ids[1:] {
		f, err := storage.GetFiling(id)
		require.NoError(t, err)
		assert.Equal(t, float64(900), f.Price, "sibling must be untouched")
	}
}

func TestDeleteCascadesByUID(t *testing.T) {
	svc, storage, _ := newTestService(t)
	ctx := context.Background()

	a := baseSubmission()
	a.UIDRaw = "pair-del"
	filingA, err := svc.Insert(ctx, a, false)
	require.NoError(t, err)

	b := baseSubmission()
	b.UIDRaw = "pair-del"
	_, err = svc.Insert(ctx, b, false)
	require.NoError(t, err)

	lone := baseSubmission()
	filingLone, err := svc.Insert(ctx, lone, false)
	require.NoError(t, err)

	results := svc.Delete([]string{filingA.ID, "missing"})
	require.Len(t, results, 2)
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusError, results[1].Status)

	remaining, err := storage.ListFilings()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, filingLone.ID, remaining[0].ID)
}
