package badger

import (
	"errors"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()
	tmpDir := t.TempDir()

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return &BadgerDB{store: store}
}

func TestFilingCRUD(t *testing.T) {
	storage := NewFilingStorage(newTestDB(t), arbor.NewLogger())

	filing := &models.Filing{
		Title:     "Perubahan kepemilikan saham BBCA",
		Ticker:    "BBCA.JK",
		Timestamp: time.Now(),
		Tags:      []string{"investment"},
	}
	if err := storage.SaveFiling(filing); err != nil {
		t.Fatalf("SaveFiling: %v", err)
	}
	if filing.ID == "" {
		t.Fatal("SaveFiling did not assign an ID")
	}
	if filing.CreatedAt.IsZero() || filing.UpdatedAt.IsZero() {
		t.Error("SaveFiling did not stamp timestamps")
	}

	got, err := storage.GetFiling(filing.ID)
	if err != nil {
		t.Fatalf("GetFiling: %v", err)
	}
	if got.Ticker != "BBCA.JK" {
		t.Errorf("GetFiling ticker = %q", got.Ticker)
	}

	if err := storage.DeleteFiling(filing.ID); err != nil {
		t.Fatalf("DeleteFiling: %v", err)
	}
	if _, err := storage.GetFiling(filing.ID); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("GetFiling after delete = %v, want ErrNotFound", err)
	}
}

func TestFilingsByUID(t *testing.T) {
	storage := NewFilingStorage(newTestDB(t), arbor.NewLogger())

	for _, uid := range []string{"uid-1", "uid-1", "uid-2"} {
		f := &models.Filing{UID: uid, Ticker: "BBRI.JK", Timestamp: time.Now()}
		if err := storage.SaveFiling(f); err != nil {
			t.Fatalf("SaveFiling: %v", err)
		}
	}

	pair, err := storage.GetFilingsByUID("uid-1")
	if err != nil {
		t.Fatalf("GetFilingsByUID: %v", err)
	}
	if len(pair) != 2 {
		t.Fatalf("GetFilingsByUID(uid-1) returned %d filings, want 2", len(pair))
	}

	if err := storage.DeleteFilingsByUID("uid-1"); err != nil {
		t.Fatalf("DeleteFilingsByUID: %v", err)
	}
	remaining, err := storage.ListFilings()
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(remaining) != 1 || remaining[0].UID != "uid-2" {
		t.Errorf("after cascade delete, remaining = %d filings", len(remaining))
	}

	// Empty UID never matches anything.
	none, err := storage.GetFilingsByUID("")
	if err != nil || len(none) != 0 {
		t.Errorf("GetFilingsByUID(\"\") = %v, %v", none, err)
	}
}

func TestArticleDedupeBySource(t *testing.T) {
	storage := NewNewsStorage(newTestDB(t), arbor.NewLogger())

	article := &models.NewsArticle{
		Title:     "Emiten batu bara catat kenaikan laba",
		Source:    "https://example.com/news/1",
		Timestamp: time.Now(),
		SubSector: []string{"coal"},
	}
	if err := storage.SaveArticle(article); err != nil {
		t.Fatalf("SaveArticle: %v", err)
	}

	got, err := storage.GetArticleBySource("https://example.com/news/1")
	if err != nil {
		t.Fatalf("GetArticleBySource: %v", err)
	}
	if got.ID != article.ID {
		t.Errorf("GetArticleBySource returned ID %q, want %q", got.ID, article.ID)
	}

	if _, err := storage.GetArticleBySource("https://example.com/other"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("unknown source = %v, want ErrNotFound", err)
	}

	listed, err := storage.ListArticles("coal")
	if err != nil || len(listed) != 1 {
		t.Errorf("ListArticles(coal) = %d articles, err %v", len(listed), err)
	}
	listed, err = storage.ListArticles("banks")
	if err != nil || len(listed) != 0 {
		t.Errorf("ListArticles(banks) = %d articles, err %v", len(listed), err)
	}
}
