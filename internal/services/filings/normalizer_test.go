package filings

import (
	"errors"
	"testing"

	"github.com/sahamlabs/emiten/internal/models"
)

// stubReference resolves the fixed lookups used across the tests.
type stubReference struct{}

func (stubReference) SectorFor(subSector string) string {
	if subSector == "banks" {
		return "financials"
	}
	return ""
}

func (stubReference) SubSectorByTicker(ticker string) string {
	if ticker == "BBCA.JK" {
		return "banks"
	}
	return ""
}

func baseSubmission() *models.RawSubmission {
	return &models.RawSubmission{
		Ticker:        "BBCA",
		HolderNameRaw: "PT Dwimuria Investama Andalan",
		CompanyName:   "PT Bank Central Asia Tbk",
		DateTime:      "2024-03-01 10:30:00",
		HoldingBefore: float64(200),
		HoldingAfter:  float64(250),
		PriceTransaction: models.RawPriceTransaction{
			Prices:           []float64{1000, 1100},
			AmountTransacted: []float64{100, 50},
			Types:            []string{"buy", "sell"},
		},
	}
}

func TestNormalizeEndToEnd(t *testing.T) {
	n := NewNormalizer(stubReference{})

	filing, err := n.Normalize(baseSubmission())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if filing.Ticker != "BBCA.JK" {
		t.Errorf("ticker = %q, want BBCA.JK", filing.Ticker)
	}
	if filing.TransactionType != models.TransactionBuy {
		t.Errorf("transaction type = %q, want buy", filing.TransactionType)
	}
	if filing.TransactionValue != 45000 {
		t.Errorf("transaction value = %v, want 45000", filing.TransactionValue)
	}
	if filing.Price != 900 {
		t.Errorf("price = %v, want 900", filing.Price)
	}
	if filing.SubSector != "banks" || filing.Sector != "financials" {
		t.Errorf("sector resolution = %q/%q", filing.Sector, filing.SubSector)
	}
	if filing.AmountTransaction == nil || *filing.AmountTransaction != 50 {
		t.Errorf("amount_transaction = %v, want 50", filing.AmountTransaction)
	}
	if len(filing.Legs) != 2 {
		t.Fatalf("legs = %d, want 2", len(filing.Legs))
	}
	if filing.Title == "" || filing.Body == "" {
		t.Error("templated narrative is empty")
	}
}

func TestNormalizePercentageRounding(t *testing.T) {
	n := NewNormalizer(stubReference{})

	raw := baseSubmission()
	raw.SharePercentageBefore = 30.12345
	raw.SharePercentageAfter = 10.0

	filing, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if filing.SharePercentageTransaction == nil {
		t.Fatal("share_percentage_transaction is nil")
	}
	if got := *filing.SharePercentageTransaction; got != 20.1235 {
		t.Errorf("share_percentage_transaction = %v, want 20.1235", got)
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	n := NewNormalizer(stubReference{})

	tests := []struct {
		name   string
		mutate func(*models.RawSubmission)
		field  string
	}{
		{"missing ticker", func(r *models.RawSubmission) { r.Ticker = "" }, "ticker"},
		{"missing holder", func(r *models.RawSubmission) { r.HolderNameRaw = "" }, "holder_name"},
		{"missing date", func(r *models.RawSubmission) { r.DateTime = "" }, "date_time"},
		{"bad date", func(r *models.RawSubmission) { r.DateTime = "01/03/2024" }, "date_time"},
		{"ragged legs", func(r *models.RawSubmission) { r.PriceTransaction.Prices = []float64{1000} }, "price_transaction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := baseSubmission()
			tt.mutate(raw)
			_, err := n.Normalize(raw)
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Normalize err = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestNormalizeCoercionFallback(t *testing.T) {
	n := NewNormalizer(stubReference{})

	raw := baseSubmission()
	raw.HoldingBefore = "not a number"
	raw.HoldingAfter = nil
	raw.SharePercentageBefore = ""
	raw.PriceTransaction.Types = []string{"buy", "buy"}

	filing, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if filing.HoldingBefore != nil || filing.HoldingAfter != nil {
		t.Error("garbage holdings should coerce to nil")
	}
	if filing.AmountTransaction != nil {
		t.Error("amount_transaction should be nil without both holdings")
	}
	if filing.SharePercentageTransaction != nil {
		t.Error("percentage transaction should be nil without both percentages")
	}
	// Single-typed legs with no holdings fall back to the leg type.
	if filing.TransactionType != models.TransactionBuy {
		t.Errorf("transaction type = %q, want buy from legs", filing.TransactionType)
	}
}

func TestNormalizeExplicitTags(t *testing.T) {
	n := NewNormalizer(stubReference{})

	raw := baseSubmission()
	raw.Tags = "custom, insider-trading"

	filing, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(filing.Tags) != 2 || filing.Tags[0] != "custom" || filing.Tags[1] != "insider-trading" {
		t.Errorf("tags = %v, want explicit override", filing.Tags)
	}
}

func TestNormalizeAliases(t *testing.T) {
	n := NewNormalizer(stubReference{})

	raw := baseSubmission()
	raw.HolderNameRaw = ""
	raw.Shareholder = "BUDI HARTONO"
	raw.UIDAlt = "uid-123"
	raw.SubsectorAlt = "banks"

	filing, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if filing.HolderName != "Budi Hartono" {
		t.Errorf("holder name = %q, want re-cased alias", filing.HolderName)
	}
	if filing.UID != "uid-123" {
		t.Errorf("UID = %q, want uid-123", filing.UID)
	}
	if filing.SubSector != "banks" {
		t.Errorf("sub sector = %q, want banks", filing.SubSector)
	}
}
