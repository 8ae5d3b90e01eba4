package tags

import (
	"reflect"
	"testing"

	"github.com/sahamlabs/emiten/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestClassifyKeywords(t *testing.T) {
	tests := []struct {
		name    string
		purpose string
		want    []string
	}{
		{"inheritance indonesian", "Pengalihan saham karena warisan", []string{"inheritance", "share-transfer"}},
		{"mesop", "Pelaksanaan program MESOP tahap II", []string{"mesop"}},
		{"free float", "Pemenuhan ketentuan free float", []string{"free-float"}},
		{"buy", "Pembelian saham untuk investasi", []string{"investment"}},
		{"sell", "Penjualan saham divestasi", []string{"divestment"}},
		{"buyback", "Pembelian kembali saham perseroan", []string{"investment", "share-buyback"}},
		{"private placement", "Private placement kepada investor strategis", []string{"private-placement"}},
		{"restructuring english", "Corporate restructuring", []string{"restructuring"}},
		{"no match", "Lain-lain", []string{}},
		{"empty purpose", "", []string{}},
		{"case insensitive", "WARISAN KELUARGA", []string{"inheritance"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(Input{Purpose: tt.purpose})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %v, want %v", tt.purpose, got, tt.want)
			}
		})
	}
}

func TestClassifyExplicitOverride(t *testing.T) {
	got := Classify(Input{
		Purpose:      "Pembelian saham",
		ExplicitTags: " takeover , custom-tag,",
	})
	want := []string{"custom-tag", "takeover"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("explicit override = %v, want %v", got, want)
	}
}

func TestClassifyMixedLegs(t *testing.T) {
	legs := []models.TransactionLeg{
		{Type: models.TransactionBuy, Price: 1000, Quantity: 100},
		{Type: models.TransactionSell, Price: 1100, Quantity: 50},
	}

	got := Classify(Input{
		Purpose:         "Pembelian dan penjualan saham",
		Legs:            legs,
		TransactionType: models.TransactionBuy,
	})
	want := []string{"investment"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mixed net-buy = %v, want %v", got, want)
	}

	got = Classify(Input{
		Purpose:         "Pembelian dan penjualan saham",
		Legs:            legs,
		TransactionType: models.TransactionSell,
	})
	want = []string{"divestment"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mixed net-sell = %v, want %v", got, want)
	}
}

func TestClassifyTakeoverCrossing(t *testing.T) {
	tests := []struct {
		name   string
		before *float64
		after  *float64
		want   bool
	}{
		{"upward crossing", floatPtr(45), floatPtr(55), true},
		{"downward crossing", floatPtr(60), floatPtr(40), true},
		{"lands exactly on threshold", floatPtr(49), floatPtr(50), true},
		{"no crossing below", floatPtr(10), floatPtr(20), false},
		{"no crossing above", floatPtr(60), floatPtr(70), false},
		{"missing before", nil, floatPtr(55), false},
		{"missing after", floatPtr(45), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(Input{
				SharePercentageBefore: tt.before,
				SharePercentageAfter:  tt.after,
			})
			has := len(got) == 1 && got[0] == TagTakeover
			if has != tt.want {
				t.Errorf("crossing(%v, %v): tags = %v, want takeover=%v", tt.before, tt.after, got, tt.want)
			}
		})
	}
}

func TestClassifyDedupeAndSort(t *testing.T) {
	// "transfer" and "pengalihan" both map to share-transfer; the tag
	// appears once, and output ordering is stable.
	got := Classify(Input{
		Purpose:               "Transfer dan pengalihan saham warisan",
		SharePercentageBefore: floatPtr(45),
		SharePercentageAfter:  floatPtr(55),
	})
	want := []string{"inheritance", "share-transfer", "takeover"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Classify = %v, want %v", got, want)
	}
}
