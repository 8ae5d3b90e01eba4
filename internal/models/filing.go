package models

import (
	"time"
)

// TransactionType classifies a disclosed trade event.
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
	// TransactionOther covers non-market events: inheritance, grants,
	// transfers, MESOP allocations and the like.
	TransactionOther TransactionType = "other"
)

// ParseTransactionType normalizes a free-form type string. Anything that
// is not a buy or a sell is an "other" event.
func ParseTransactionType(s string) TransactionType {
	switch TransactionType(normalizeLower(s)) {
	case TransactionBuy:
		return TransactionBuy
	case TransactionSell:
		return TransactionSell
	default:
		return TransactionOther
	}
}

// TransactionLeg is one disclosed trade event within a filing. A filing
// may bundle several legs (multiple trade dates, or a disposal plus a
// transfer in one legal document).
type TransactionLeg struct {
	Price    float64         `json:"price"`
	Quantity float64         `json:"quantity"`
	Type     TransactionType `json:"type"`
	Date     string          `json:"date,omitempty"` // YYYY-MM-DD, optional
}

// PricedTransaction is the aggregate computed from a filing's legs. It is
// derived data: recomputed whenever the legs change, never edited on its
// own.
type PricedTransaction struct {
	Price            float64         `json:"price"`
	TransactionValue float64         `json:"transaction_value"`
	TransactionType  TransactionType `json:"transaction_type"`
}

// Filing is one insider/institutional ownership disclosure.
type Filing struct {
	ID  string `json:"id" badgerhold:"key"`
	UID string `json:"UID,omitempty" badgerholdIndex:"UID"`

	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Source    string    `json:"source"`
	Purpose   string    `json:"purpose,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Sector    string   `json:"sector"`
	SubSector string   `json:"sub_sector"`
	Tags      []string `json:"tags"`
	Ticker    string   `json:"ticker"`

	HolderName string `json:"holder_name"`
	HolderType string `json:"holder_type"`

	HoldingBefore *int64 `json:"holding_before,omitempty"`
	HoldingAfter  *int64 `json:"holding_after,omitempty"`

	SharePercentageBefore      *float64 `json:"share_percentage_before,omitempty"`
	SharePercentageAfter       *float64 `json:"share_percentage_after,omitempty"`
	SharePercentageTransaction *float64 `json:"share_percentage_transaction,omitempty"`
	AmountTransaction          *int64   `json:"amount_transaction,omitempty"`

	TransactionType  TransactionType  `json:"transaction_type"`
	Price            float64          `json:"price"`
	TransactionValue float64          `json:"transaction_value"`
	Legs             []TransactionLeg `json:"price_transaction"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PricedTransaction returns the aggregate currently stored on the filing.
func (f *Filing) PricedTransaction() PricedTransaction {
	return PricedTransaction{
		Price:            f.Price,
		TransactionValue: f.TransactionValue,
		TransactionType:  f.TransactionType,
	}
}

// LegsEqual reports whether two leg lists describe the same transactions.
// Used by the update path to detect price_transaction changes.
func LegsEqual(a, b []TransactionLeg) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
