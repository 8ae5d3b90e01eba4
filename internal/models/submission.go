package models

import "strings"

// RawPriceTransaction carries the parallel leg arrays exactly as submitted.
// The three arrays must be the same length; Dates may be shorter or absent.
type RawPriceTransaction struct {
	Prices           []float64 `json:"prices"`
	AmountTransacted []float64 `json:"amount_transacted"`
	Types            []string  `json:"types"`
	Dates            []string  `json:"dates,omitempty"`
}

// RawSubmission is a filing submit/update payload before normalization.
// Upstream callers use several alias spellings for the same fields
// (sub_sector/subsector, holder_name/shareholder_name, UID/uid); the alias
// is resolved once here, at the boundary, via the accessor methods.
type RawSubmission struct {
	ID             string `json:"id,omitempty"`
	Ticker         string `json:"ticker" validate:"required"`
	CompanyName    string `json:"company_name"`
	HolderNameRaw  string `json:"holder_name"`
	Shareholder    string `json:"shareholder_name,omitempty"`
	Source         string `json:"source"`
	HolderType     string `json:"holder_type"`
	Purpose        string `json:"purpose,omitempty"`
	ControlStatus  string `json:"control_status,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`

	SubSectorRaw string `json:"sub_sector,omitempty"`
	SubsectorAlt string `json:"subsector,omitempty"`
	Sector       string `json:"sector,omitempty"`

	DateTime string `json:"date_time"`

	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`

	// Loosely-typed numeric fields; coerced with SafeInt/SafeFloat.
	HoldingBefore         interface{} `json:"holding_before,omitempty"`
	HoldingAfter          interface{} `json:"holding_after,omitempty"`
	SharePercentageBefore interface{} `json:"share_percentage_before,omitempty"`
	SharePercentageAfter  interface{} `json:"share_percentage_after,omitempty"`

	// Tags is a comma-separated caller override. When present the derived
	// tag pipeline is skipped entirely.
	Tags string `json:"tags,omitempty"`

	UIDRaw string `json:"UID,omitempty"`
	UIDAlt string `json:"uid,omitempty"`

	PriceTransaction RawPriceTransaction `json:"price_transaction"`
}

// HolderName resolves the holder_name/shareholder_name alias.
func (r *RawSubmission) HolderName() string {
	if s := strings.TrimSpace(r.HolderNameRaw); s != "" {
		return s
	}
	return strings.TrimSpace(r.Shareholder)
}

// SubSector resolves the sub_sector/subsector alias.
func (r *RawSubmission) SubSector() string {
	if s := strings.TrimSpace(r.SubSectorRaw); s != "" {
		return s
	}
	return strings.TrimSpace(r.SubsectorAlt)
}

// UID resolves the UID/uid alias.
func (r *RawSubmission) UID() string {
	if s := strings.TrimSpace(r.UIDRaw); s != "" {
		return s
	}
	return strings.TrimSpace(r.UIDAlt)
}

func normalizeLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
