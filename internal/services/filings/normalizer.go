// Package filings turns raw disclosure submissions into canonical filings
// and keeps UID-paired rows consistent.
package filings

import (
	"fmt"
	"math"
	"time"

	"github.com/sahamlabs/emiten/internal/common"
	"github.com/sahamlabs/emiten/internal/models"
	"github.com/sahamlabs/emiten/internal/services/pricing"
	"github.com/sahamlabs/emiten/internal/services/tags"
)

// dateTimeLayout is the upstream disclosure timestamp format.
const dateTimeLayout = "2006-01-02 15:04:05"

// ReferenceResolver is the slice of the reference service the normalizer
// needs.
type ReferenceResolver interface {
	SectorFor(subSector string) string
	SubSectorByTicker(ticker string) string
}

// Normalizer produces one canonical Filing from a raw submission.
type Normalizer struct {
	reference ReferenceResolver
}

// NewNormalizer creates a Normalizer backed by the given reference data.
func NewNormalizer(reference ReferenceResolver) *Normalizer {
	return &Normalizer{reference: reference}
}

// Normalize validates, coerces and derives every canonical field. Bad
// optional numerics degrade to nil; only missing required fields and
// ragged leg arrays are errors.
func (n *Normalizer) Normalize(raw *models.RawSubmission) (*models.Filing, error) {
	ticker := common.NormalizeTicker(raw.Ticker)
	if ticker == "" {
		return nil, models.NewValidationError("ticker", "ticker is required")
	}

	holderName := common.CleanCompanyName(raw.HolderName())
	if holderName == "" {
		return nil, models.NewValidationError("holder_name", "holder name is required")
	}

	timestamp, err := parseDateTime(raw.DateTime)
	if err != nil {
		return nil, models.NewValidationError("date_time", err.Error())
	}

	subSector := raw.SubSector()
	if subSector == "" {
		subSector = n.reference.SubSectorByTicker(ticker)
	}
	sector := raw.Sector
	if sector == "" {
		sector = n.reference.SectorFor(subSector)
	}

	holdingBefore := common.SafeInt(raw.HoldingBefore)
	holdingAfter := common.SafeInt(raw.HoldingAfter)
	pctBefore := common.SafeFloat(raw.SharePercentageBefore)
	pctAfter := common.SafeFloat(raw.SharePercentageAfter)

	var amountTransaction *int64
	if holdingBefore != nil && holdingAfter != nil {
		v := *holdingBefore - *holdingAfter
		if v < 0 {
			v = -v
		}
		amountTransaction = &v
	}

	var pctTransaction *float64
	if pctBefore != nil && pctAfter != nil {
		v := common.Round4(math.Abs(*pctBefore - *pctAfter))
		pctTransaction = &v
	}

	legs, err := buildLegs(raw.PriceTransaction)
	if err != nil {
		return nil, err
	}

	priced, err := pricing.Aggregate(legs, fallbackType(legs, holdingBefore, holdingAfter))
	if err != nil {
		return nil, err
	}

	filing := &models.Filing{
		ID:        raw.ID,
		UID:       raw.UID(),
		Source:    raw.Source,
		Purpose:   raw.Purpose,
		Timestamp: timestamp,

		Sector:    sector,
		SubSector: subSector,
		Ticker:    ticker,

		HolderName: holderName,
		HolderType: raw.HolderType,

		HoldingBefore: holdingBefore,
		HoldingAfter:  holdingAfter,

		SharePercentageBefore:      pctBefore,
		SharePercentageAfter:       pctAfter,
		SharePercentageTransaction: pctTransaction,
		AmountTransaction:          amountTransaction,

		TransactionType:  priced.TransactionType,
		Price:            priced.Price,
		TransactionValue: priced.TransactionValue,
		Legs:             legs,
	}

	filing.Tags = tags.Classify(tags.Input{
		Purpose:               raw.Purpose,
		SharePercentageBefore: pctBefore,
		SharePercentageAfter:  pctAfter,
		TransactionType:       priced.TransactionType,
		Legs:                  legs,
		ExplicitTags:          raw.Tags,
	})

	companyName := common.CleanCompanyName(raw.CompanyName)
	filing.Title, filing.Body = templateNarrative(raw, filing, holderName, companyName)

	return filing, nil
}

// parseDateTime accepts the upstream "2006-01-02 15:04:05" form and the
// ISO "T" variant some callers send.
func parseDateTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date_time is required")
	}
	if t, err := time.Parse(dateTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date_time %q", s)
	}
	return t, nil
}

// buildLegs zips the parallel submission arrays into legs. Prices,
// amounts and types must be equal length; dates may be shorter.
func buildLegs(raw models.RawPriceTransaction) ([]models.TransactionLeg, error) {
	if len(raw.Prices) != len(raw.AmountTransacted) || len(raw.Prices) != len(raw.Types) {
		return nil, models.NewValidationError("price_transaction",
			fmt.Sprintf("mismatched leg arrays: %d prices, %d amounts, %d types",
				len(raw.Prices), len(raw.AmountTransacted), len(raw.Types)))
	}

	legs := make([]models.TransactionLeg, len(raw.Prices))
	for i := range raw.Prices {
		legs[i] = models.TransactionLeg{
			Price:    raw.Prices[i],
			Quantity: raw.AmountTransacted[i],
			Type:     models.ParseTransactionType(raw.Types[i]),
		}
		if i < len(raw.Dates) {
			legs[i].Date = raw.Dates[i]
		}
	}
	return legs, nil
}

// fallbackType resolves the overall type for single-typed legs: the
// holdings delta when both sides are disclosed, otherwise the legs' own
// type.
func fallbackType(legs []models.TransactionLeg, before, after *int64) models.TransactionType {
	if before != nil && after != nil {
		if *before < *after {
			return models.TransactionBuy
		}
		return models.TransactionSell
	}
	if len(legs) > 0 {
		return legs[0].Type
	}
	return models.TransactionOther
}

// templateNarrative builds the deterministic Indonesian title and body.
// The LLM summarizer may replace both later; these are the values stored
// when generation is disabled or fails.
func templateNarrative(raw *models.RawSubmission, f *models.Filing, holderName, companyName string) (string, string) {
	title := fmt.Sprintf("Informasi insider trading %s dalam %s", holderName, companyName)
	body := fmt.Sprintf("%s - %s - %s dengan status kontrol %s dalam saham %s berubah dari %s menjadi %s",
		raw.DocumentNumber,
		f.Timestamp.Format(dateTimeLayout),
		holderName,
		raw.ControlStatus,
		companyName,
		formatHolding(f.HoldingBefore),
		formatHolding(f.HoldingAfter),
	)
	if raw.Title != "" {
		title = raw.Title
	}
	if raw.Body != "" {
		body = raw.Body
	}
	return title, body
}

func formatHolding(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
