package filings

import (
	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
	"github.com/sahamlabs/emiten/internal/services/pricing"
)

// Reconciler keeps the two halves of a UID pair consistent. A disclosure
// of a bilateral transfer is filed twice, once per party; when one side's
// legs are corrected the other side must show the same transactions.
type Reconciler struct {
	storage interfaces.FilingStorage
	logger  arbor.ILogger
}

// NewReconciler creates a Reconciler over the given filing store.
func NewReconciler(storage interfaces.FilingStorage, logger arbor.ILogger) *Reconciler {
	return &Reconciler{storage: storage, logger: logger}
}

// ReconcilePair propagates updated legs to the UID sibling of the filing
// being edited. Every failure mode is a logged skip: reconciliation must
// never block the primary update, which the caller persists regardless.
func (r *Reconciler) ReconcilePair(updated *models.Filing) {
	if updated.UID == "" {
		return
	}

	group, err := r.storage.GetFilingsByUID(updated.UID)
	if err != nil {
		r.logger.Warn().Err(err).Str("uid", updated.UID).Msg("Reconciliation skipped: UID group fetch failed")
		return
	}
	// Pairing assumes strictly bilateral disclosures; any other group
	// size is left alone.
	if len(group) != 2 {
		r.logger.Debug().Str("uid", updated.UID).Int("group_size", len(group)).Msg("Reconciliation skipped: UID group is not a pair")
		return
	}

	var sibling *models.Filing
	for _, f := range group {
		if f.ID != updated.ID {
			sibling = f
			break
		}
	}
	if sibling == nil {
		r.logger.Warn().Str("uid", updated.UID).Msg("Reconciliation skipped: no sibling in UID group")
		return
	}

	if models.LegsEqual(sibling.Legs, updated.Legs) {
		return
	}

	// The sibling gets the new legs but keeps its own holdings for type
	// resolution, and its own narrative and tags untouched.
	legs := make([]models.TransactionLeg, len(updated.Legs))
	copy(legs, updated.Legs)

	priced, err := pricing.Aggregate(legs, fallbackType(legs, sibling.HoldingBefore, sibling.HoldingAfter))
	if err != nil {
		r.logger.Warn().Err(err).Str("uid", updated.UID).Str("sibling_id", sibling.ID).Msg("Reconciliation skipped: sibling aggregation failed")
		return
	}

	sibling.Legs = legs
	sibling.Price = priced.Price
	sibling.TransactionValue = priced.TransactionValue
	sibling.TransactionType = priced.TransactionType

	if err := r.storage.SaveFiling(sibling); err != nil {
		r.logger.Warn().Err(err).Str("uid", updated.UID).Str("sibling_id", sibling.ID).Msg("Reconciliation skipped: sibling save failed")
		return
	}

	r.logger.Info().Str("uid", updated.UID).Str("sibling_id", sibling.ID).Msg("Reconciled UID pair")
}
