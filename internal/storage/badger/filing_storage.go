package badger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

// FilingStorage implements the FilingStorage interface for Badger
type FilingStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewFilingStorage creates a new FilingStorage instance
func NewFilingStorage(db *BadgerDB, logger arbor.ILogger) interfaces.FilingStorage {
	return &FilingStorage{
		db:     db,
		logger: logger,
	}
}

func (s *FilingStorage) SaveFiling(filing *models.Filing) error {
	if filing.ID == "" {
		filing.ID = uuid.New().String()
	}

	now := time.Now()
	if filing.CreatedAt.IsZero() {
		filing.CreatedAt = now
	}
	filing.UpdatedAt = now

	if err := s.db.Store().Upsert(filing.ID, filing); err != nil {
		return fmt.Errorf("failed to save filing: %w", err)
	}
	return nil
}

func (s *FilingStorage) GetFiling(id string) (*models.Filing, error) {
	var filing models.Filing
	if err := s.db.Store().Get(id, &filing); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get filing: %w", err)
	}
	return &filing, nil
}

// GetFilingsByUID returns every filing sharing an upstream disclosure ID.
// Reconciliation only pairs rows when exactly two are returned.
func (s *FilingStorage) GetFilingsByUID(uid string) ([]*models.Filing, error) {
	if uid == "" {
		return nil, nil
	}

	var filings []models.Filing
	err := s.db.Store().Find(&filings, badgerhold.Where("UID").Eq(uid).Index("UID"))
	if err != nil {
		return nil, fmt.Errorf("failed to find filings by UID: %w", err)
	}

	result := make([]*models.Filing, len(filings))
	for i := range filings {
		result[i] = &filings[i]
	}
	return result, nil
}

func (s *FilingStorage) ListFilings() ([]*models.Filing, error) {
	var filings []models.Filing
	if err := s.db.Store().Find(&filings, nil); err != nil {
		return nil, fmt.Errorf("failed to list filings: %w", err)
	}

	result := make([]*models.Filing, len(filings))
	for i := range filings {
		result[i] = &filings[i]
	}
	return result, nil
}

func (s *FilingStorage) DeleteFiling(id string) error {
	if err := s.db.Store().Delete(id, &models.Filing{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to delete filing: %w", err)
	}
	return nil
}

// DeleteFilingsByUID removes all filings sharing an upstream disclosure
// ID. Used by the cascade path when a disclosure is retracted.
func (s *FilingStorage) DeleteFilingsByUID(uid string) error {
	if uid == "" {
		return nil
	}

	err := s.db.Store().DeleteMatching(&models.Filing{}, badgerhold.Where("UID").Eq(uid).Index("UID"))
	if err != nil {
		return fmt.Errorf("failed to delete filings by UID: %w", err)
	}
	return nil
}
