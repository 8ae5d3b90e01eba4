package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/common"
	"github.com/sahamlabs/emiten/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db     *BadgerDB
	filing interfaces.FilingStorage
	news   interfaces.NewsStorage
	kv     interfaces.KeyValueStorage
	logger arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:     db,
		filing: NewFilingStorage(db, logger),
		news:   NewNewsStorage(db, logger),
		kv:     NewKVStorage(db, logger),
		logger: logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// FilingStorage returns the Filing storage interface
func (m *Manager) FilingStorage() interfaces.FilingStorage {
	return m.filing
}

// NewsStorage returns the News storage interface
func (m *Manager) NewsStorage() interfaces.NewsStorage {
	return m.news
}

// KeyValueStorage returns the KeyValue storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Close closes the underlying database
func (m *Manager) Close() error {
	return m.db.Close()
}
