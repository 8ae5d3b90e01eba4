package badger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/sahamlabs/emiten/internal/interfaces"
)

// kvPair is the stored shape of one key/value entry.
type kvPair struct {
	Key   string `badgerhold:"key"`
	Value string
}

// KVStorage implements the KeyValueStorage interface for Badger
type KVStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewKVStorage creates a new KVStorage instance
func NewKVStorage(db *BadgerDB, logger arbor.ILogger) interfaces.KeyValueStorage {
	return &KVStorage{
		db:     db,
		logger: logger,
	}
}

// normalizeKey converts a key to lowercase for case-insensitive storage
func (s *KVStorage) normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (s *KVStorage) Get(key string) (string, error) {
	var pair kvPair
	err := s.db.Store().Get(s.normalizeKey(key), &pair)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return "", interfaces.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key: %w", err)
	}
	return pair.Value, nil
}

func (s *KVStorage) Set(key, value string) error {
	pair := kvPair{Key: s.normalizeKey(key), Value: value}
	if err := s.db.Store().Upsert(pair.Key, &pair); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

func (s *KVStorage) Delete(key string) error {
	err := s.db.Store().Delete(s.normalizeKey(key), &kvPair{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}
