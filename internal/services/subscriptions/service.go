// Package subscriptions maintains per-user news topic subscriptions in
// the key/value store. Users and topics are normalized to uppercase; a
// user's record is removed once their last topic is gone.
package subscriptions

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

const keyPrefix = "subscription:"

const StatusSuccess = "success"

// Result is the outcome of a subscribe/unsubscribe operation.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`

	// Created reports that a new user record was made; the handler maps
	// it to 201.
	Created bool `json:"-"`
}

// Service owns the subscription topic sets.
type Service struct {
	kv     interfaces.KeyValueStorage
	logger arbor.ILogger
}

// NewService creates a subscription service on top of the key/value store.
func NewService(kv interfaces.KeyValueStorage, logger arbor.ILogger) *Service {
	return &Service{
		kv:     kv,
		logger: logger,
	}
}

// Subscribe adds a topic to the user's set. Subscribing to an already
// held topic succeeds without change.
func (s *Service) Subscribe(user, topic string) (Result, error) {
	user, topic = normalize(user), normalize(topic)
	if user == "" || topic == "" {
		return Result{}, models.NewValidationError("subscription", "user and topic are required")
	}

	topics, found, err := s.load(user)
	if err != nil {
		return Result{}, err
	}

	if !found {
		if err := s.save(user, []string{topic}); err != nil {
			return Result{}, err
		}
		s.logger.Info().Str("user", user).Str("topic", topic).Msg("Subscription created")
		return Result{Status: StatusSuccess, Message: "Subscribed successfully", Created: true}, nil
	}

	for _, t := range topics {
		if t == topic {
			return Result{Status: StatusSuccess, Message: "Already subscribed to this topic"}, nil
		}
	}

	topics = append(topics, topic)
	if err := s.save(user, topics); err != nil {
		return Result{}, err
	}
	s.logger.Info().Str("user", user).Str("topic", topic).Msg("Subscription added")
	return Result{Status: StatusSuccess, Message: "Subscribed successfully"}, nil
}

// Unsubscribe removes a topic from the user's set. Removing the last
// topic deletes the user's record entirely.
func (s *Service) Unsubscribe(user, topic string) (Result, error) {
	user, topic = normalize(user), normalize(topic)
	if user == "" || topic == "" {
		return Result{}, models.NewValidationError("subscription", "user and topic are required")
	}

	topics, found, err := s.load(user)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{}, models.NewValidationError("user", "User not found")
	}

	idx := -1
	for i, t := range topics {
		if t == topic {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Result{}, models.NewValidationError("topic", "User is not subscribed to this topic")
	}

	topics = append(topics[:idx], topics[idx+1:]...)
	if len(topics) == 0 {
		if err := s.kv.Delete(keyPrefix + user); err != nil {
			return Result{}, err
		}
	} else {
		if err := s.save(user, topics); err != nil {
			return Result{}, err
		}
	}

	s.logger.Info().Str("user", user).Str("topic", topic).Msg("Subscription removed")
	return Result{Status: StatusSuccess, Message: "Unsubscribed successfully"}, nil
}

// Topics returns the user's current topic set. interfaces.ErrNotFound
// when the user has no subscriptions.
func (s *Service) Topics(user string) ([]string, error) {
	topics, found, err := s.load(normalize(user))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, interfaces.ErrNotFound
	}
	return topics, nil
}

func (s *Service) load(user string) ([]string, bool, error) {
	raw, err := s.kv.Get(keyPrefix + user)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var topics []string
	if err := json.Unmarshal([]byte(raw), &topics); err != nil {
		return nil, false, fmt.Errorf("corrupt subscription record for %s: %w", user, err)
	}
	return topics, true, nil
}

func (s *Service) save(user string, topics []string) error {
	raw, err := json.Marshal(topics)
	if err != nil {
		return err
	}
	return s.kv.Set(keyPrefix+user, string(raw))
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
