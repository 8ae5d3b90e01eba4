package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/services/subscriptions"
)

// SubscriptionServiceInterface defines the methods needed from the subscription service
type SubscriptionServiceInterface interface {
	Subscribe(user, topic string) (subscriptions.Result, error)
	Unsubscribe(user, topic string) (subscriptions.Result, error)
}

// SubscriptionsHandler handles the topic-subscription HTTP surface
type SubscriptionsHandler struct {
	service  SubscriptionServiceInterface
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewSubscriptionsHandler creates a new subscriptions handler
func NewSubscriptionsHandler(service SubscriptionServiceInterface, logger arbor.ILogger) *SubscriptionsHandler {
	return &SubscriptionsHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

type subscriptionRequest struct {
	User  string `json:"user" validate:"required"`
	Topic string `json:"topic" validate:"required"`
}

// SubscribeHandler handles POST /api/subscribe - add a topic to a user's
// subscription set. A newly created user record returns 201.
func (h *SubscriptionsHandler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, err := h.service.Subscribe(req.User, req.Topic)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	WriteJSON(w, status, result)
}

// UnsubscribeHandler handles POST /api/unsubscribe - remove a topic from
// a user's subscription set.
func (h *SubscriptionsHandler) UnsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, err := h.service.Unsubscribe(req.User, req.Topic)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *SubscriptionsHandler) decode(w http.ResponseWriter, r *http.Request) (subscriptionRequest, bool) {
	var req subscriptionRequest
	if !RequireMethod(w, r, "POST") {
		return req, false
	}
	if !DecodeJSON(w, r, &req) {
		return req, false
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}
