// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package subscription

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements subscription HTTP endpoints.
type Handler struct {
	subscriptionService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{subscriptionService: service}
}

// Routes returns a [chi.Router] configured with subscription routes.
//
// # Endpoints
//   - POST /c/{channelID} : Toggles the viewer's subscription.
//   - GET  /c/{channelID} : Subscriber count and viewer relationship.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoint; the viewer relationship is filled in when a valid
	// session is present.
	router.Get("/c/{channelID}", handler.status)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/c/{channelID}", handler.toggle)
	})

	return router
}

/*
Toggle flips the authenticated user's subscription to a channel.

POST /api/v1/subscriptions/c/{channelID}

Response:
  - 200: Status: The resulting subscription state
  - 400: ErrValidation: Self-subscription attempt
  - 404: ErrNotFound: Unknown channel
*/
func (handler *Handler) toggle(writer http.ResponseWriter, request *http.Request) {
	subscriberID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	channelID := requestutil.ID(request, "channelID")

	validator := &validate.Validator{}
	validator.Required(FieldChannelID, channelID).UUID(FieldChannelID, channelID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	subscribed, err := handler.subscriptionService.Toggle(request.Context(), subscriberID, channelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Unsubscribed successfully"
	if subscribed {
		message = "Subscribed successfully"
	}

	respond.OK(writer, map[string]any{
		FieldChannelID:  channelID,
		FieldSubscribed: subscribed,
	}, message)
}

/*
Status reports a channel's subscriber count and whether the current viewer
follows it.

GET /api/v1/subscriptions/c/{channelID}

Response:
  - 200: Status: Count and viewer relationship
  - 404: ErrNotFound: Unknown channel
*/
func (handler *Handler) status(writer http.ResponseWriter, request *http.Request) {
	channelID := requestutil.ID(request, "channelID")

	validator := &validate.Validator{}
	validator.Required(FieldChannelID, channelID).UUID(FieldChannelID, channelID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	status, err := handler.subscriptionService.StatusForChannel(request.Context(), channelID, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status, "Subscription status fetched successfully")
}
