package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/handler/http/response"
)

type IntentHandler interface {
	// Public endpoint - submit a membership intent
	Create(w http.ResponseWriter, r *http.Request)
}

type intentHandlerImpl struct {
	intentService intent.IntentService
}

func NewIntentHandler(intentService intent.IntentService) IntentHandler {
	return &intentHandlerImpl{
		intentService: intentService,
	}
}

// Create implements IntentHandler.
func (h *intentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req intent.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.intentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Intent submitted successfully", map[string]interface{}{
		"intent": result,
	})
}
