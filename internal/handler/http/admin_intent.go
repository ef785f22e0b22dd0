package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/membership-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AdminIntentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type adminIntentHandlerImpl struct {
	intentService intent.IntentService
}

func NewAdminIntentHandler(intentService intent.IntentService) AdminIntentHandler {
	return &adminIntentHandlerImpl{
		intentService: intentService,
	}
}

// List implements AdminIntentHandler.
func (h *adminIntentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var errs validator.ValidationErrors

	var req intent.ListRequest
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if page := query.Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be an integer"})
		}
		req.Page = n
	}
	if pageSize := query.Get("page_size"); pageSize != "" {
		n, err := strconv.Atoi(pageSize)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "page_size", Message: "page_size must be an integer"})
		}
		req.PageSize = n
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.intentService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetByID implements AdminIntentHandler.
func (h *adminIntentHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	result, err := h.intentService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"intent": result,
	})
}

// Approve implements AdminIntentHandler.
func (h *adminIntentHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	reviewerID, _ := middleware.ReviewerIDFromContext(r.Context())

	result, err := h.intentService.Approve(r.Context(), intent.ReviewRequest{
		IntentID:   chi.URLParam(r, "id"),
		ReviewerID: reviewerID,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Intent approved successfully", result)
}

// Reject implements AdminIntentHandler.
func (h *adminIntentHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	reviewerID, _ := middleware.ReviewerIDFromContext(r.Context())

	result, err := h.intentService.Reject(r.Context(), intent.ReviewRequest{
		IntentID:   chi.URLParam(r, "id"),
		ReviewerID: reviewerID,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Intent rejected successfully", map[string]interface{}{
		"intent": result,
	})
}
