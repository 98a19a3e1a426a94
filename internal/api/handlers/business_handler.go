package handlers

import (
	"context"
	"net/http"

	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// BusinessService defines the listing operations used by the handler
type BusinessService interface {
	Create(ctx context.Context, in services.CreateBusinessInput) (*entities.BusinessDTO, error)
	GetByID(ctx context.Context, id string) (*entities.BusinessDTO, error)
	GetAll(ctx context.Context) ([]*entities.BusinessDTO, error)
	GetByCategory(ctx context.Context, categoryID string) ([]*entities.BusinessDTO, error)
	GetByUser(ctx context.Context, userID string) ([]*entities.BusinessDTO, error)
	Update(ctx context.Context, id string, in services.UpdateBusinessInput) (*entities.BusinessDTO, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// BusinessHandler handles business listing requests
type BusinessHandler struct {
	service BusinessService
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(service BusinessService) *BusinessHandler {
	return &BusinessHandler{service: service}
}

// CreateBusiness handles POST /api/businesses
func (h *BusinessHandler) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	var in services.CreateBusinessInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	business, err := h.service.Create(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondCreated(w, "Business created successfully", business)
}

// GetBusinesses handles GET /api/businesses
func (h *BusinessHandler) GetBusinesses(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.service.GetAll(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, businesses)
}

// GetBusiness handles GET /api/businesses/{id}
func (h *BusinessHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	business, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, business)
}

// GetBusinessesByCategory handles GET /api/businesses/category/{id}
func (h *BusinessHandler) GetBusinessesByCategory(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.service.GetByCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, businesses)
}

// GetBusinessesByUser handles GET /api/businesses/user/{id}
func (h *BusinessHandler) GetBusinessesByUser(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.service.GetByUser(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, businesses)
}

// UpdateBusiness handles PUT /api/businesses/{id}
func (h *BusinessHandler) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateBusinessInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	business, err := h.service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, true, "Business updated successfully", business)
}

// DeleteBusiness handles DELETE /api/businesses/{id}
func (h *BusinessHandler) DeleteBusiness(w http.ResponseWriter, r *http.Request) {
	ok, err := h.service.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !ok {
		respondMessage(w, http.StatusNotFound, false, "Business not found", false)
		return
	}
	respondMessage(w, http.StatusOK, true, "Business deleted successfully", true)
}
