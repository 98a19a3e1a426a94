package handlers

import (
	"context"
	"net/http"

	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// ServiceCatalog defines the offered-service operations used by the handler
type ServiceCatalog interface {
	Create(ctx context.Context, in services.ServiceInput) (*entities.Service, error)
	GetByID(ctx context.Context, id string) (*entities.Service, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*entities.Service, error)
	Update(ctx context.Context, id string, in services.ServiceInput) (*entities.Service, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ServiceHandler handles requests for the services a business offers
type ServiceHandler struct {
	catalog ServiceCatalog
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(catalog ServiceCatalog) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// ListBusinessServices handles GET /api/services/business/{id}
func (h *ServiceHandler) ListBusinessServices(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListByBusiness(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, list)
}

// CreateService handles POST /api/services
func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var in services.ServiceInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	service, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondCreated(w, "Service created successfully", service)
}

// GetService handles GET /api/services/{id}
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	service, err := h.catalog.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, service)
}

// UpdateService handles PUT /api/services/{id}
func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var in services.ServiceInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	service, err := h.catalog.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, true, "Service updated successfully", service)
}

// DeleteService handles DELETE /api/services/{id}
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	ok, err := h.catalog.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !ok {
		respondMessage(w, http.StatusNotFound, false, "Service not found", false)
		return
	}
	respondMessage(w, http.StatusOK, true, "Service deleted successfully", true)
}
