package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

// SearchService defines the search operations used by the handler
type SearchService interface {
	Search(ctx context.Context, req services.SearchRequest) (*entities.PagedResult[*entities.BusinessDTO], error)
	GetNearby(ctx context.Context, req services.NearbyRequest) ([]*entities.BusinessDTO, error)
	QuickSearch(ctx context.Context, term string, limit int) ([]*entities.BusinessDTO, error)
}

// SearchHandler handles directory search requests
type SearchHandler struct {
	service SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles POST /api/search/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req services.SearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	page, err := h.service.Search(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, page)
}

// Nearby handles GET /api/search/nearby
func (h *SearchHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := requiredFloat(q.Get("latitude"), "latitude")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	lon, err := requiredFloat(q.Get("longitude"), "longitude")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	req := services.NewNearbyRequest(lat, lon)
	if raw := q.Get("radiusInKm"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithAppError(w, r, apperrors.NewValidationError("radiusInKm must be a number"))
			return
		}
		req.RadiusInKm = radius
	}
	req.CategoryID = q.Get("categoryId")

	results, err := h.service.GetNearby(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, results)
}

// Quick handles GET /api/search/quick
func (h *SearchHandler) Quick(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithAppError(w, r, apperrors.NewValidationError("limit must be an integer"))
			return
		}
		limit = parsed
	}

	results, err := h.service.QuickSearch(r.Context(), q.Get("term"), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, results)
}

func requiredFloat(raw, name string) (float64, error) {
	if raw == "" {
		return 0, apperrors.NewValidationError(name + " is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(name + " must be a number")
	}
	return v, nil
}
