package handlers

import (
	"context"
	"net/http"

	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// ReviewService defines the review operations used by the handler
type ReviewService interface {
	List(ctx context.Context) ([]*entities.Review, error)
	GetByID(ctx context.Context, id string) (*entities.Review, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*entities.Review, error)
	ListByUser(ctx context.Context, userID string) ([]*entities.Review, error)
	AverageRating(ctx context.Context, businessID string) (float64, error)
	Add(ctx context.Context, in services.AddReviewInput) (*entities.Review, error)
	Update(ctx context.Context, id string, in services.UpdateReviewInput) (*entities.Review, error)
	Delete(ctx context.Context, id string) error
}

// ReviewHandler handles review requests
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ListReviews handles GET /api/review
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, reviews)
}

// GetReview handles GET /api/review/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, review)
}

// GetBusinessReviews handles GET /api/review/business/{id}
func (h *ReviewHandler) GetBusinessReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListByBusiness(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, reviews)
}

// GetUserReviews handles GET /api/review/user/{id}
func (h *ReviewHandler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListByUser(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, reviews)
}

// GetAverageRating handles GET /api/review/business/{id}/average
func (h *ReviewHandler) GetAverageRating(w http.ResponseWriter, r *http.Request) {
	avg, err := h.service.AverageRating(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, avg)
}

// AddReview handles POST /api/review
func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var in services.AddReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	review, err := h.service.Add(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondCreated(w, "Review added successfully", review)
}

// UpdateReview handles PUT /api/review/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	review, err := h.service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, true, "Review updated successfully", review)
}

// DeleteReview handles DELETE /api/review/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, true, "Review deleted successfully", true)
}
