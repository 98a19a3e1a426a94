package handlers

import (
	"context"
	"net/http"

	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// BookingService defines the booking operations used by the handler
type BookingService interface {
	Create(ctx context.Context, in services.CreateBookingInput) (*entities.BookingDTO, error)
	GetByID(ctx context.Context, id string) (*entities.BookingDTO, error)
	GetUserBookings(ctx context.Context, userID string) ([]*entities.BookingDTO, error)
	GetBusinessBookings(ctx context.Context, businessID string) ([]*entities.BookingDTO, error)
	GetUpcoming(ctx context.Context, userID string) ([]*entities.BookingDTO, error)
	GetHistory(ctx context.Context, userID string) ([]*entities.BookingDTO, error)
	UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) (*entities.BookingDTO, error)
	Cancel(ctx context.Context, id string) (bool, error)
}

// BookingHandler handles reservation requests
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type updateStatusRequest struct {
	Status entities.BookingStatus `json:"status"`
}

// CreateBooking handles POST /api/booking
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var in services.CreateBookingInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	booking, err := h.service.Create(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondCreated(w, "Booking created successfully", booking)
}

// GetBooking handles GET /api/booking/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, booking)
}

// GetUserBookings handles GET /api/booking/user/{id}
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.GetUserBookings)
}

// GetBusinessBookings handles GET /api/booking/business/{id}
func (h *BookingHandler) GetBusinessBookings(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.GetBusinessBookings)
}

// GetUpcoming handles GET /api/booking/user/{id}/upcoming
func (h *BookingHandler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.GetUpcoming)
}

// GetHistory handles GET /api/booking/user/{id}/history
func (h *BookingHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.GetHistory)
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) ([]*entities.BookingDTO, error)) {
	bookings, err := fetch(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, bookings)
}

// UpdateStatus handles PUT /api/booking/{id}/status
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in updateStatusRequest
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), r.PathValue("id"), in.Status)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, true, "Booking status updated successfully", booking)
}

// CancelBooking handles DELETE /api/booking/{id}
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ok, err := h.service.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !ok {
		respondMessage(w, http.StatusNotFound, false, "Booking not found", false)
		return
	}
	respondMessage(w, http.StatusOK, true, "Booking cancelled successfully", true)
}
