package routes

import (
	"net/http"

	"github.com/smartlocalbusiness/backend/internal/api/handlers"
	"github.com/smartlocalbusiness/backend/internal/api/middleware"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/observability"
)

// Options configures the middleware chain shared by every service
type Options struct {
	AllowedOrigins []string
	Verifier       middleware.TokenVerifier
	EnforceAuth    bool
	Metrics        *observability.Metrics
}

// Router holds the mux of one service. Each binary registers only the
// route groups it serves.
type Router struct {
	mux  *http.ServeMux
	opts Options
}

// NewRouter creates a new router
func NewRouter(opts Options) *Router {
	return &Router{
		mux:  http.NewServeMux(),
		opts: opts,
	}
}

// RegisterUserRoutes mounts /api/users
func (r *Router) RegisterUserRoutes(h *handlers.UserHandler) {
	r.mux.HandleFunc("POST /api/users/register", h.Register)
	r.mux.HandleFunc("POST /api/users/login", h.Login)
	r.mux.HandleFunc("GET /api/users/{id}", h.GetUser)
	r.mux.HandleFunc("PUT /api/users/{id}", h.UpdateUser)
}

// RegisterBusinessRoutes mounts /api/businesses, /api/categories and
// /api/services
func (r *Router) RegisterBusinessRoutes(b *handlers.BusinessHandler, c *handlers.CategoryHandler, s *handlers.ServiceHandler) {
	r.mux.HandleFunc("POST /api/businesses", b.CreateBusiness)
	r.mux.HandleFunc("GET /api/businesses", b.GetBusinesses)
	r.mux.HandleFunc("GET /api/businesses/{id}", b.GetBusiness)
	r.mux.HandleFunc("PUT /api/businesses/{id}", b.UpdateBusiness)
	r.mux.HandleFunc("DELETE /api/businesses/{id}", b.DeleteBusiness)
	r.mux.HandleFunc("GET /api/businesses/category/{id}", b.GetBusinessesByCategory)
	r.mux.HandleFunc("GET /api/businesses/user/{id}", b.GetBusinessesByUser)

	if c != nil {
		r.mux.HandleFunc("GET /api/categories", c.ListCategories)
		r.mux.HandleFunc("GET /api/categories/{id}", c.GetCategory)
		r.mux.HandleFunc("POST /api/categories", c.CreateCategory)
	}

	if s != nil {
		r.mux.HandleFunc("GET /api/services/business/{id}", s.ListBusinessServices)
		r.mux.HandleFunc("POST /api/services", s.CreateService)
		r.mux.HandleFunc("GET /api/services/{id}", s.GetService)
		r.mux.HandleFunc("PUT /api/services/{id}", s.UpdateService)
		r.mux.HandleFunc("DELETE /api/services/{id}", s.DeleteService)
	}
}

// RegisterSearchRoutes mounts /api/search
func (r *Router) RegisterSearchRoutes(h *handlers.SearchHandler) {
	r.mux.HandleFunc("POST /api/search/search", h.Search)
	r.mux.HandleFunc("GET /api/search/nearby", h.Nearby)
	r.mux.HandleFunc("GET /api/search/quick", h.Quick)
}

// RegisterBookingRoutes mounts /api/booking
func (r *Router) RegisterBookingRoutes(h *handlers.BookingHandler) {
	r.mux.HandleFunc("POST /api/booking", h.CreateBooking)
	r.mux.HandleFunc("GET /api/booking/{id}", h.GetBooking)
	r.mux.HandleFunc("GET /api/booking/user/{id}", h.GetUserBookings)
	r.mux.HandleFunc("GET /api/booking/business/{id}", h.GetBusinessBookings)
	r.mux.HandleFunc("GET /api/booking/user/{id}/upcoming", h.GetUpcoming)
	r.mux.HandleFunc("GET /api/booking/user/{id}/history", h.GetHistory)
	r.mux.HandleFunc("PUT /api/booking/{id}/status", h.UpdateStatus)
	r.mux.HandleFunc("DELETE /api/booking/{id}", h.CancelBooking)
}

// RegisterReviewRoutes mounts /api/review
func (r *Router) RegisterReviewRoutes(h *handlers.ReviewHandler) {
	r.mux.HandleFunc("GET /api/review", h.ListReviews)
	r.mux.HandleFunc("POST /api/review", h.AddReview)
	r.mux.HandleFunc("GET /api/review/{id}", h.GetReview)
	r.mux.HandleFunc("PUT /api/review/{id}", h.UpdateReview)
	r.mux.HandleFunc("DELETE /api/review/{id}", h.DeleteReview)
	r.mux.HandleFunc("GET /api/review/business/{id}", h.GetBusinessReviews)
	r.mux.HandleFunc("GET /api/review/business/{id}/average", h.GetAverageRating)
	r.mux.HandleFunc("GET /api/review/user/{id}", h.GetUserReviews)
}

// Handler adds the health check and wraps the mux with the middleware
// chain
func (r *Router) Handler() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.Auth(r.opts.Verifier, r.opts.EnforceAuth)(handler)
	handler = middleware.ObservabilityMiddleware(r.opts.Metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestID(handler)

	// CORS wraps everything so preflights never reach auth
	handler = middleware.CORS(r.opts.AllowedOrigins)(handler)

	return handler
}
