package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"pharmalocator/m/domain"
	"pharmalocator/m/internal/locator"
	"pharmalocator/m/internal/observe"
)

// Options tunes the router. The zero value allows every origin and disables
// rate limiting.
type Options struct {
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	locator *locator.Service
	log     *slog.Logger
	opts    Options
	limiter *rate.Limiter
}

// New constructs a Handler.
func New(svc *locator.Service, logger *slog.Logger, opts Options) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	h := &Handler{locator: svc, log: logger, opts: opts}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return h
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(h.log.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(h.metricsMiddleware)

	r.Get("/health", h.health)
	r.Handle("/metrics", observe.Handler())

	r.Group(func(q chi.Router) {
		if h.limiter != nil {
			q.Use(h.rateLimit)
		}

		q.Route("/search", func(r chi.Router) {
			r.Get("/by-pincode", h.searchByPincode)
			r.Get("/by-district", h.searchByDistrict)
			r.Get("/by-state", h.searchByState)
			r.Get("/by-area", h.searchByArea)
			r.Get("/by-coordinates", h.searchByCoordinates)
		})

		q.Route("/suggestions", func(r chi.Router) {
			r.Get("/pincode", h.pincodeSuggestions)
			r.Get("/{field}", h.fieldSuggestions)
		})

		q.Route("/suggest", func(r chi.Router) {
			r.Get("/pincode", h.suggestPincode)
			r.Get("/district", h.suggestField(domain.FieldDistrict))
			r.Get("/state", h.suggestField(domain.FieldState))
			r.Get("/area", h.suggestField(domain.FieldAddress))
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Search handlers

func (h *Handler) searchByPincode(w http.ResponseWriter, r *http.Request) {
	pincode, ok := requireParam(w, r, "pincode")
	if !ok {
		return
	}
	result, err := h.locator.ByPincode(r.Context(), pincode)
	h.respond(w, "searching by PIN code", result, err)
}

func (h *Handler) searchByDistrict(w http.ResponseWriter, r *http.Request) {
	district, ok := requireParam(w, r, "district_name")
	if !ok {
		return
	}
	result, err := h.locator.ByDistrict(r.Context(), district)
	h.respond(w, "searching by district", result, err)
}

func (h *Handler) searchByState(w http.ResponseWriter, r *http.Request) {
	state, ok := requireParam(w, r, "state_name")
	if !ok {
		return
	}
	result, err := h.locator.ByState(r.Context(), state)
	h.respond(w, "searching by state", result, err)
}

func (h *Handler) searchByArea(w http.ResponseWriter, r *http.Request) {
	area, ok := requireParam(w, r, "area")
	if !ok {
		return
	}
	result, err := h.locator.ByArea(r.Context(), area)
	h.respond(w, "searching by area", result, err)
}

func (h *Handler) searchByCoordinates(w http.ResponseWriter, r *http.Request) {
	lat, ok := requireFloat(w, r, "latitude")
	if !ok {
		return
	}
	lon, ok := requireFloat(w, r, "longitude")
	if !ok {
		return
	}
	radius := locator.DefaultRadiusKm
	if r.URL.Query().Has("radius_km") {
		if radius, ok = requireFloat(w, r, "radius_km"); !ok {
			return
		}
	}
	result, err := h.locator.Nearby(r.Context(), lat, lon, radius)
	h.respond(w, "searching by coordinates", result, err)
}

// Suggestion handlers

func (h *Handler) pincodeSuggestions(w http.ResponseWriter, r *http.Request) {
	result, err := h.locator.SuggestPincode(r.Context(), r.URL.Query().Get("query"))
	h.respond(w, "getting PIN code suggestions", result, err)
}

func (h *Handler) fieldSuggestions(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	result, err := h.locator.SuggestField(r.Context(), field, r.URL.Query().Get("query"))
	h.respond(w, "getting "+field+" suggestions", result, err)
}

func (h *Handler) suggestPincode(w http.ResponseWriter, r *http.Request) {
	input, ok := presentParam(w, r, "input")
	if !ok {
		return
	}
	result, err := h.locator.SuggestPincode(r.Context(), input)
	h.respond(w, "getting PIN code suggestions", result, err)
}

func (h *Handler) suggestField(field domain.Field) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, ok := presentParam(w, r, "input")
		if !ok {
			return
		}
		result, err := h.locator.Suggest(r.Context(), field, input)
		h.respond(w, "getting "+string(field)+" suggestions", result, err)
	}
}

// Middleware

func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.Allow() {
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observe.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		observe.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Helpers

// respond writes payload, or maps err to a status: validation failures are
// 400, anything else is logged and returned as 500 with the error text.
func (h *Handler) respond(w http.ResponseWriter, action string, payload any, err error) {
	if err == nil {
		respondJSON(w, http.StatusOK, payload)
		return
	}

	var (
		invalidParam *locator.ValidationError
		invalidField *domain.InvalidFieldError
	)
	switch {
	case errors.As(err, &invalidParam), errors.As(err, &invalidField):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("error "+action, "err", err)
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	val := r.URL.Query().Get(name)
	if val == "" {
		respondError(w, http.StatusBadRequest, name+" is required")
		return "", false
	}
	return val, true
}

// presentParam accepts an empty value but not a missing one.
func presentParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	if !r.URL.Query().Has(name) {
		respondError(w, http.StatusBadRequest, name+" is required")
		return "", false
	}
	return r.URL.Query().Get(name), true
}

func requireFloat(w http.ResponseWriter, r *http.Request, name string) (float64, bool) {
	raw, ok := requireParam(w, r, name)
	if !ok {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, name+" must be a number")
		return 0, false
	}
	return val, true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"detail": message})
}
