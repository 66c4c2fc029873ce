package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/stockwise-backend/internal/domain"
	"github.com/simaogato/stockwise-backend/internal/usecase/blog"
	"github.com/simaogato/stockwise-backend/internal/usecase/calculator"
	"github.com/simaogato/stockwise-backend/internal/usecase/grade"
	"github.com/simaogato/stockwise-backend/internal/usecase/news"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
	maxBodyBytes     = 1 << 20
)

type Handler struct {
	calculator    *calculator.CalculatorService
	blog          *blog.BlogService
	news          *news.NewsService
	defaultLocale domain.Locale
}

func NewHandler(
	calculatorService *calculator.CalculatorService,
	blogService *blog.BlogService,
	newsService *news.NewsService,
	defaultLocale domain.Locale,
) *Handler {
	return &Handler{
		calculator:    calculatorService,
		blog:          blogService,
		news:          newsService,
		defaultLocale: defaultLocale,
	}
}

// NewRouter wires the API routes. Publishing posts requires a JWT signed with jwtSecret.
func NewRouter(h *Handler, jwtSecret string, logger logrus.FieldLogger) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(logger))

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/calculate", h.Calculate).Methods(http.MethodPost)
	api.HandleFunc("/defaults", h.Defaults).Methods(http.MethodGet)
	api.HandleFunc("/simulations", h.ListSimulations).Methods(http.MethodGet)
	api.HandleFunc("/simulations/{id}", h.GetSimulation).Methods(http.MethodGet)
	api.HandleFunc("/grade", h.Grade).Methods(http.MethodPost)
	api.HandleFunc("/posts", h.ListPosts).Methods(http.MethodGet)
	api.HandleFunc("/news", h.News).Methods(http.MethodGet)

	// Protected routes
	requireToken := AuthMiddleware(jwtSecret)
	api.Handle("/posts", requireToken(http.HandlerFunc(h.PublishPost))).Methods(http.MethodPost)

	return r
}

// Health reports that the process is serving
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Calculate runs a simulation for the submitted form
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var form domain.FormInput
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&form); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	calc, err := h.calculator.Calculate(r.Context(), form, h.locale(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, calc)
}

type defaultsResponse struct {
	Form        domain.FormInput        `json:"form"`
	Calculation *calculator.Calculation `json:"calculation"`
}

// Defaults returns the initial form and its calculation
func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	form := calculator.DefaultForm()
	calc, err := h.calculator.Calculate(r.Context(), form, h.locale(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, defaultsResponse{Form: form, Calculation: calc})
}

// ListSimulations returns the most recent simulations, ?limit= (default 10, max 100)
func (h *Handler) ListSimulations(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	sims, err := h.calculator.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"simulations": sims})
}

// GetSimulation returns one stored simulation, rendered
func (h *Handler) GetSimulation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid simulation id")
		return
	}

	calc, err := h.calculator.Get(r.Context(), id, h.locale(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, calc)
}

// Grade scores the submitted dividend metrics
func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	var metrics grade.Metrics
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&metrics); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := grade.Evaluate(metrics, h.locale(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListPosts always answers 200; an unavailable index shows the placeholder
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.blog.List(r.Context(), h.locale(r)))
}

// PublishPost adds a post to the index
func (h *Handler) PublishPost(w http.ResponseWriter, r *http.Request) {
	var post domain.Post
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&post); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	published, err := h.blog.Publish(r.Context(), post)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, published)
}

// News returns the latest headlines
func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.news.Latest())
}

// locale reads ?locale=, then Accept-Language, then falls back to the default
func (h *Handler) locale(r *http.Request) domain.Locale {
	if tag := r.URL.Query().Get("locale"); tag != "" {
		return domain.ParseLocale(tag, h.defaultLocale)
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		first, _, _ := strings.Cut(accept, ",")
		first, _, _ = strings.Cut(first, ";")
		return domain.ParseLocale(strings.TrimSpace(first), h.defaultLocale)
	}
	return h.defaultLocale
}
