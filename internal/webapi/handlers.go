package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spboyer/modelpick/internal/knowledge"
	"github.com/spboyer/modelpick/internal/models"
	"github.com/spboyer/modelpick/internal/notes"
	"github.com/spboyer/modelpick/internal/profile"
	"github.com/spboyer/modelpick/internal/recommend"
)

//go:generate mockgen -source=handlers.go -destination=mock_recommender_test.go -package=webapi

// Version is set at build time or defaults to dev.
var Version = "dev"

// maxBodyBytes bounds a recommend request body.
const maxBodyBytes = 64 << 10

// Recommender evaluates profiles against a knowledge base.
// *recommend.Engine satisfies it.
type Recommender interface {
	Report(p profile.Profile, opts recommend.ReportOptions) (*models.Report, error)
	Rules() []knowledge.Rule
	Rule(id string) (knowledge.Rule, bool)
}

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	rec    Recommender
	logger *slog.Logger
}

// NewHandlers creates Handlers backed by rec.
func NewHandlers(rec Recommender, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{rec: rec, logger: logger}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
		Rules:   len(h.rec.Rules()),
	})
}

// HandleRules lists the knowledge base in authoring order.
func (h *Handlers) HandleRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.SummarizeRules(h.rec.Rules()))
}

// HandleRule returns one rule by ID.
func (h *Handlers) HandleRule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "rule id is required")
		return
	}
	rule, ok := h.rec.Rule(id)
	if !ok {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	writeJSON(w, http.StatusOK, models.SummarizeRule(rule))
}

// HandleRecommend evaluates the profile in the request body. Matched rules
// and notes (with rendered HTML) are included unless the request turns them
// off.
func (h *Handlers) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var raw map[string]any
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	opts := recommend.ReportOptions{Explain: true, Notes: true, HTML: true}
	if wrapped, ok := raw["profile"].(map[string]any); ok {
		req, err := unwrapRequest(raw, wrapped)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		raw = req.Profile
		if req.Explain != nil {
			opts.Explain = *req.Explain
		}
		if req.Notes != nil {
			opts.Notes = *req.Notes
			opts.HTML = *req.Notes
		}
	}

	p, err := profile.Decode(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.rec.Report(p, opts)
	if err != nil {
		if errors.Is(err, profile.ErrInvalidProfile) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("evaluation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Debug("profile evaluated",
		"problemType", p.ProblemType,
		"recommendations", len(report.Recommendations))
	writeJSON(w, http.StatusOK, report)
}

// unwrapRequest re-reads an already decoded body as a RecommendRequest.
func unwrapRequest(raw, wrapped map[string]any) (RecommendRequest, error) {
	req := RecommendRequest{Profile: wrapped}
	for key, v := range raw {
		switch key {
		case "profile":
		case "explain", "notes":
			b, ok := v.(bool)
			if !ok {
				return req, fmt.Errorf("%s must be a boolean", key)
			}
			if key == "explain" {
				req.Explain = &b
			} else {
				req.Notes = &b
			}
		default:
			return req, fmt.Errorf("unknown request field %q", key)
		}
	}
	return req, nil
}

// HandleTips returns the general modelling tips.
func (h *Handlers) HandleTips(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, TipsResponse{Tips: notes.Tips()})
}

// HandleChecklist returns the per-family tuning checklist.
func (h *Handlers) HandleChecklist(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ChecklistResponse{Checklist: notes.Checklist()})
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, rec Recommender, logger *slog.Logger) {
	h := NewHandlers(rec, logger)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/rules", h.HandleRules)
	mux.HandleFunc("GET /api/rules/{id}", h.HandleRule)
	mux.HandleFunc("POST /api/recommend", h.HandleRecommend)
	mux.HandleFunc("GET /api/notes/tips", h.HandleTips)
	mux.HandleFunc("GET /api/notes/checklist", h.HandleChecklist)
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
// Otherwise, the request Origin is checked against the allowed list.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
