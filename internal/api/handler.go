package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/studyflow/internal/analyzer"
	"github.com/kalambet/studyflow/internal/history"
	"github.com/kalambet/studyflow/internal/pipeline"
	"github.com/kalambet/studyflow/internal/planner"
)

const maxRequestBodySize = 1 << 20 // 1MB

var errPlanPanicked = errors.New("plan generation panicked")

// Planner is the planning pipeline the handlers drive. Satisfied by
// *pipeline.Planner.
type Planner interface {
	GeneratePlan(ctx context.Context, req pipeline.PlanRequest) (planner.Plan, pipeline.PlanMetadata, error)
	FallbackPlan(goal string, length planner.SessionLength) (planner.Plan, error)
	Motivation(ctx context.Context, category analyzer.Category, goal string, focusHistory []int) (string, bool)
}

// NewHandler returns the study planner's REST API.
func NewHandler(p Planner, hist *history.Store) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Post("/generate_plan", handleGeneratePlan(p))
	r.Post("/generate_motivation", handleGenerateMotivation(p))
	r.Post("/session_complete", handleSessionComplete(hist))
	r.Get("/user_stats", handleUserStats(hist))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type generatePlanRequest struct {
	Prompt        string `json:"prompt"`
	SessionLength string `json:"sessionLength"`
	FocusHistory  []int  `json:"focusHistory"`
}

// planResponse is the plan payload plus the degraded-path marker.
type planResponse struct {
	planner.Plan
	FallbackUsed bool `json:"fallback_used,omitempty"`
}

func handleGeneratePlan(p Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req generatePlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.SessionLength == "" {
			req.SessionLength = string(planner.SessionMedium)
		}
		length := planner.SessionLength(req.SessionLength)

		plan, meta, err := generateGuarded(p, r, req, length)
		switch {
		case errors.Is(err, pipeline.ErrGoalTooShort):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "Please enter your study goal")
			return
		case errors.Is(err, planner.ErrUnknownSessionLength):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown session length %q", req.SessionLength)
			return
		case errors.Is(err, errPlanPanicked):
			// Best-effort degraded plan; only an unknown length can stop it,
			// and that was already ruled out above.
			fb, ferr := p.FallbackPlan(req.Prompt, length)
			if ferr != nil {
				httpError(w, http.StatusInternalServerError, "server_error", "Unable to generate plan. Please try again.")
				return
			}
			writeJSON(w, planResponse{Plan: fb, FallbackUsed: true})
			return
		case err != nil:
			httpError(w, http.StatusInternalServerError, "server_error", "Unable to generate plan. Please try again.")
			return
		}

		slog.Info("plan generated",
			"category", plan.Category,
			"total_time", plan.TotalTime,
			"stored_history", meta.FromStoredHistory,
			"duration_ms", meta.PlanDurationMs,
		)
		writeJSON(w, planResponse{Plan: plan})
	}
}

// generateGuarded converts a pipeline panic into an error so the handler can
// serve the degraded plan instead of a blank 500.
func generateGuarded(p Planner, r *http.Request, req generatePlanRequest, length planner.SessionLength) (plan planner.Plan, meta pipeline.PlanMetadata, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("plan generation panicked", "panic", rec)
			err = errPlanPanicked
		}
	}()
	return p.GeneratePlan(r.Context(), pipeline.PlanRequest{
		Goal:          req.Prompt,
		SessionLength: length,
		FocusHistory:  req.FocusHistory,
	})
}

type generateMotivationRequest struct {
	Category     string `json:"category"`
	Goal         string `json:"goal"`
	FocusHistory []int  `json:"focusHistory"`
}

func handleGenerateMotivation(p Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req generateMotivationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		phrase, aiUsed := p.Motivation(r.Context(), analyzer.ParseCategory(req.Category), req.Goal, req.FocusHistory)
		writeJSON(w, map[string]any{
			"success":    true,
			"motivation": phrase,
			"ai_used":    aiUsed,
		})
	}
}

type sessionCompleteRequest struct {
	CompletionRate float64 `json:"completion_rate"`
	FocusScore     int     `json:"focus_score"`
	SessionLength  string  `json:"session_length"`
	TaskType       string  `json:"task_type"`
	Duration       int     `json:"duration"`
}

func handleSessionComplete(hist *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		// Absent fields keep these defaults.
		req := sessionCompleteRequest{
			CompletionRate: 0.8,
			FocusScore:     3,
			SessionLength:  "medium",
			TaskType:       "study",
			Duration:       25,
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		hist.Record(history.Record{
			CompletionRate: req.CompletionRate,
			FocusScore:     req.FocusScore,
			SessionLength:  req.SessionLength,
			TaskType:       req.TaskType,
			Duration:       req.Duration,
			Timestamp:      time.Now(),
		})

		writeJSON(w, map[string]any{
			"success": true,
			"message": history.CompletionMessage(req.FocusScore, req.CompletionRate),
		})
	}
}

func handleUserStats(hist *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"success": true,
			"stats":   hist.Stats(),
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
