package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kalambet/studyflow/internal/analyzer"
	"github.com/kalambet/studyflow/internal/history"
	"github.com/kalambet/studyflow/internal/motivation"
	"github.com/kalambet/studyflow/internal/planner"
)

// ErrGoalTooShort rejects goals shorter than two characters after trimming.
var ErrGoalTooShort = errors.New("goal must be at least 2 characters")

// focusWindow is how many recorded scores stand in for an absent
// focus history in a planning request.
const focusWindow = 5

// PlanMetadata captures diagnostic information about a planning run.
type PlanMetadata struct {
	FromStoredHistory bool
	PlanDurationMs    int64
}

// Planner orchestrates the planning pipeline: goal analysis, timing-adjusted
// plan building, and motivation lookup. All steps are local arithmetic except
// the motivation call, which degrades to a local table on any failure.
type Planner struct {
	history    *history.Store
	motivation *motivation.Service
}

// NewPlanner creates a Planner wired to the session history and the
// motivation service.
func NewPlanner(hist *history.Store, mot *motivation.Service) *Planner {
	return &Planner{history: hist, motivation: mot}
}

// PlanRequest is one planning invocation.
type PlanRequest struct {
	Goal          string
	SessionLength planner.SessionLength
	FocusHistory  []int
}

// GeneratePlan runs the full pipeline:
//  1. Validate and analyze the goal
//  2. Build the task sequence with history-adjusted timings
//  3. Attach a motivation phrase and a focus insight
//
// A request without a focus history borrows the most recent recorded
// scores. The only hard failures are a too-short goal and an unknown
// session length; everything past that point degrades instead of erroring.
func (p *Planner) GeneratePlan(ctx context.Context, req PlanRequest) (planner.Plan, PlanMetadata, error) {
	start := time.Now()
	var meta PlanMetadata

	goal := strings.TrimSpace(req.Goal)
	// Character count, not bytes: one multibyte rune is still one character.
	if utf8.RuneCountInString(goal) < 2 {
		return planner.Plan{}, meta, ErrGoalTooShort
	}

	focusHistory := req.FocusHistory
	if len(focusHistory) == 0 && p.history != nil {
		focusHistory = p.history.RecentFocusScores(focusWindow)
		meta.FromStoredHistory = len(focusHistory) > 0
	}

	analysis := analyzer.Analyze(goal)
	plan, err := planner.Build(analysis, req.SessionLength, focusHistory)
	if err != nil {
		return planner.Plan{}, meta, err
	}

	level := planner.FocusLevel(focusHistory)
	plan.Motivation, plan.AIEnhanced = p.motivation.Get(ctx, analysis.Category, goal, level)
	plan.FocusInsight = planner.Insight(focusHistory)

	meta.PlanDurationMs = time.Since(start).Milliseconds()
	return plan, meta, nil
}

// FallbackPlan builds a best-effort plan when the normal pipeline panics or
// fails unexpectedly: base timings, no history adjustments, and a phrase
// straight from the local fallback table. It never consults external
// capabilities and never fails for a known session length.
func (p *Planner) FallbackPlan(goal string, length planner.SessionLength) (planner.Plan, error) {
	analysis := analyzer.Analyze(strings.TrimSpace(goal))
	plan, err := planner.Build(analysis, length, nil)
	if err != nil {
		return planner.Plan{}, err
	}

	plan.Motivation = p.motivation.Fallback(analysis.Category, planner.LevelMedium)
	plan.AIEnhanced = false
	plan.FocusInsight = planner.Insight(nil)

	slog.Warn("served fallback plan", "category", analysis.Category, "length", length)
	return plan, nil
}

// Motivation resolves a phrase for an already-categorized goal, for callers
// that want encouragement without a full plan.
func (p *Planner) Motivation(ctx context.Context, category analyzer.Category, goal string, focusHistory []int) (string, bool) {
	if len(focusHistory) == 0 && p.history != nil {
		focusHistory = p.history.RecentFocusScores(focusWindow)
	}
	return p.motivation.Get(ctx, category, goal, planner.FocusLevel(focusHistory))
}
