package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kalambet/studyflow/internal/analyzer"
	"github.com/kalambet/studyflow/internal/history"
	"github.com/kalambet/studyflow/internal/motivation"
	"github.com/kalambet/studyflow/internal/planner"
)

type stubGenerator struct {
	phrase string
	calls  int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	s.calls++
	return s.phrase, nil
}

func newTestPlanner(gen motivation.Generator) (*Planner, *history.Store) {
	hist := history.NewStore(nil)
	return NewPlanner(hist, motivation.NewService(gen)), hist
}

func TestGeneratePlan_FullPipeline(t *testing.T) {
	gen := &stubGenerator{phrase: "Solve it today! 🚀"}
	p, _ := newTestPlanner(gen)

	plan, meta, err := p.GeneratePlan(context.Background(), PlanRequest{
		Goal:          "Solve calculus homework problems",
		SessionLength: planner.SessionMedium,
		FocusHistory:  []int{4, 4, 5},
	})
	if err != nil {
		t.Fatalf("GeneratePlan error: %v", err)
	}

	if plan.Category != analyzer.CategoryAssignment {
		t.Errorf("Category = %q, want assignment", plan.Category)
	}
	if len(plan.Tasks) != 5 {
		t.Errorf("len(Tasks) = %d, want 5", len(plan.Tasks))
	}
	if plan.Motivation != gen.phrase {
		t.Errorf("Motivation = %q, want generator phrase", plan.Motivation)
	}
	if !plan.AIEnhanced {
		t.Error("AIEnhanced = false with configured generator")
	}
	if plan.FocusInsight == "" {
		t.Error("FocusInsight is empty")
	}
	if meta.FromStoredHistory {
		t.Error("FromStoredHistory = true for a request that carried its own history")
	}
}

func TestGeneratePlan_GoalTooShort(t *testing.T) {
	p, _ := newTestPlanner(nil)
	// "学" is one character in three bytes; a single rune is rejected
	// whatever its encoded width.
	for _, goal := range []string{"", " ", "a", "  x  ", "学"} {
		_, _, err := p.GeneratePlan(context.Background(), PlanRequest{Goal: goal, SessionLength: planner.SessionShort})
		if !errors.Is(err, ErrGoalTooShort) {
			t.Errorf("GeneratePlan(%q) err = %v, want ErrGoalTooShort", goal, err)
		}
	}
}

func TestGeneratePlan_UnknownSessionLength(t *testing.T) {
	p, _ := newTestPlanner(nil)
	_, _, err := p.GeneratePlan(context.Background(), PlanRequest{Goal: "read the chapter", SessionLength: "marathon"})
	if !errors.Is(err, planner.ErrUnknownSessionLength) {
		t.Errorf("err = %v, want ErrUnknownSessionLength", err)
	}
}

func TestGeneratePlan_BorrowsStoredHistory(t *testing.T) {
	p, hist := newTestPlanner(nil)
	for i := 0; i < 8; i++ {
		hist.Record(history.Record{FocusScore: 5, TaskType: "study", Duration: 45, Timestamp: time.Now()})
	}

	plan, meta, err := p.GeneratePlan(context.Background(), PlanRequest{
		Goal:          "read the biology chapter",
		SessionLength: planner.SessionShort,
	})
	if err != nil {
		t.Fatalf("GeneratePlan error: %v", err)
	}
	if !meta.FromStoredHistory {
		t.Error("FromStoredHistory = false despite recorded sessions")
	}
	// Study base 45 with a perfect recent window stretches to 60.
	var main planner.Task
	for _, task := range plan.Tasks {
		if task.Phase == planner.PhaseMain {
			main = task
		}
	}
	if main.Duration != 60 {
		t.Errorf("main duration = %d, want 60 from stored history", main.Duration)
	}
}

func TestGeneratePlan_TrimsGoalBeforeAnalysis(t *testing.T) {
	p, _ := newTestPlanner(nil)
	plan, _, err := p.GeneratePlan(context.Background(), PlanRequest{
		Goal:          "   review physics formulas   ",
		SessionLength: planner.SessionShort,
	})
	if err != nil {
		t.Fatalf("GeneratePlan error: %v", err)
	}
	if plan.Category != analyzer.CategoryRevision {
		t.Errorf("Category = %q, want revision", plan.Category)
	}
}

func TestFallbackPlan(t *testing.T) {
	gen := &stubGenerator{phrase: "AI phrase! 🎯"}
	p, _ := newTestPlanner(gen)

	plan, err := p.FallbackPlan("write the history essay", planner.SessionMedium)
	if err != nil {
		t.Fatalf("FallbackPlan error: %v", err)
	}
	if plan.AIEnhanced {
		t.Error("AIEnhanced = true on fallback path")
	}
	if plan.Motivation == "" || plan.Motivation == gen.phrase {
		t.Errorf("Motivation = %q, want local table phrase", plan.Motivation)
	}
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, want 0 on fallback path", gen.calls)
	}
	if len(plan.Tasks) == 0 || plan.TotalTime <= 0 {
		t.Errorf("fallback plan not built: %+v", plan)
	}
}

func TestFallbackPlan_UnknownLength(t *testing.T) {
	p, _ := newTestPlanner(nil)
	if _, err := p.FallbackPlan("read", "marathon"); !errors.Is(err, planner.ErrUnknownSessionLength) {
		t.Errorf("err = %v, want ErrUnknownSessionLength", err)
	}
}

func TestMotivation_UsesStoredHistoryForLevel(t *testing.T) {
	gen := &stubGenerator{phrase: "Keep going! 💪"}
	p, hist := newTestPlanner(gen)
	for i := 0; i < 5; i++ {
		hist.Record(history.Record{FocusScore: 5, TaskType: "study", Duration: 45, Timestamp: time.Now()})
	}

	phrase, aiUsed := p.Motivation(context.Background(), analyzer.CategoryStudy, "read the chapter", nil)
	if phrase != gen.phrase || !aiUsed {
		t.Errorf("Motivation = %q/%v, want generator phrase with aiUsed", phrase, aiUsed)
	}
}
