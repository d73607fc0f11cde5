package planner

import (
	"errors"
	"testing"

	"github.com/kalambet/studyflow/internal/analyzer"
)

func TestBuild_MediumCalculusScenario(t *testing.T) {
	analysis := analyzer.Analyze("Solve calculus homework problems")
	if analysis.Category != analyzer.CategoryAssignment {
		t.Fatalf("Category = %q, want assignment", analysis.Category)
	}
	if analysis.Subject != "mathematics" {
		t.Fatalf("Subject = %q, want mathematics", analysis.Subject)
	}

	plan, err := Build(analysis, SessionMedium, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(plan.Tasks) != 5 {
		t.Fatalf("len(Tasks) = %d, want 5", len(plan.Tasks))
	}
	if plan.TaskCount != 3 || plan.BreakCount != 2 {
		t.Errorf("TaskCount/BreakCount = %d/%d, want 3/2", plan.TaskCount, plan.BreakCount)
	}

	wantPhases := []Phase{PhaseWarmup, PhaseBreak, PhaseMain, PhaseBreak, PhaseDeep}
	for i, task := range plan.Tasks {
		if task.Phase != wantPhases[i] {
			t.Errorf("Tasks[%d].Phase = %q, want %q", i, task.Phase, wantPhases[i])
		}
		if task.ID != i+1 {
			t.Errorf("Tasks[%d].ID = %d, want %d", i, task.ID, i+1)
		}
	}
}

func TestBuild_TotalsAndInvariants(t *testing.T) {
	goals := []string{
		"read the biology chapter",
		"review for the advanced physics exam",
		"quick essay outline",
		"something unrelated",
	}
	lengths := []SessionLength{SessionShort, SessionMedium, SessionLong}
	histories := [][]int{nil, {2, 2, 2}, {5, 5, 5, 5, 5}}

	for _, goal := range goals {
		for _, length := range lengths {
			for _, history := range histories {
				plan, err := Build(analyzer.Analyze(goal), length, history)
				if err != nil {
					t.Fatalf("Build(%q, %s) error: %v", goal, length, err)
				}

				sum := 0
				for _, task := range plan.Tasks {
					if task.Duration <= 0 {
						t.Errorf("%q/%s: task %d has non-positive duration %d",
							goal, length, task.ID, task.Duration)
					}
					sum += task.Duration
				}
				if sum != plan.TotalTime {
					t.Errorf("%q/%s: TotalTime = %d, want %d", goal, length, plan.TotalTime, sum)
				}
				if plan.TaskCount+plan.BreakCount != len(plan.Tasks) {
					t.Errorf("%q/%s: counts %d+%d != %d tasks",
						goal, length, plan.TaskCount, plan.BreakCount, len(plan.Tasks))
				}
			}
		}
	}
}

func TestBuild_PatternShapes(t *testing.T) {
	tests := []struct {
		length    SessionLength
		workCount int
	}{
		{SessionShort, 2},
		{SessionMedium, 3},
		{SessionLong, 4},
	}
	analysis := analyzer.Analyze("read the chapter")
	for _, tt := range tests {
		plan, err := Build(analysis, tt.length, nil)
		if err != nil {
			t.Fatalf("Build(%s) error: %v", tt.length, err)
		}
		if plan.TaskCount != tt.workCount {
			t.Errorf("%s: TaskCount = %d, want %d", tt.length, plan.TaskCount, tt.workCount)
		}
		if plan.BreakCount != tt.workCount-1 {
			t.Errorf("%s: BreakCount = %d, want %d", tt.length, plan.BreakCount, tt.workCount-1)
		}
		last := plan.Tasks[len(plan.Tasks)-1]
		if last.Kind != TaskWork {
			t.Errorf("%s: plan ends with %q, want work task", tt.length, last.Kind)
		}
	}
}

func TestBuild_UnknownSessionLength(t *testing.T) {
	_, err := Build(analyzer.Analyze("read"), SessionLength("marathon"), nil)
	if !errors.Is(err, ErrUnknownSessionLength) {
		t.Fatalf("err = %v, want ErrUnknownSessionLength", err)
	}
}

func TestBuild_LongerBreakBeforeFinalPhase(t *testing.T) {
	// Medium pattern, study category: base break 10. The break before the
	// deep phase gets +5.
	plan, err := Build(analyzer.Analyze("read the chapter"), SessionMedium, nil)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	var breaks []Task
	for _, task := range plan.Tasks {
		if task.Kind == TaskBreak {
			breaks = append(breaks, task)
		}
	}
	if len(breaks) != 2 {
		t.Fatalf("break count = %d, want 2", len(breaks))
	}
	if breaks[0].Duration != 10 {
		t.Errorf("first break = %d min, want 10", breaks[0].Duration)
	}
	if breaks[1].Duration != 15 {
		t.Errorf("pre-deep break = %d min, want 15", breaks[1].Duration)
	}
	if breaks[0].BreakType != "short" || breaks[1].BreakType != "long" {
		t.Errorf("break types = %q/%q, want short/long", breaks[0].BreakType, breaks[1].BreakType)
	}
}

func TestBuild_ShortPatternNoExtraBreak(t *testing.T) {
	// Two-phase patterns never get the +5 pre-final bump.
	plan, err := Build(analyzer.Analyze("read the chapter"), SessionShort, nil)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	for _, task := range plan.Tasks {
		if task.Kind == TaskBreak && task.Duration != 10 {
			t.Errorf("short-pattern break = %d min, want base 10", task.Duration)
		}
	}
}

func TestBuild_DifficultyModifiers(t *testing.T) {
	challenging := analyzer.Analysis{
		Category:   analyzer.CategoryStudy,
		Subject:    analyzer.SubjectGeneral,
		Difficulty: analyzer.DifficultyChallenging,
	}
	plan, err := Build(challenging, SessionShort, nil)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	// warmup 15+10, main 45+10.
	if plan.Tasks[0].Duration != 25 {
		t.Errorf("challenging warmup = %d, want 25", plan.Tasks[0].Duration)
	}
	if plan.Tasks[2].Duration != 55 {
		t.Errorf("challenging main = %d, want 55", plan.Tasks[2].Duration)
	}

	manageable := challenging
	manageable.Difficulty = analyzer.DifficultyManageable
	plan, err = Build(manageable, SessionShort, nil)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	// warmup 15-5, main 45-5.
	if plan.Tasks[0].Duration != 10 {
		t.Errorf("manageable warmup = %d, want 10", plan.Tasks[0].Duration)
	}
	if plan.Tasks[2].Duration != 40 {
		t.Errorf("manageable main = %d, want 40", plan.Tasks[2].Duration)
	}
}

func TestBuild_DeepPhaseCappedWhenChallenging(t *testing.T) {
	// Assignment base 50 → deep 65; challenging adds 10 but caps at 60.
	analysis := analyzer.Analysis{
		Category:   analyzer.CategoryAssignment,
		Subject:    analyzer.SubjectGeneral,
		Difficulty: analyzer.DifficultyChallenging,
	}
	plan, err := Build(analysis, SessionMedium, nil)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	deep := plan.Tasks[len(plan.Tasks)-1]
	if deep.Phase != PhaseDeep {
		t.Fatalf("last task phase = %q, want deep", deep.Phase)
	}
	if deep.Duration != 60 {
		t.Errorf("deep duration = %d, want capped 60", deep.Duration)
	}
}

func TestBuild_TaskNames(t *testing.T) {
	withSubject := analyzer.Analyze("solve calculus homework problems")
	plan, _ := Build(withSubject, SessionShort, nil)
	if got := plan.Tasks[0].Name; got != "Plan and organize mathematics assignment" {
		t.Errorf("warmup name = %q", got)
	}

	general := analyzer.Analyze("finish homework")
	plan, _ = Build(general, SessionShort, nil)
	if got := plan.Tasks[0].Name; got != "Plan structure and gather resources" {
		t.Errorf("general warmup name = %q", got)
	}
}

func TestBreakActivity_DeterministicRotation(t *testing.T) {
	// Generic long list (4) + study long list (2) = 6 entries.
	first := breakActivity("long", 0, analyzer.CategoryStudy)
	wrapped := breakActivity("long", 6, analyzer.CategoryStudy)
	if first != wrapped {
		t.Errorf("rotation broken: index 0 = %q, index 6 = %q", first, wrapped)
	}
	if first != "Take a refreshing walk outside" {
		t.Errorf("index 0 = %q", first)
	}
	if got := breakActivity("long", 4, analyzer.CategoryStudy); got != "Discuss concepts with someone" {
		t.Errorf("index 4 = %q, want first study-specific entry", got)
	}
}
