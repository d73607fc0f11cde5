package planner

import (
	"fmt"

	"github.com/kalambet/studyflow/internal/analyzer"
)

// SessionLength selects which phase pattern a plan expands into.
type SessionLength string

const (
	SessionShort  SessionLength = "short"
	SessionMedium SessionLength = "medium"
	SessionLong   SessionLength = "long"
)

// Phase is a position within a session pattern.
type Phase string

const (
	PhaseWarmup Phase = "warmup"
	PhaseMain   Phase = "main"
	PhaseDeep   Phase = "deep"
	PhaseBreak  Phase = "break"
)

var sessionPatterns = map[SessionLength][]Phase{
	SessionShort:  {PhaseWarmup, PhaseMain},
	SessionMedium: {PhaseWarmup, PhaseMain, PhaseDeep},
	SessionLong:   {PhaseWarmup, PhaseMain, PhaseMain, PhaseDeep},
}

// ErrUnknownSessionLength reports a session length outside the fixed
// short/medium/long set. This is a caller contract violation, not a
// degradable condition.
var ErrUnknownSessionLength = fmt.Errorf("unknown session length")

// TaskKind distinguishes work blocks from breaks.
type TaskKind string

const (
	TaskWork  TaskKind = "work"
	TaskBreak TaskKind = "break"
)

const (
	warmupDuration = 15
	breakIcon      = "☕"
)

// Task is one element of a plan. Immutable once the plan is returned.
type Task struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Duration  int               `json:"duration"`
	Kind      TaskKind          `json:"type"`
	Phase     Phase             `json:"phase"`
	Category  analyzer.Category `json:"category,omitempty"`
	BreakType string            `json:"break_type,omitempty"`
	Icon      string            `json:"icon"`
}

// Plan is the ordered work/break sequence built for one request. It is
// returned to the caller and never stored server-side.
type Plan struct {
	Tasks        []Task            `json:"plan"`
	Analysis     analyzer.Analysis `json:"analysis"`
	Category     analyzer.Category `json:"category"`
	TotalTime    int               `json:"total_time"`
	TaskCount    int               `json:"task_count"`
	BreakCount   int               `json:"break_count"`
	AIEnhanced   bool              `json:"ai_enhanced"`
	Motivation   string            `json:"motivation,omitempty"`
	FocusInsight string            `json:"focus_adjustments,omitempty"`
}

// Build expands the session pattern for the given length into an ordered
// task sequence. Work durations come from the adjusted timing plus a
// difficulty modifier; a break follows every phase except the last, with
// 5 extra minutes before the final phase of patterns longer than two.
func Build(analysis analyzer.Analysis, length SessionLength, focusHistory []int) (Plan, error) {
	pattern, ok := sessionPatterns[length]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownSessionLength, length)
	}

	cfg := analyzer.ConfigFor(analysis.Category)
	timing := AdjustTimings(cfg, focusHistory)

	var tasks []Task
	taskID := 1
	for i, phase := range pattern {
		tasks = append(tasks, Task{
			ID:       taskID,
			Name:     taskName(phase, analysis),
			Duration: phaseDuration(phase, timing.Focus, analysis.Difficulty),
			Kind:     TaskWork,
			Phase:    phase,
			Category: analysis.Category,
			Icon:     cfg.Icon,
		})
		taskID++

		if i == len(pattern)-1 {
			continue
		}

		breakDuration := timing.Break
		if i == len(pattern)-2 && len(pattern) > 2 {
			// Longer recovery before the final, hardest phase.
			breakDuration += 5
		}
		breakType := "short"
		if breakDuration >= 15 {
			breakType = "long"
		}
		tasks = append(tasks, Task{
			ID:        taskID,
			Name:      breakActivity(breakType, i, analysis.Category),
			Duration:  breakDuration,
			Kind:      TaskBreak,
			Phase:     PhaseBreak,
			BreakType: breakType,
			Icon:      breakIcon,
		})
		taskID++
	}

	p := Plan{
		Tasks:    tasks,
		Analysis: analysis,
		Category: analysis.Category,
	}
	for _, t := range tasks {
		p.TotalTime += t.Duration
		if t.Kind == TaskWork {
			p.TaskCount++
		} else {
			p.BreakCount++
		}
	}
	return p, nil
}

// phaseDuration maps a phase onto minutes: warmup is fixed, main uses the
// adjusted focus time, deep adds 15. Challenging goals add 10 (capped at
// 60); manageable goals subtract 5 (floored at 15).
func phaseDuration(phase Phase, focusTime int, difficulty analyzer.Difficulty) int {
	base := focusTime
	switch phase {
	case PhaseWarmup:
		base = warmupDuration
	case PhaseDeep:
		base = focusTime + 15
	}

	switch difficulty {
	case analyzer.DifficultyChallenging:
		return min(60, base+10)
	case analyzer.DifficultyManageable:
		return max(15, base-5)
	default:
		return base
	}
}

// subjectTaskNames holds the display-name templates keyed by category and
// phase; %s is the subject tag.
var subjectTaskNames = map[analyzer.Category]map[Phase]string{
	analyzer.CategoryStudy: {
		PhaseWarmup: "Preview and organize %s materials",
		PhaseMain:   "Read and study %s content actively",
		PhaseDeep:   "Analyze and master %s concepts",
	},
	analyzer.CategoryRevision: {
		PhaseWarmup: "Quick %s review and setup",
		PhaseMain:   "Practice and test %s recall",
		PhaseDeep:   "Deep %s understanding check",
	},
	analyzer.CategoryAssignment: {
		PhaseWarmup: "Plan and organize %s assignment",
		PhaseMain:   "Work on %s assignment content",
		PhaseDeep:   "Refine and finalize %s work",
	},
}

// generalTaskNames are the subject-agnostic fallbacks used when the
// analysis found no specific subject.
var generalTaskNames = map[analyzer.Category]map[Phase]string{
	analyzer.CategoryStudy: {
		PhaseWarmup: "Preview and organize materials",
		PhaseMain:   "Read and take detailed notes",
		PhaseDeep:   "Analyze and summarize concepts",
	},
	analyzer.CategoryRevision: {
		PhaseWarmup: "Quick review of previous work",
		PhaseMain:   "Active recall and practice",
		PhaseDeep:   "Test understanding thoroughly",
	},
	analyzer.CategoryAssignment: {
		PhaseWarmup: "Plan structure and gather resources",
		PhaseMain:   "Work on main content",
		PhaseDeep:   "Review and polish work",
	},
}

func taskName(phase Phase, analysis analyzer.Analysis) string {
	if analysis.Subject == analyzer.SubjectGeneral {
		if tmpl, ok := generalTaskNames[analysis.Category][phase]; ok {
			return tmpl
		}
		return "Focus work session"
	}
	if tmpl, ok := subjectTaskNames[analysis.Category][phase]; ok {
		return fmt.Sprintf(tmpl, analysis.Subject)
	}
	return fmt.Sprintf("Work on %s %s task", analysis.Subject, phase)
}

var genericBreaks = map[string][]string{
	"short": {
		"Stretch and hydrate briefly",
		"Walk around and rest eyes",
		"Light breathing exercise",
	},
	"long": {
		"Take a refreshing walk outside",
		"Healthy snack and hydration",
		"Gentle stretching routine",
		"Brief mindfulness moment",
	},
}

var categoryBreaks = map[analyzer.Category]map[string][]string{
	analyzer.CategoryStudy: {
		"short": {"Review notes quickly", "Organize study materials"},
		"long":  {"Discuss concepts with someone", "Write quick summary"},
	},
	analyzer.CategoryRevision: {
		"short": {"Quick concept recall test", "Review flashcards"},
		"long":  {"Explain concept out loud", "Create memory aids"},
	},
}

// breakActivity picks a break name from the generic list concatenated with
// the category-specific one, indexed by breakIndex modulo length. The
// selection is deterministic and repeats in a fixed rotation.
func breakActivity(breakType string, breakIndex int, category analyzer.Category) string {
	activities := append([]string{}, genericBreaks[breakType]...)
	activities = append(activities, categoryBreaks[category][breakType]...)
	return activities[breakIndex%len(activities)]
}
