package planner

import (
	"fmt"

	"github.com/kalambet/studyflow/internal/analyzer"
)

// Hard clamps on adjusted timings, in minutes. Never violated regardless
// of base timing or history.
const (
	minFocusTime = 20
	maxFocusTime = 60
	maxBreakTime = 20
)

// historyWindow is how many recent focus scores feed the adjustment.
const historyWindow = 5

// Timing is the per-session focus/break allocation in minutes.
type Timing struct {
	Focus int
	Break int
}

// AdjustTimings maps a category's base timing plus recent focus history
// onto session-specific durations. Fewer than 3 recorded scores leave the
// base timing untouched. A low recent mean (<3.0) shortens work blocks and
// lengthens recovery; a high mean (>4.0) extends work blocks.
func AdjustTimings(cfg analyzer.Config, focusHistory []int) Timing {
	t := Timing{Focus: cfg.FocusTime, Break: cfg.BreakTime}
	if len(focusHistory) < 3 {
		return t
	}

	switch mean := meanOfLast(focusHistory, historyWindow); {
	case mean < 3.0:
		t.Focus = max(minFocusTime, cfg.FocusTime-15)
		t.Break = min(maxBreakTime, cfg.BreakTime+5)
	case mean > 4.0:
		t.Focus = min(maxFocusTime, cfg.FocusTime+15)
		t.Break = max(5, cfg.BreakTime)
	}
	return t
}

// Level buckets recent focus performance for motivation prompts.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// FocusLevel buckets the recent focus mean. Fewer than 3 scores is treated
// as medium: not enough signal to deviate.
func FocusLevel(focusHistory []int) Level {
	if len(focusHistory) < 3 {
		return LevelMedium
	}
	switch mean := meanOfLast(focusHistory, historyWindow); {
	case mean < 3.0:
		return LevelLow
	case mean > 4.0:
		return LevelHigh
	default:
		return LevelMedium
	}
}

// Insight renders a one-line human-readable summary of how the focus
// history shaped the plan.
func Insight(focusHistory []int) string {
	if len(focusHistory) < 3 {
		return "Building your focus profile..."
	}

	recent := lastN(focusHistory, historyWindow)
	mean := meanOf(recent)

	switch {
	case mean < 3.0:
		return "Optimized for focus building - shorter, manageable sessions"
	case mean > 4.0:
		return "Extended sessions - you're in great focus form!"
	case countAtLeast(recent, 4) >= 3:
		return "Consistent high focus - pushing your boundaries!"
	default:
		return fmt.Sprintf("Balanced approach for your %.1f/5 focus level", mean)
	}
}

func lastN(scores []int, n int) []int {
	if len(scores) > n {
		return scores[len(scores)-n:]
	}
	return scores
}

func meanOfLast(scores []int, n int) float64 {
	return meanOf(lastN(scores, n))
}

func meanOf(scores []int) float64 {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}

func countAtLeast(scores []int, threshold int) int {
	n := 0
	for _, s := range scores {
		if s >= threshold {
			n++
		}
	}
	return n
}
