package history

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

const (
	maxRecords  = 50
	statsWindow = 20
	recentN     = 5
)

// Record is one completed study session as reported by the learner.
type Record struct {
	CompletionRate float64   `json:"completion_rate"`
	FocusScore     int       `json:"focus_score"`
	SessionLength  string    `json:"session_length"`
	TaskType       string    `json:"task_type"`
	Duration       int       `json:"duration"`
	Timestamp      time.Time `json:"timestamp"`
}

// Stats is a snapshot of recent performance. Averages and totals cover the
// last 20 records; TotalSessions counts everything currently retained.
type Stats struct {
	TotalSessions     int     `json:"total_sessions"`
	AvgFocus          float64 `json:"avg_focus"`
	FavoriteCategory  string  `json:"favorite_category"`
	TotalStudyTime    int     `json:"total_study_time"`
	RecentPerformance []int   `json:"recent_performance"`
}

// Archiver receives a copy of every recorded session for durable storage.
// Implementations must not assume they are on the request's critical path
// beyond a quick write; archive failures are the caller's to log and ignore.
type Archiver interface {
	ArchiveSession(rec Record) error
}

// Store keeps the most recent 50 session records in memory, oldest first.
// It is the working set for timing adjustments and stats; the optional
// archive is a best-effort durable copy. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []Record
	archive Archiver // nil disables archiving
}

func NewStore(archive Archiver) *Store {
	return &Store{archive: archive}
}

// Record appends a session, dropping the oldest entry once the store holds
// more than 50. The archive copy is best effort; a failure there never
// affects the in-memory record.
func (s *Store) Record(rec Record) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	if len(s.records) > maxRecords {
		s.records = s.records[len(s.records)-maxRecords:]
	}
	s.mu.Unlock()

	if s.archive != nil {
		if err := s.archive.ArchiveSession(rec); err != nil {
			slog.Warn("session archive write failed", "error", err)
		}
	}
}

// Seed replaces the store contents with records loaded from the archive.
// Intended for startup only, before the store is shared.
func (s *Store) Seed(recs []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(recs) > maxRecords {
		recs = recs[len(recs)-maxRecords:]
	}
	s.records = append(s.records[:0], recs...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// RecentFocusScores returns up to the last n focus scores, oldest first.
func (s *Store) RecentFocusScores(n int) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.records) {
		n = len(s.records)
	}
	scores := make([]int, 0, n)
	for _, rec := range s.records[len(s.records)-n:] {
		scores = append(scores, rec.FocusScore)
	}
	return scores
}

// Stats summarizes the last 20 records. With no records it returns a fixed
// neutral snapshot: zero sessions, focus 3.0, favorite category "study".
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return Stats{
			AvgFocus:          3.0,
			FavoriteCategory:  "study",
			RecentPerformance: []int{},
		}
	}

	recent := s.records
	if len(recent) > statsWindow {
		recent = recent[len(recent)-statsWindow:]
	}

	var focusSum, totalTime int
	scores := make([]int, 0, len(recent))
	counts := make(map[string]int, len(recent))
	favorite, favoriteCount := "", 0
	for _, rec := range recent {
		focusSum += rec.FocusScore
		totalTime += rec.Duration
		scores = append(scores, rec.FocusScore)

		counts[rec.TaskType]++
		// Ties keep the earliest-seen task type.
		if counts[rec.TaskType] > favoriteCount {
			favorite, favoriteCount = rec.TaskType, counts[rec.TaskType]
		}
	}

	performance := scores
	if len(performance) > recentN {
		performance = performance[len(performance)-recentN:]
	}

	return Stats{
		TotalSessions: len(s.records),
		// Half-away-from-zero at one decimal: an exact .x5 mean rounds up.
		AvgFocus:          math.Round(float64(focusSum)/float64(len(recent))*10) / 10,
		FavoriteCategory:  favorite,
		TotalStudyTime:    totalTime,
		RecentPerformance: performance,
	}
}

// CompletionMessage selects the encouragement shown after recording a
// session, tiered by focus score and completion rate.
func CompletionMessage(focusScore int, completionRate float64) string {
	switch {
	case focusScore >= 4 && completionRate >= 0.9:
		return "Outstanding session! 🌟 Keep this momentum!"
	case focusScore >= 3 && completionRate >= 0.7:
		return "Solid progress! 💪 Building great habits!"
	case completionRate >= 0.5:
		return "Good effort! 🌱 Every session counts!"
	default:
		return "Thanks for trying! 💙 Tomorrow is a fresh start!"
	}
}
