package motivation

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/kalambet/studyflow/internal/analyzer"
	"github.com/kalambet/studyflow/internal/planner"
)

const (
	cacheSize = 100
	cacheTTL  = time.Hour

	generationTimeout = 3 * time.Second
	maxOutputTokens   = 20
	temperature       = 0.8

	// Accepted phrase bounds; anything longer is discarded in favor of
	// the local table.
	maxPhraseWords = 6
	maxPhraseRunes = 30
)

// Generator is the external text-generation capability. Implemented by
// genai.Client; any failure is treated uniformly as "unavailable".
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Service memoizes short motivational phrases keyed by (category, goal
// fingerprint, focus level). Entries expire after an hour; the cache holds
// at most 100 live entries with least-recently-used eviction. On a miss it
// asks the Generator, validates the reply, and falls back to a local
// phrase table on any failure. Safe for concurrent use.
type Service struct {
	gen   Generator // nil when the capability is unconfigured
	cache *expirable.LRU[string, string]
	group singleflight.Group
	pick  func(n int) int
}

// NewService creates a Service. Pass a nil Generator to run fully local:
// every request resolves from the fallback table.
func NewService(gen Generator) *Service {
	return newService(gen, cacheTTL, rand.Intn)
}

// newService exposes the TTL and the fallback selector for tests.
func newService(gen Generator, ttl time.Duration, pick func(int) int) *Service {
	return &Service{
		gen:   gen,
		cache: expirable.NewLRU[string, string](cacheSize, nil, ttl),
		pick:  pick,
	}
}

// Enabled reports whether the external capability is configured.
func (s *Service) Enabled() bool {
	return s.gen != nil
}

// Fingerprint derives a stable cache-key component from a goal string.
func Fingerprint(goal string) string {
	h := fnv.New64a()
	h.Write([]byte(goal))
	return fmt.Sprintf("%x", h.Sum64())
}

// Get returns a motivational phrase for the goal. The second return value
// reports whether the external capability is in use (false means the
// phrase came, or would come, from the local table). A cache hit within
// the TTL never triggers an external call; concurrent misses on the same
// key are collapsed into a single call.
func (s *Service) Get(ctx context.Context, category analyzer.Category, goal string, level planner.Level) (string, bool) {
	key := fmt.Sprintf("%s_%s_%s", category, Fingerprint(goal), level)

	if phrase, ok := s.cache.Get(key); ok {
		return phrase, s.Enabled()
	}

	v, _, _ := s.group.Do(key, func() (any, error) {
		phrase := s.generate(ctx, category, level)
		s.cache.Add(key, phrase)
		return phrase, nil
	})
	return v.(string), s.Enabled()
}

// generate performs the single external call, bounded by a short timeout.
// Every failure path lands on the fallback table.
func (s *Service) generate(ctx context.Context, category analyzer.Category, level planner.Level) string {
	if s.gen == nil {
		return s.Fallback(category, level)
	}

	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	phrase, err := s.gen.Generate(ctx, promptFor(category, level), maxOutputTokens, temperature)
	if err != nil {
		slog.Warn("motivation generation failed, using fallback", "category", category, "error", err)
		return s.Fallback(category, level)
	}

	phrase = strings.TrimSpace(phrase)
	if len(strings.Fields(phrase)) > maxPhraseWords || utf8.RuneCountInString(phrase) > maxPhraseRunes {
		slog.Warn("motivation response too long, using fallback", "category", category, "len", len(phrase))
		return s.Fallback(category, level)
	}
	return phrase
}

var prompts = map[analyzer.Category]string{
	analyzer.CategoryStudy:      "Generate a 4-word motivational phrase for studying (focus level: %s). Examples: 'Deep learning time! 📚', 'Knowledge awaits you! 🎯'",
	analyzer.CategoryRevision:   "Generate a 4-word motivational phrase for review/practice (focus level: %s). Examples: 'Master those concepts! 🧠', 'Recall power activated! ⚡'",
	analyzer.CategoryAssignment: "Generate a 4-word motivational phrase for assignment work (focus level: %s). Examples: 'Create something amazing! ✨', 'Progress time begins! 🚀'",
}

func promptFor(category analyzer.Category, level planner.Level) string {
	tmpl, ok := prompts[category]
	if !ok {
		tmpl = prompts[analyzer.CategoryStudy]
	}
	return fmt.Sprintf(tmpl, level)
}

var fallbacks = map[analyzer.Category]map[planner.Level][]string{
	analyzer.CategoryStudy: {
		planner.LevelLow:    {"Start small! 🌱", "One step forward! 👣", "You can do this! 💪"},
		planner.LevelMedium: {"Focus time! 🎯", "Learning mode on! 📚", "Dive deep today! 🌊"},
		planner.LevelHigh:   {"Unleash your potential! 🚀", "Master mode activated! 🔥", "Excellence awaits! ⭐"},
	},
	analyzer.CategoryRevision: {
		planner.LevelLow:    {"Review and grow! 🌱", "Memory building time! 🧠", "Progress through practice! 📈"},
		planner.LevelMedium: {"Recall power up! ⚡", "Testing knowledge! 🎯", "Practice makes perfect! 💫"},
		planner.LevelHigh:   {"Memory mastery mode! 🧠", "Recall excellence! ⚡", "Knowledge champion! 🏆"},
	},
	analyzer.CategoryAssignment: {
		planner.LevelLow:    {"Start creating! ✏️", "Build something great! 🏗️", "Progress beats perfection! 📈"},
		planner.LevelMedium: {"Creation mode on! ✨", "Making it happen! 🚀", "Productive flow time! 💫"},
		planner.LevelHigh:   {"Excellence in making! 🏆", "Create masterpiece! 🎨", "Peak productivity! ⚡"},
	},
}

// Fallback picks a pre-written phrase from the category and focus-level
// table. Unknown categories resolve as study, unknown levels as medium.
func (s *Service) Fallback(category analyzer.Category, level planner.Level) string {
	byLevel, ok := fallbacks[category]
	if !ok {
		byLevel = fallbacks[analyzer.CategoryStudy]
	}
	bucket, ok := byLevel[level]
	if !ok {
		bucket = byLevel[planner.LevelMedium]
	}
	return bucket[s.pick(len(bucket))]
}
