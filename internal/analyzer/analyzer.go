package analyzer

import "strings"

// Category is the coarse type of work a goal describes.
type Category string

const (
	CategoryStudy      Category = "study"
	CategoryRevision   Category = "revision"
	CategoryAssignment Category = "assignment"
)

// Categories lists every category in definition order. Scoring ties are
// broken by this order: the first-defined category wins.
var Categories = []Category{CategoryStudy, CategoryRevision, CategoryAssignment}

// Config holds the static tuning for one category: how it is displayed,
// its base timing in minutes, and the keywords that select it.
type Config struct {
	Icon      string
	Name      string
	FocusTime int
	BreakTime int
	Keywords  []string
}

var categoryConfigs = map[Category]Config{
	CategoryStudy: {
		Icon:      "📖",
		Name:      "Study Session",
		FocusTime: 45,
		BreakTime: 10,
		Keywords:  []string{"read", "chapter", "textbook", "book", "learn", "understand", "study", "material"},
	},
	CategoryRevision: {
		Icon:      "🔄",
		Name:      "Review & Practice",
		FocusTime: 30,
		BreakTime: 5,
		Keywords:  []string{"review", "revise", "recall", "test", "exam", "quiz", "practice", "remember", "memorize"},
	},
	CategoryAssignment: {
		Icon:      "📋",
		Name:      "Assignment Work",
		FocusTime: 50,
		BreakTime: 15,
		Keywords:  []string{"write", "essay", "project", "assignment", "homework", "solve", "complete", "create", "build"},
	},
}

// ConfigFor returns the static config for a category. Unknown values fall
// back to the study config.
func ConfigFor(c Category) Config {
	if cfg, ok := categoryConfigs[c]; ok {
		return cfg
	}
	return categoryConfigs[CategoryStudy]
}

// ParseCategory maps a string onto a known Category, defaulting to study.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryConfigs[c]; ok {
		return c
	}
	return CategoryStudy
}

// Difficulty estimates how demanding a goal is.
type Difficulty string

const (
	DifficultyChallenging Difficulty = "challenging"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyManageable  Difficulty = "manageable"
)

// Analysis is the derived classification of a single goal string.
// It is recomputed per planning request and never persisted.
type Analysis struct {
	Category   Category   `json:"category"`
	Subject    string     `json:"subject"`
	Confidence int        `json:"confidence"`
	Difficulty Difficulty `json:"difficulty"`
	GoalLength int        `json:"goal_length"`
}

// SubjectGeneral is the subject tag used when no subject keywords match.
const SubjectGeneral = "general"

// subjectKeywords is checked in slice order; the first subject with any
// keyword present in the goal wins.
var subjectKeywords = []struct {
	Subject  string
	Keywords []string
}{
	{"mathematics", []string{"math", "calculus", "algebra", "statistics", "geometry", "trigonometry", "equations"}},
	{"science", []string{"physics", "chemistry", "biology", "lab", "experiment", "scientific", "molecules"}},
	{"language", []string{"english", "literature", "writing", "essay", "grammar", "reading", "composition"}},
	{"history", []string{"history", "historical", "timeline", "events", "civilization", "war", "ancient"}},
	{"programming", []string{"code", "programming", "python", "javascript", "algorithm", "software", "development"}},
	{"business", []string{"business", "economics", "finance", "marketing", "management", "accounting"}},
	{"art", []string{"art", "design", "drawing", "painting", "creative", "visual", "aesthetic"}},
}

var hardIndicators = []string{"advanced", "complex", "difficult", "comprehensive", "detailed", "analyze", "synthesize"}
var easyIndicators = []string{"basic", "simple", "introduction", "overview", "quick", "summary", "skim"}

// Analyze classifies a free-text goal by keyword scoring. It is a pure
// function: lower-cases the input, scores every category, and derives the
// subject and difficulty from fixed indicator lists. A goal matching no
// category keywords defaults to study with confidence 0.
func Analyze(goal string) Analysis {
	lower := strings.ToLower(goal)
	tokens := strings.Fields(lower)

	best := CategoryStudy
	bestScore := 0
	for _, c := range Categories {
		score := scoreCategory(categoryConfigs[c].Keywords, lower, tokens)
		if score > bestScore {
			best = c
			bestScore = score
		}
	}

	return Analysis{
		Category:   best,
		Subject:    detectSubject(lower),
		Confidence: bestScore,
		Difficulty: estimateDifficulty(lower),
		GoalLength: len(strings.Fields(goal)),
	}
}

// scoreCategory counts keyword substrings present in the goal, with a +2
// bonus when any keyword equals a whitespace-split token. The bonus can
// only ever fire for single-word keywords; a multi-word keyword never
// equals a single token. That asymmetry is intentional and kept.
func scoreCategory(keywords []string, lower string, tokens []string) int {
	score := 0
	exact := false
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			score++
		}
		if !exact {
			for _, tok := range tokens {
				if tok == kw {
					exact = true
					break
				}
			}
		}
	}
	if exact {
		score += 2
	}
	return score
}

func detectSubject(lower string) string {
	for _, s := range subjectKeywords {
		for _, kw := range s.Keywords {
			if strings.Contains(lower, kw) {
				return s.Subject
			}
		}
	}
	return SubjectGeneral
}

func estimateDifficulty(lower string) Difficulty {
	hard := countPresent(hardIndicators, lower)
	easy := countPresent(easyIndicators, lower)
	switch {
	case hard > easy:
		return DifficultyChallenging
	case easy > hard:
		return DifficultyManageable
	default:
		return DifficultyModerate
	}
}

func countPresent(words []string, lower string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}
