package models

// Score categories reported in ScoreResult.Breakdown.
const (
	CategoryContent   = "Content"
	CategoryStructure = "Structure"
	CategoryATS       = "ATS"
	CategoryTailoring = "Tailoring"
)

var ScoreCategories = []string{CategoryContent, CategoryStructure, CategoryATS, CategoryTailoring}

// ScoreResult is the ATS score of a resume against a job description.
// Values are passed through from the model without clamping.
type ScoreResult struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// UniformScore returns a result with every field set to v.
func UniformScore(v int) ScoreResult {
	breakdown := make(map[string]int, len(ScoreCategories))
	for _, c := range ScoreCategories {
		breakdown[c] = v
	}
	return ScoreResult{Total: v, Breakdown: breakdown}
}

type ReviewResult struct {
	Review []string `json:"review"`
}

type Question struct {
	Q string `json:"q"`
}

// Feedback is one point of answer feedback. A graded answer has three, in
// the order: what was good, what is missing, what to improve.
type Feedback struct {
	A string `json:"a"`
}

type RoleSuggestion struct {
	SuggestedRoles []string `json:"suggested_roles"`
}
