package models

type AnalyseResponse struct {
	ScoreData ScoreResult `json:"scoreData"`
	Reasons   []string    `json:"reasons"`
}

type ScoreResponse struct {
	ATSScore ScoreResult `json:"ats_score"`
}

type StructureResponse struct {
	StructuredResume string `json:"structured_resume"`
}

type QuestionsResponse struct {
	Questions []Question `json:"questions"`
}

type AnswerFeedbackResponse struct {
	Response []Feedback `json:"response"`
}

type RolesResponse struct {
	SuggestedRoles []string `json:"suggested_roles"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}
