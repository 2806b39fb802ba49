package services

import (
	"fmt"
	"sort"
	"strings"

	"alfredoptarigan/resume-evaluator/internal/models"
)

// PositiveToneThreshold is the total at or above which reviews are framed
// positively.
const PositiveToneThreshold = 70

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildScorePrompt creates prompt for ATS scoring
func (pb *PromptBuilder) BuildScorePrompt(resume, jobDescription string) string {
	return fmt.Sprintf(`Act as an HR Manager with 20 years of experience.
You are given resume data that has already been parsed.
Compare the resume data with the job description below and check for key skills in the resume that relate to the job description.
Rate the resume out of 100 based on the matching skill set, and break the rating down into these categories, each out of 100:
- Content: quality and relevance of the experience and achievements
- Structure: organisation, clarity and formatting
- ATS: keyword coverage an applicant tracking system would match
- Tailoring: how specifically the resume targets this job

Assess the score with high accuracy.

Resume:
%s

Job Description:
%s

Return ONLY valid JSON in this format, with whole numbers:
{
  "total": <number>,
  "breakdown": {
    "Content": <number>,
    "Structure": <number>,
    "ATS": <number>,
    "Tailoring": <number>
  }
}`, resume, jobDescription)
}

// BuildReviewPrompt creates prompt for the drawback review. The score is
// given as context for tone only.
func (pb *PromptBuilder) BuildReviewPrompt(resume, jobDescription string, score models.ScoreResult) string {
	tone := "The resume needs work. Frame the review around concrete improvements the candidate should make."
	if score.Total >= PositiveToneThreshold {
		tone = "The resume is a strong match. Frame the review positively and present drawbacks as refinements."
	}

	return fmt.Sprintf(`You are an expert ATS reviewer and HR analyst.
Analyze the given resume against the provided job description and find any drawbacks, missing skills, experience gaps, or mismatches.

Score context (for tone only):
%s
%s

Never mention, quote or restate any score or number from the score context in your review.

Resume:
%s

Job Description:
%s

Return the response ONLY in valid JSON suitable for API usage, with no commentary outside the JSON:
{
  "review": ["<short point>", "<short point>", ...]
}`, formatScore(score), tone, resume, jobDescription)
}

// BuildQuestionsPrompt creates prompt for interview practice questions
func (pb *PromptBuilder) BuildQuestionsPrompt(jobDescription string) string {
	return fmt.Sprintf(`You are an HR interviewer. Based on the job description below, generate exactly 3 HR interview questions.

IMPORTANT: Return the output strictly in the following JSON format:

[
  { "q": "Question 1 here" },
  { "q": "Question 2 here" },
  { "q": "Question 3 here" }
]

Do NOT add any explanations or text outside the JSON.

Job Description:
%s`, jobDescription)
}

// BuildGradeAnswerPrompt creates prompt for answer feedback
func (pb *PromptBuilder) BuildGradeAnswerPrompt(question, answer string) string {
	return fmt.Sprintf(`You are an HR answer evaluator. Analyse the candidate's answer for correctness, relevance, clarity, and completeness.

Your task:
- Evaluate the given answer.
- Provide 3 short pieces of feedback, in this order:
    1. What was good.
    2. What is missing.
    3. What to improve.
- Output ONLY in the array format below.

STRICT OUTPUT FORMAT (no extra text):

[
  { "a": "Feedback point 1" },
  { "a": "Feedback point 2" },
  { "a": "Feedback point 3" }
]

Question:
%s

Candidate Answer:
%s`, question, answer)
}

// BuildRolesPrompt creates prompt for role suggestions
func (pb *PromptBuilder) BuildRolesPrompt(resume string) string {
	return fmt.Sprintf(`Act as a professional Career Role Analyzer.
Analyze the resume and suggest the roles the candidate is most suitable for.

Return ONLY JSON in the format:
{
  "suggested_roles": ["role1", "role2", "role3", ...]
}

Resume:
%s`, resume)
}

func formatScore(score models.ScoreResult) string {
	keys := make([]string, 0, len(score.Breakdown))
	for k := range score.Breakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	parts = append(parts, fmt.Sprintf("- Total: %d/100", score.Total))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("- %s: %d/100", k, score.Breakdown[k]))
	}
	return strings.Join(parts, "\n")
}
