package services

import (
	"context"
	"fmt"
	"time"

	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/models"
)

// EvaluatorService is the entry point used by the HTTP handlers. Methods
// taking a file path structure the resume first; extraction and
// structuring errors are returned, chain output problems never are.
type EvaluatorService interface {
	StructureResume(ctx context.Context, filePath string) (string, error)
	Score(ctx context.Context, filePath, jobDescription string) (models.ScoreResult, error)
	Review(ctx context.Context, filePath, jobDescription string) (models.ReviewResult, error)
	Analyse(ctx context.Context, filePath, jobDescription string) (*models.AnalyseResponse, error)
	SuggestRoles(ctx context.Context, filePath string) (models.RoleSuggestion, error)
	GenerateQuestions(ctx context.Context, jobDescription string) ([]models.Question, error)
	GradeAnswer(ctx context.Context, question, answer string) ([]models.Feedback, error)
}

type evaluatorService struct {
	agent     StructuringAgent
	scorer    *Scorer
	reviewer  *Reviewer
	questions *QuestionGenerator
	grader    *AnswerGrader
	roles     *RoleMatcher
	cleaner   *JobDescriptionCleaner
	log       logger.Logger
}

func NewEvaluatorService(
	agent StructuringAgent,
	scorer *Scorer,
	reviewer *Reviewer,
	questions *QuestionGenerator,
	grader *AnswerGrader,
	roles *RoleMatcher,
	log logger.Logger,
) EvaluatorService {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &evaluatorService{
		agent:     agent,
		scorer:    scorer,
		reviewer:  reviewer,
		questions: questions,
		grader:    grader,
		roles:     roles,
		cleaner:   NewJobDescriptionCleaner(),
		log:       log,
	}
}

func (e *evaluatorService) StructureResume(ctx context.Context, filePath string) (string, error) {
	return e.agent.StructureFile(ctx, filePath)
}

func (e *evaluatorService) Score(ctx context.Context, filePath, jobDescription string) (models.ScoreResult, error) {
	resume, err := e.agent.StructureFile(ctx, filePath)
	if err != nil {
		return models.ScoreResult{}, err
	}
	return e.scorer.Score(ctx, resume, e.cleaner.Clean(jobDescription)), nil
}

// Review scores the resume first; the reviewer needs the score for tone.
func (e *evaluatorService) Review(ctx context.Context, filePath, jobDescription string) (models.ReviewResult, error) {
	result, err := e.Analyse(ctx, filePath, jobDescription)
	if err != nil {
		return models.ReviewResult{}, err
	}
	return models.ReviewResult{Review: result.Reasons}, nil
}

// Analyse structures the resume once and runs the scorer, then the
// reviewer with that score.
func (e *evaluatorService) Analyse(ctx context.Context, filePath, jobDescription string) (*models.AnalyseResponse, error) {
	start := time.Now()

	resume, err := e.agent.StructureFile(ctx, filePath)
	if err != nil {
		return nil, err
	}
	jd := e.cleaner.Clean(jobDescription)

	score := e.scorer.Score(ctx, resume, jd)
	review := e.reviewer.Review(ctx, resume, jd, score)

	e.log.Info("Resume analysed", map[string]interface{}{
		"total":       score.Total,
		"review_len":  len(review.Review),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return &models.AnalyseResponse{
		ScoreData: score,
		Reasons:   review.Review,
	}, nil
}

func (e *evaluatorService) SuggestRoles(ctx context.Context, filePath string) (models.RoleSuggestion, error) {
	resume, err := e.agent.StructureFile(ctx, filePath)
	if err != nil {
		return models.RoleSuggestion{}, err
	}
	return e.roles.SuggestRoles(ctx, resume), nil
}

func (e *evaluatorService) GenerateQuestions(ctx context.Context, jobDescription string) ([]models.Question, error) {
	jd := e.cleaner.Clean(jobDescription)
	if jd == "" {
		return nil, fmt.Errorf("%w: job description is empty", ErrInvalidInput)
	}
	return e.questions.Generate(ctx, jd)
}

func (e *evaluatorService) GradeAnswer(ctx context.Context, question, answer string) ([]models.Feedback, error) {
	if question == "" || answer == "" {
		return nil, fmt.Errorf("%w: question and answer are required", ErrInvalidInput)
	}
	return e.grader.Grade(ctx, question, answer)
}
