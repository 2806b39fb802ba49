package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/models"
	"alfredoptarigan/resume-evaluator/internal/services"
)

type InterviewHandler struct {
	evaluator services.EvaluatorService
	log       logger.Logger
}

func NewInterviewHandler(evaluator services.EvaluatorService, log logger.Logger) *InterviewHandler {
	return &InterviewHandler{evaluator: evaluator, log: log}
}

// HandlePracticeQuestions handles POST /practice_question/
func (h *InterviewHandler) HandlePracticeQuestions(c *fiber.Ctx) error {
	jd, err := requiredForm(c, "job_description")
	if err != nil {
		return err
	}

	questions, err := h.evaluator.GenerateQuestions(c.UserContext(), jd)
	if err != nil {
		h.log.Warn("Question generation degraded", map[string]interface{}{
			"error":    err,
			"salvaged": len(questions),
		})
		code := StatusFor(err)
		return c.Status(code).JSON(fiber.Map{
			"error":     err.Error(),
			"code":      code,
			"questions": nonNil(questions),
		})
	}

	return c.JSON(models.QuestionsResponse{Questions: questions})
}

// HandleAnalyseAnswer handles POST /analyse_answer/
func (h *InterviewHandler) HandleAnalyseAnswer(c *fiber.Ctx) error {
	question, err := requiredForm(c, "question")
	if err != nil {
		return err
	}
	answer, err := requiredForm(c, "answer")
	if err != nil {
		return err
	}

	feedback, err := h.evaluator.GradeAnswer(c.UserContext(), question, answer)
	if err != nil {
		h.log.Warn("Answer grading degraded", map[string]interface{}{
			"error":    err,
			"salvaged": len(feedback),
		})
		code := StatusFor(err)
		return c.Status(code).JSON(fiber.Map{
			"error":    err.Error(),
			"code":     code,
			"response": nonNil(feedback),
		})
	}

	return c.JSON(models.AnswerFeedbackResponse{Response: feedback})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
