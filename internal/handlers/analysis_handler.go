package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/models"
	"alfredoptarigan/resume-evaluator/internal/services"
)

type AnalysisHandler struct {
	evaluator services.EvaluatorService
	uploads   uploads
	log       logger.Logger
}

func NewAnalysisHandler(evaluator services.EvaluatorService, storage services.StorageService, log logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		evaluator: evaluator,
		uploads:   uploads{storage: storage, log: log},
		log:       log,
	}
}

// HandleAnalyse handles POST /analyse_resume/
func (h *AnalysisHandler) HandleAnalyse(c *fiber.Ctx) error {
	jd, err := requiredForm(c, "job_description")
	if err != nil {
		return err
	}

	return h.uploads.withResume(c, func(filePath string) error {
		result, err := h.evaluator.Analyse(c.UserContext(), filePath, jd)
		if err != nil {
			h.log.Error("Resume analysis failed", map[string]interface{}{"error": err})
			return respondError(c, err)
		}
		return c.JSON(result)
	})
}

// HandleScore handles POST /score_resume/
func (h *AnalysisHandler) HandleScore(c *fiber.Ctx) error {
	jd, err := requiredForm(c, "job_description")
	if err != nil {
		return err
	}

	return h.uploads.withResume(c, func(filePath string) error {
		score, err := h.evaluator.Score(c.UserContext(), filePath, jd)
		if err != nil {
			h.log.Error("Resume scoring failed", map[string]interface{}{"error": err})
			return respondError(c, err)
		}
		return c.JSON(models.ScoreResponse{ATSScore: score})
	})
}

// HandleStructure handles POST /structure_resume/
func (h *AnalysisHandler) HandleStructure(c *fiber.Ctx) error {
	return h.uploads.withResume(c, func(filePath string) error {
		resume, err := h.evaluator.StructureResume(c.UserContext(), filePath)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(models.StructureResponse{StructuredResume: resume})
	})
}

// HandleSuggestRoles handles POST /suggest_roles/
func (h *AnalysisHandler) HandleSuggestRoles(c *fiber.Ctx) error {
	return h.uploads.withResume(c, func(filePath string) error {
		roles, err := h.evaluator.SuggestRoles(c.UserContext(), filePath)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(models.RolesResponse{SuggestedRoles: roles.SuggestedRoles})
	})
}
