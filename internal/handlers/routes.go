package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Routes struct {
	Analysis  *AnalysisHandler
	Interview *InterviewHandler
}

// RegisterRoutes mounts the resume and interview endpoints plus health
// and index routes.
func RegisterRoutes(app *fiber.App, r Routes) {
	app.Post("/analyse_resume/", r.Analysis.HandleAnalyse)
	app.Post("/score_resume/", r.Analysis.HandleScore)
	app.Post("/structure_resume/", r.Analysis.HandleStructure)
	app.Post("/suggest_roles/", r.Analysis.HandleSuggestRoles)
	app.Post("/practice_question/", r.Interview.HandlePracticeQuestions)
	app.Post("/analyse_answer/", r.Interview.HandleAnalyseAnswer)

	api := app.Group("/api/v1")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Evaluator API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /analyse_resume/",
				"POST /score_resume/",
				"POST /structure_resume/",
				"POST /suggest_roles/",
				"POST /practice_question/",
				"POST /analyse_answer/",
				"GET /api/v1/health",
				"GET /metrics",
			},
		})
	})
}
