package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/services"
)

const resumeFormField = "resume_file"

// uploads stores the resume of a multipart request for the lifetime of
// one handler call.
type uploads struct {
	storage services.StorageService
	log     logger.Logger
}

// withResume saves the uploaded resume, calls fn with its path and removes
// the file afterwards whatever fn returns.
func (u uploads) withResume(c *fiber.Ctx, fn func(filePath string) error) error {
	file, err := c.FormFile(resumeFormField)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s is required", resumeFormField))
	}

	filePath, err := u.storage.SaveFile(file)
	if err != nil {
		return err
	}
	defer func() {
		if err := u.storage.DeleteFile(filePath); err != nil {
			u.log.Warn("Failed to remove upload", map[string]interface{}{
				"path":  filePath,
				"error": err,
			})
		}
	}()

	u.log.Debug("Resume uploaded", map[string]interface{}{
		"filename": file.Filename,
		"size":     file.Size,
	})

	return fn(filePath)
}

func requiredForm(c *fiber.Ctx, key string) (string, error) {
	v := c.FormValue(key)
	if v == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s is required", key))
	}
	return v, nil
}
