package services

import (
	"context"

	"alfredoptarigan/resume-evaluator/internal/llm"
	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/models"
)

var rolesShape = MustShape("roles", map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"suggested_roles"},
	"properties": map[string]interface{}{
		"suggested_roles": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	},
})

type RoleMatcher struct {
	chain
}

func NewRoleMatcher(client llm.Client, temperature float32, maxTokens int32, log logger.Logger) *RoleMatcher {
	return &RoleMatcher{chain: newChain("role_matcher", client, temperature, maxTokens, log)}
}

// SuggestRoles never fails; any bad reply yields an empty list.
func (m *RoleMatcher) SuggestRoles(ctx context.Context, resume string) models.RoleSuggestion {
	var result models.RoleSuggestion

	if err := m.run(ctx, m.prompts.BuildRolesPrompt(resume), rolesShape, &result); err != nil {
		m.recordFallback(err)
		return models.RoleSuggestion{SuggestedRoles: []string{}}
	}
	if result.SuggestedRoles == nil {
		result.SuggestedRoles = []string{}
	}
	return result
}
