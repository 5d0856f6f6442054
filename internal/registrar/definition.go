package registrar

import (
	"fmt"

	"github.com/datamachine-io/structured-analysis/internal/analysis"
	"github.com/datamachine-io/structured-analysis/internal/core/domain"
)

// PipelineName is the fixed name the pipeline is registered under. Existence
// checks compare against it exactly.
const PipelineName = "Structured Data Analysis Pipeline"

// Step labels as they appear in the engine UI.
const (
	fetchLabel  = "Fetch Post Content"
	aiLabel     = "Structured Data Analysis"
	updateLabel = "Update Post Meta"
)

// Definition assembles the static three-step pipeline definition. The model
// name feeds the AI step's handler settings along with the token count of the
// analysis prompt.
func Definition(model string) (domain.PipelineDefinition, error) {
	if model == "" {
		model = analysis.DefaultModel
	}

	promptTokens, err := analysis.PromptTokens(model)
	if err != nil {
		return domain.PipelineDefinition{}, fmt.Errorf("count prompt tokens: %w", err)
	}

	return domain.PipelineDefinition{
		Name: PipelineName,
		Steps: []domain.StepDefinition{
			{
				Type:  domain.StepFetch,
				Order: 0,
				Label: fetchLabel,
				Config: map[string]any{
					"handler": "wordpress_posts",
					"settings": map[string]any{
						"post_type":   "post",
						"post_status": "publish",
					},
				},
			},
			{
				Type:  domain.StepAI,
				Order: 1,
				Label: aiLabel,
				Config: map[string]any{
					"model":         model,
					"system_prompt": analysis.SystemPrompt,
					"prompt_tokens": promptTokens,
				},
			},
			{
				Type:  domain.StepUpdate,
				Order: 2,
				Label: updateLabel,
				Config: map[string]any{
					"handler": "wordpress_update",
					"settings": map[string]any{
						"meta_key": "structured_data",
					},
				},
			},
		},
	}, nil
}
