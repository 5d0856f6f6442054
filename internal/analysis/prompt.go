// Package analysis holds the AI step's handler configuration: the
// structured-extraction prompt and its token accounting.
package analysis

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// DefaultModel is the model requested for the analysis step when the
// configuration does not name one.
const DefaultModel = "gpt-4o-mini"

// SystemPrompt instructs the model to extract structured data from post
// content. The engine passes it verbatim to whichever AI provider it has
// configured for the step.
const SystemPrompt = `You are a structured data analyst. Read the supplied WordPress post content and extract its key facts as JSON: entities (people, organizations, places), topics, dates, and a one-sentence summary. Respond with a single JSON object and nothing else. Omit fields you cannot determine rather than guessing.`

// PromptTokens counts the tokens SystemPrompt consumes for the given model,
// so the step configuration can carry an accurate budget. Unknown models fall
// back to the o200k_base encoding.
func PromptTokens(model string) (int, error) {
	codec, err := tokenizer.ForModel(tokenizer.Model(model))
	if err != nil {
		codec, err = tokenizer.Get(tokenizer.O200kBase)
		if err != nil {
			return 0, fmt.Errorf("get tokenizer encoding: %w", err)
		}
	}

	ids, _, err := codec.Encode(SystemPrompt)
	if err != nil {
		return 0, fmt.Errorf("encode prompt: %w", err)
	}
	return len(ids), nil
}
