package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// maxClassifyChars bounds the document excerpt handed to the model, keeping
// prompts inside the context window of small local models.
const maxClassifyChars = 3000

const classifySystemPrompt = `You are a document classification assistant. Your task is to analyze documents and determine if they match the given criteria.

IMPORTANT: You MUST respond with valid JSON only. No additional text before or after the JSON.

Response format:
{
  "is_relevant": true/false,
  "reason": "Brief explanation of why the document is or isn't relevant"
}`

// Classify decides whether the document text matches the user criteria.
// Transport failures surface as OutcomeTransportError with a conservative
// not-relevant decision; unparseable answers degrade to OutcomeMalformed the
// same way the raw-text sniffing in ParseClassification describes.
func (c *Client) Classify(ctx context.Context, text, criteria string) (Classification, OutcomeKind, error) {
	prompt := fmt.Sprintf(`%s

Classification Criteria: %s

Document Text (excerpt):
%s

Does this document match the criteria? Respond in JSON format only.`,
		classifySystemPrompt, criteria, truncateRunes(text, maxClassifyChars))

	responseText, err := c.Generate(ctx, prompt)
	if err != nil {
		c.logger.Error("llm.classify.transport_error", "error", err)
		return Classification{
			IsRelevant: false,
			Reason:     fmt.Sprintf("API error: %v", err),
		}, OutcomeTransportError, err
	}

	cls, kind := ParseClassification(responseText)
	if kind == OutcomeParsed {
		if b, err := json.Marshal(cls); err == nil {
			if verr := ValidateJSONAgainstSchema(BuildClassificationSchema(), b); verr != nil {
				c.logger.Warn("llm.classify.schema_mismatch", "error", verr)
				kind = OutcomeMalformed
			}
		}
	} else {
		c.logger.Warn("llm.classify.malformed_answer", "chars", len(responseText))
	}

	c.logger.Debug("llm.classify.done",
		"outcome", kind.String(),
		"is_relevant", cls.IsRelevant,
	)
	return cls, kind, nil
}

// truncateRunes cuts at a rune boundary so multi-byte text is never split
// mid-character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
