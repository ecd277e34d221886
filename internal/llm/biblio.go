package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const maxBiblioChars = 4000

const biblioSystemPrompt = `You are a bibliographic data extraction assistant. Your task is to analyze the beginning of a document (book, paper, or report) and extract the Author name and Title.

IMPORTANT INSTRUCTIONS:
1. Look at the CONTENT of the document, NOT the filename
2. Extract the author's name (can be single author or multiple authors)
3. Extract the full title of the document
4. Handle multilingual content (English, Punjabi, Swedish, etc.)
5. If multiple authors, format as 'FirstAuthor et al' or list all
6. Preserve original language/script of author and title

You MUST respond with valid JSON only. No additional text.

Response format:
{
  "author": "Author Name(s)",
  "title": "Document Title",
  "confidence": 0.9
}`

// ExtractAuthorTitle asks the model for the author and title of a document
// opening. Placeholder authors ("unknown", "n/a", "none") count as a failed
// extraction so callers keep the original filename.
func (c *Client) ExtractAuthorTitle(ctx context.Context, text string) (BiblioFields, OutcomeKind, error) {
	prompt := fmt.Sprintf(`%s

Analyze this document excerpt and extract the Author and Title:

Document Text (first pages):
%s

Extract the author and title in JSON format only.`,
		biblioSystemPrompt, truncateRunes(text, maxBiblioChars))

	responseText, err := c.Generate(ctx, prompt)
	if err != nil {
		c.logger.Error("llm.biblio.transport_error", "error", err)
		return BiblioFields{}, OutcomeTransportError, err
	}

	fields, kind := ParseBiblio(responseText)
	if kind != OutcomeParsed {
		c.logger.Warn("llm.biblio.malformed_answer", "chars", len(responseText))
		return BiblioFields{}, kind, nil
	}
	if fields.Author == "" || fields.Title == "" || isPlaceholderAuthor(fields.Author) {
		c.logger.Warn("llm.biblio.rejected", "author", fields.Author, "title", fields.Title)
		return BiblioFields{}, OutcomeMalformed, nil
	}
	if b, err := json.Marshal(fields); err == nil {
		// Catches answers the lenient parser accepts but the contract does
		// not, like a confidence outside [0, 1].
		if verr := ValidateJSONAgainstSchema(BuildBiblioSchema(), b); verr != nil {
			c.logger.Warn("llm.biblio.schema_mismatch", "error", verr)
			return BiblioFields{}, OutcomeMalformed, nil
		}
	}
	return fields, OutcomeParsed, nil
}

func isPlaceholderAuthor(author string) bool {
	switch strings.ToLower(author) {
	case "unknown", "n/a", "none":
		return true
	}
	return false
}
