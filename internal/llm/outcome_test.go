package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassification(t *testing.T) {
	t.Parallel()

	t.Run("direct json", func(t *testing.T) {
		t.Parallel()
		c, kind := ParseClassification(`{"is_relevant": true, "reason": "mentions invoices"}`)
		assert.Equal(t, OutcomeParsed, kind)
		assert.True(t, c.IsRelevant)
		assert.Equal(t, "mentions invoices", c.Reason)
	})

	t.Run("json embedded in prose", func(t *testing.T) {
		t.Parallel()
		raw := `Sure! Here is my answer: {"is_relevant": false, "reason": "unrelated"} hope that helps`
		c, kind := ParseClassification(raw)
		assert.Equal(t, OutcomeParsed, kind)
		assert.False(t, c.IsRelevant)
		assert.Equal(t, "unrelated", c.Reason)
	})

	t.Run("missing reason falls through to sniffing", func(t *testing.T) {
		t.Parallel()
		c, kind := ParseClassification(`{"is_relevant": true}`)
		assert.Equal(t, OutcomeMalformed, kind)
		assert.True(t, c.IsRelevant, "the word true appears in the raw text")
	})

	t.Run("plain text affirmative", func(t *testing.T) {
		t.Parallel()
		c, kind := ParseClassification("Yes, this document matches.")
		assert.Equal(t, OutcomeMalformed, kind)
		assert.True(t, c.IsRelevant)
		assert.Equal(t, "Could not parse detailed reasoning", c.Reason)
	})

	t.Run("plain text negative", func(t *testing.T) {
		t.Parallel()
		c, kind := ParseClassification("This document does not match at all.")
		assert.Equal(t, OutcomeMalformed, kind)
		assert.False(t, c.IsRelevant)
	})
}

func TestParseBiblio(t *testing.T) {
	t.Parallel()

	t.Run("direct json", func(t *testing.T) {
		t.Parallel()
		b, kind := ParseBiblio(`{"author": "Selma Lagerlöf", "title": "Gösta Berlings saga", "confidence": 0.95}`)
		require.Equal(t, OutcomeParsed, kind)
		assert.Equal(t, "Selma Lagerlöf", b.Author)
		assert.Equal(t, "Gösta Berlings saga", b.Title)
		assert.InDelta(t, 0.95, b.Confidence, 1e-9)
	})

	t.Run("default confidence when absent", func(t *testing.T) {
		t.Parallel()
		b, kind := ParseBiblio(`{"author": "A", "title": "B"}`)
		require.Equal(t, OutcomeParsed, kind)
		assert.InDelta(t, 0.8, b.Confidence, 1e-9)
	})

	t.Run("balanced object inside prose", func(t *testing.T) {
		t.Parallel()
		raw := `The extraction result is {"author": "Jane Doe", "title": "On {Nested} Things"} as requested.`
		b, kind := ParseBiblio(raw)
		require.Equal(t, OutcomeParsed, kind)
		assert.Equal(t, "Jane Doe", b.Author)
		assert.Equal(t, "On {Nested} Things", b.Title)
	})

	t.Run("missing title is malformed", func(t *testing.T) {
		t.Parallel()
		_, kind := ParseBiblio(`{"author": "Jane Doe"}`)
		assert.Equal(t, OutcomeMalformed, kind)
	})

	t.Run("no json at all", func(t *testing.T) {
		t.Parallel()
		_, kind := ParseBiblio("I could not find an author or title.")
		assert.Equal(t, OutcomeMalformed, kind)
	})
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	t.Parallel()

	schema := BuildClassificationSchema()

	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(`{"is_relevant": true, "reason": "ok"}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"is_relevant": "yes", "reason": "ok"}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"reason": "ok"}`)))

	biblio := BuildBiblioSchema()
	assert.NoError(t, ValidateJSONAgainstSchema(biblio, []byte(`{"author": "A", "title": "B", "confidence": 0.5}`)))
	assert.Error(t, ValidateJSONAgainstSchema(biblio, []byte(`{"author": "", "title": "B"}`)))
}
