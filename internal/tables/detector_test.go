package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakops88-hub/Nordicsecure/internal/extract"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	t.Run("pipe separated table", func(t *testing.T) {
		t.Parallel()
		pages := []extract.Page{{
			PageNumber: 1,
			Text:       "Intro text\nItem | Qty | Price\nWidget | 2 | 10.00\nOutro",
		}}

		got := Detect(pages)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].PageNumber)
		assert.Equal(t, [][]string{
			{"Item", "Qty", "Price"},
			{"Widget", "2", "10.00"},
		}, got[0].Rows)
	})

	t.Run("tab separated table", func(t *testing.T) {
		t.Parallel()
		pages := []extract.Page{{
			PageNumber: 2,
			Text:       "a\tb\tc\nd\te\tf",
		}}

		got := Detect(pages)
		require.Len(t, got, 1)
		assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e", "f"}}, got[0].Rows)
	})

	t.Run("multi-space columns need three cells", func(t *testing.T) {
		t.Parallel()
		pages := []extract.Page{{
			PageNumber: 1,
			Text:       "Item  Qty  Price\nWidget  2  10.00",
		}}

		got := Detect(pages)
		require.Len(t, got, 1)
		assert.Equal(t, [][]string{{"Item", "Qty", "Price"}, {"Widget", "2", "10.00"}}, got[0].Rows)
	})

	t.Run("two spaced columns are not a table", func(t *testing.T) {
		t.Parallel()
		pages := []extract.Page{{
			PageNumber: 1,
			Text:       "Name  Value\nOther  Thing",
		}}
		assert.Empty(t, Detect(pages))
	})

	t.Run("single table-like line is ignored", func(t *testing.T) {
		t.Parallel()
		pages := []extract.Page{{
			PageNumber: 1,
			Text:       "plain\na | b | c\nplain again",
		}}
		assert.Empty(t, Detect(pages))
	})

	t.Run("interrupting line splits runs", func(t *testing.T) {
		t.Parallel()
		pages := []extract.Page{{
			PageNumber: 3,
			Text:       "a | b\nc | d\nplain\ne | f\ng | h",
		}}

		got := Detect(pages)
		require.Len(t, got, 2)
		assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, got[0].Rows)
		assert.Equal(t, [][]string{{"e", "f"}, {"g", "h"}}, got[1].Rows)
	})

	t.Run("empty cells dropped", func(t *testing.T) {
		t.Parallel()
		pages := []extract.Page{{
			PageNumber: 1,
			Text:       "| a | | b |\n| c | d |",
		}}

		got := Detect(pages)
		require.Len(t, got, 1)
		assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, got[0].Rows)
	})

	t.Run("tables keep their page numbers", func(t *testing.T) {
		t.Parallel()
		pages := []extract.Page{
			{PageNumber: 1, Text: "no tables here"},
			{PageNumber: 4, Text: "x | y\nz | w"},
		}

		got := Detect(pages)
		require.Len(t, got, 1)
		assert.Equal(t, 4, got[0].PageNumber)
	})
}
