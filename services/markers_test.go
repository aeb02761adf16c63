package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kildeliste/models"
)

func TestParseCitationOrder(t *testing.T) {
	assert.Equal(t, []int{2, 1, 3}, ParseCitationOrder("a [2] b [1] c [2] d [3]"))
	assert.Nil(t, ParseCitationOrder("no markers [x] [0]"))
}

func TestCheckMarkers(t *testing.T) {
	citations := []models.Citation{
		{Citation: "(Doe, 2021)", FullCitation: "a"},
		{Citation: "(Roe & Poe, 2019)", FullCitation: "b"},
		{Citation: "", FullCitation: "c"},
	}

	t.Run("all present", func(t *testing.T) {
		content := "<p>Tekst (Doe, 2021) og (Roe &amp; Poe, 2019).</p>"
		assert.Empty(t, CheckMarkers(content, citations))
	})

	t.Run("missing marker", func(t *testing.T) {
		warnings := CheckMarkers("<p>Tekst (Doe, 2021).</p>", citations)
		assert.Equal(t, []string{"citation 2 ((Roe & Poe, 2019)) is not referenced in the document"}, warnings)
	})

	t.Run("numeric marker without source", func(t *testing.T) {
		content := "(Doe, 2021) (Roe & Poe, 2019) se [1] og [4]"
		assert.Equal(t, []string{"citation [4] has no matching source"}, CheckMarkers(content, citations))
	})
}
