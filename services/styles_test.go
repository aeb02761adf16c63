package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kildeliste/models"
)

var testNow = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

func snlCitation() models.Citation {
	return models.Citation{
		Authors:      "Kari Nordmann",
		FullCitation: "Nordmann, K. (2023). Fjell i Norge. Natur.",
		ArticleURL:   "https://snl.no/fjell",
	}
}

func TestParseStyle(t *testing.T) {
	assert.Equal(t, StyleAPA7, ParseStyle("APA7"))
	assert.Equal(t, StyleMLA9, ParseStyle("MLA9"))
	assert.Equal(t, StyleIEEE, ParseStyle("IEEE"))
	for _, name := range []string{"apa7", "APA", "Chicago", "", " IEEE"} {
		assert.Equal(t, StyleUnknown, ParseStyle(name), name)
	}
	assert.Equal(t, "MLA9", StyleMLA9.String())
	assert.Equal(t, "unknown", Style(42).String())
}

func TestFormatAPA7(t *testing.T) {
	other := snlCitation()
	other.ArticleURL = "https://example.org/fjell"

	encoded := snlCitation()
	encoded.ArticleURL = "https://snl.no/%C3%86rfugl"

	tests := []struct {
		name     string
		citation models.Citation
		want     string
	}{
		{"snl source", snlCitation(), "Nordmann, K. (2023). Fjell i norge. I Store norske leksikon. https://snl.no/fjell"},
		{"other host", other, "Nordmann, K. (2023). Fjell i norge. https://example.org/fjell"},
		{"decoded url", encoded, "Nordmann, K. (2023). Fjell i norge. I Store norske leksikon. https://snl.no/Ærfugl"},
		{
			"no year no title",
			models.Citation{Authors: "Helsedirektoratet", FullCitation: "Helsedirektoratet. Nasjonal retningslinje."},
			"Helsedirektoratet (u.å.).",
		},
		{
			"no authors",
			models.Citation{FullCitation: "(2020). Anonymt verk. Forlag."},
			"(2020). Anonymt verk",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAPA7(tt.citation))
		})
	}
}

func TestFormatAPA7TitleQuestionMark(t *testing.T) {
	c := models.Citation{Authors: "Ola Nordmann", Title: "Hvorfor faller snøen?", FullCitation: "x", ArticleURL: "https://example.org"}
	assert.Equal(t, "Nordmann, O. (u.å.). Hvorfor faller snøen? https://example.org", FormatAPA7(c))
}

func TestFormatMLA9(t *testing.T) {
	t.Run("legacy without authors", func(t *testing.T) {
		got := FormatMLA9(snlCitation(), testNow, false)
		assert.Equal(t, `"Fjell i norge." Store norske leksikon, 2023, https://snl.no/fjell. Lest 16. okt. 2026.`, got)
	})

	t.Run("with authors", func(t *testing.T) {
		got := FormatMLA9(snlCitation(), testNow, true)
		assert.Equal(t, `Nordmann, Kari. "Fjell i norge." Store norske leksikon, 2023, https://snl.no/fjell. Lest 16. okt. 2026.`, got)
	})

	t.Run("et al. keeps a single period", func(t *testing.T) {
		c := snlCitation()
		c.Authors = "Kari Nordmann, Ola Hansen, Per Berg"
		got := FormatMLA9(c, testNow, true)
		assert.True(t, strings.HasPrefix(got, `Nordmann, Kari, et al. "Fjell i norge."`), got)
	})

	t.Run("non snl without year", func(t *testing.T) {
		c := models.Citation{Title: "Elver", FullCitation: "Elver", ArticleURL: "https://example.org/elver"}
		got := FormatMLA9(c, time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC), false)
		assert.Equal(t, `"Elver." https://example.org/elver. Lest 4. mars 2026.`, got)
	})

	t.Run("nothing but the access date", func(t *testing.T) {
		got := FormatMLA9(models.Citation{FullCitation: "Bare tekst"}, testNow, false)
		assert.Equal(t, "Lest 16. okt. 2026.", got)
	})
}

func TestFormatMLA9AccessDateFollowsClock(t *testing.T) {
	c := snlCitation()
	first := NewFormatter(FixedClock(testNow), false).Format(c, StyleMLA9)
	next := NewFormatter(FixedClock(testNow.AddDate(0, 0, 1)), false).Format(c, StyleMLA9)

	assert.NotEqual(t, first.Text, next.Text)
	assert.True(t, strings.HasSuffix(first.Text, "Lest 16. okt. 2026."), first.Text)
	assert.True(t, strings.HasSuffix(next.Text, "Lest 17. okt. 2026."), next.Text)
}

func TestFormatIEEE(t *testing.T) {
	base := models.Citation{
		Authors:      "Jane Doe, John Smith",
		FullCitation: "Doe, J. (2020, 3. oktober). Deep rivers. Hydrology, vol. 4, no. 2, pp. 5-9.",
	}
	const body = `Jane Doe and John Smith, "Deep rivers", Hydrology, vol. 4, no. 2, pp. 5-9, okt. 2020`

	t.Run("doi", func(t *testing.T) {
		c := base
		c.ArticleURL = "https://doi.org/10.1/x"
		got := FormatIEEE(c)
		assert.Equal(t, body+", doi: 10.1/x.", got)
		assert.True(t, strings.HasSuffix(got, "doi: 10.1/x."))
	})

	t.Run("online", func(t *testing.T) {
		c := base
		c.ArticleURL = "https://example.org/a"
		assert.Equal(t, body+". [Online]. Available: https://example.org/a.", FormatIEEE(c))
	})

	t.Run("no url", func(t *testing.T) {
		assert.Equal(t, body+".", FormatIEEE(base))
	})

	t.Run("surname is not read as month", func(t *testing.T) {
		c := models.Citation{FullCitation: "Mai, K. (2020). Tittel. Natur."}
		assert.Equal(t, `Mai, K., "Tittel", Natur, 2020.`, FormatIEEE(c))
	})

	t.Run("unknown year is not double terminated", func(t *testing.T) {
		c := models.Citation{Authors: "Anonym", FullCitation: "Anonym tekst"}
		assert.Equal(t, "Anonym, u.å.", FormatIEEE(c))
	})
}

func TestSNLClause(t *testing.T) {
	withSNL := snlCitation()
	without := snlCitation()
	without.ArticleURL = "https://nrk.no/fjell"

	assert.Contains(t, FormatAPA7(withSNL), "I Store norske leksikon")
	assert.NotContains(t, FormatAPA7(without), "Store norske leksikon")
	assert.Contains(t, FormatMLA9(withSNL, testNow, false), "Store norske leksikon,")
	assert.NotContains(t, FormatMLA9(without, testNow, false), "Store norske leksikon")
}
