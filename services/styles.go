package services

import (
	"fmt"
	"strings"
	"time"

	"kildeliste/models"
)

// Style ist die geschlossene Menge der unterstützten Zitierstile.
type Style int

const (
	StyleUnknown Style = iota
	StyleAPA7
	StyleMLA9
	StyleIEEE
)

// ParseStyle akzeptiert genau "APA7", "MLA9" und "IEEE"; alles andere ist StyleUnknown.
func ParseStyle(name string) Style {
	switch name {
	case "APA7":
		return StyleAPA7
	case "MLA9":
		return StyleMLA9
	case "IEEE":
		return StyleIEEE
	default:
		return StyleUnknown
	}
}

func (s Style) String() string {
	switch s {
	case StyleAPA7:
		return "APA7"
	case StyleMLA9:
		return "MLA9"
	case StyleIEEE:
		return "IEEE"
	default:
		return "unknown"
	}
}

// Clock liefert die aktuelle Zeit für das MLA-Abrufdatum ("Lest").
type Clock interface {
	Now() time.Time
}

// SystemClock ist die Wanduhr.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock liefert immer denselben Zeitpunkt.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// snlHostFragment: Artikel aus Store norske leksikon werden in APA mit "I Store norske leksikon"
// und in MLA mit dem Werknamen gekennzeichnet. Andere Nachschlagewerke kennt die Formatierung nicht.
const snlHostFragment = "snl.no"

const doiURLPrefix = "https://doi.org/"

// Norwegische Monatsabkürzungen; kurze Monatsnamen werden nicht abgekürzt.
var norwegianMonthAbbrev = map[string]string{
	"januar":    "jan.",
	"februar":   "feb.",
	"mars":      "mars",
	"april":     "apr.",
	"mai":       "mai",
	"juni":      "juni",
	"juli":      "juli",
	"august":    "aug.",
	"september": "sep.",
	"oktober":   "okt.",
	"november":  "nov.",
	"desember":  "des.",
}

var norwegianMonths = [...]string{
	"januar", "februar", "mars", "april", "mai", "juni",
	"juli", "august", "september", "oktober", "november", "desember",
}

func monthAbbrev(month string) string {
	if abbr, ok := norwegianMonthAbbrev[strings.ToLower(month)]; ok {
		return abbr
	}
	return month
}

func isSNL(articleURL string) bool {
	return strings.Contains(articleURL, snlHostFragment)
}

// joinSentences verbindet Satzteile mit ". ", ohne nach "?", "!" oder "." einen weiteren Punkt zu setzen.
func joinSentences(parts []string) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			prev := parts[i-1]
			if strings.HasSuffix(prev, ".") || strings.HasSuffix(prev, "?") || strings.HasSuffix(prev, "!") {
				b.WriteString(" ")
			} else {
				b.WriteString(". ")
			}
		}
		b.WriteString(p)
	}
	return b.String()
}

// FormatAPA7 rendert "{Autoren} ({Jahr}). {Titel}[. I Store norske leksikon][. {URL}]".
func FormatAPA7(c models.Citation) string {
	f := ResolveFields(c)

	var b strings.Builder
	if authors := FormatAuthorsAPA(f.Authors); authors != "" {
		b.WriteString(authors)
		b.WriteString(" ")
	}
	b.WriteString("(" + f.Year.Or(UnknownYear) + ").")

	var rest []string
	if f.Title.Found {
		rest = append(rest, f.Title.Value)
	}
	if isSNL(c.ArticleURL) {
		rest = append(rest, "I Store norske leksikon")
	}
	if c.ArticleURL != "" {
		rest = append(rest, DecodeURL(c.ArticleURL))
	}
	if len(rest) > 0 {
		b.WriteString(" ")
		b.WriteString(joinSentences(rest))
	}
	return b.String()
}

// FormatMLA9 rendert '"{Titel}." [Store norske leksikon,] [{Jahr},] {URL}. Lest {Tag}. {Monat} {Jahr}.'
// Das Abrufdatum ist immer "now". Mit includeAuthors wird die MLA-Autorenliste vorangestellt;
// ohne bleibt das bisherige autorenlose Format erhalten.
func FormatMLA9(c models.Citation, now time.Time, includeAuthors bool) string {
	f := ResolveFields(c)

	var b strings.Builder
	if includeAuthors {
		if authors := FormatAuthorsMLA(f.Authors); authors != "" {
			b.WriteString(authors)
			if !strings.HasSuffix(authors, ".") {
				b.WriteString(".")
			}
			b.WriteString(" ")
		}
	}
	if f.Title.Found {
		title := f.Title.Value
		if strings.HasSuffix(title, "?") || strings.HasSuffix(title, "!") {
			b.WriteString(`"` + title + `" `)
		} else {
			b.WriteString(`"` + strings.TrimSuffix(title, ".") + `." `)
		}
	}

	var clauses []string
	if isSNL(c.ArticleURL) {
		clauses = append(clauses, "Store norske leksikon")
	}
	if f.Year.Found {
		clauses = append(clauses, f.Year.Value)
	}
	if c.ArticleURL != "" {
		clauses = append(clauses, DecodeURL(c.ArticleURL))
	}
	if len(clauses) > 0 {
		b.WriteString(strings.Join(clauses, ", "))
		b.WriteString(". ")
	}

	fmt.Fprintf(&b, "Lest %d. %s %d.", now.Day(), monthAbbrev(norwegianMonths[now.Month()-1]), now.Year())
	return b.String()
}

// FormatIEEE rendert '{Autoren}, "{Titel}", [{Quelle}, ][vol. V, ][no. I, ][pp. P, ]{Monat} {Jahr}' gefolgt von
// ", doi: X." für doi.org-Links, ". [Online]. Available: {URL}." für sonstige Links oder ".".
func FormatIEEE(c models.Citation) string {
	f := ResolveFields(c)

	var parts []string
	if authors := FormatAuthorsIEEE(f.Authors); authors != "" {
		parts = append(parts, authors)
	}
	if f.Title.Found {
		parts = append(parts, `"`+f.Title.Value+`"`)
	}
	if f.Source.Found {
		parts = append(parts, f.Source.Value)
	}
	if f.Volume.Found {
		parts = append(parts, "vol. "+f.Volume.Value)
	}
	if f.Issue.Found {
		parts = append(parts, "no. "+f.Issue.Value)
	}
	if f.Pages.Found {
		parts = append(parts, "pp. "+f.Pages.Value)
	}
	date := f.Year.Or(UnknownYear)
	if f.Month.Found {
		date = monthAbbrev(f.Month.Value) + " " + date
	}
	parts = append(parts, date)

	text := strings.Join(parts, ", ")
	switch {
	case strings.HasPrefix(c.ArticleURL, doiURLPrefix):
		return text + ", doi: " + DecodeURL(strings.TrimPrefix(c.ArticleURL, doiURLPrefix)) + "."
	case c.ArticleURL != "":
		return terminate(text) + " [Online]. Available: " + DecodeURL(c.ArticleURL) + "."
	default:
		return terminate(text)
	}
}

// terminate setzt den Schlusspunkt, außer der Text endet bereits mit einem (z.B. "u.å.").
func terminate(text string) string {
	if strings.HasSuffix(text, ".") {
		return text
	}
	return text + "."
}
