package services

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"kildeliste/models"
)

// UnknownYear ist der Platzhalter "uten år" für Zitate ohne erkennbares Jahr.
const UnknownYear = "u.å."

// Field ist das Ergebnis einer einzelnen Extraktion. Found=false bedeutet, dass das Muster
// im Text nicht vorkam; Sentinels wie UnknownYear werden erst beim Rendern eingesetzt.
type Field struct {
	Value string
	Found bool
}

func foundField(v string) Field {
	v = strings.TrimSpace(v)
	return Field{Value: v, Found: v != ""}
}

// Or liefert den Wert oder den Fallback, wenn nichts gefunden wurde.
func (f Field) Or(fallback string) string {
	if f.Found {
		return f.Value
	}
	return fallback
}

// ExtractedFields bündelt alle Felder eines Zitats nach Anwendung der Vorrangregeln.
// Wird pro Formatierungsaufruf neu berechnet und nie gecacht.
type ExtractedFields struct {
	Authors []string
	Year    Field
	Title   Field
	Source  Field
	Volume  Field
	Issue   Field
	Pages   Field
	Month   Field
}

const monthNames = `januar|februar|mars|april|mai|juni|juli|august|september|oktober|november|desember`

var (
	yearGroupRE = regexp.MustCompile(`\((\d{4})(?:[^\d)][^)]*)?\)`)
	volumeRE    = regexp.MustCompile(`(?i)(?:^|[\s,(])vol\.\s*(\d+[A-Za-z]?)`)
	issueRE     = regexp.MustCompile(`(?i)(?:^|[\s,(])(?:no|nr)\.\s*(\d+[A-Za-z]?)`)
	pagesRE     = regexp.MustCompile(`(?i)(?:^|[\s,(])pp?\.\s*(\d+(?:\s*[-–]\s*\d+)?)`)
	monthRE     = regexp.MustCompile(`(?i)\b(` + monthNames + `)\b`)
	// außerhalb der Datumsgruppe zählt ein Monat nur als "14. oktober" oder "oktober 2024"
	dayMonthRE  = regexp.MustCompile(`(?i)\b\d{1,2}\.\s*(` + monthNames + `)\b`)
	monthYearRE = regexp.MustCompile(`(?i)\b(` + monthNames + `)\s+\d{4}\b`)
	spaceRunRE  = regexp.MustCompile(`[ \t]{2,}`)

	invertedNameRE = regexp.MustCompile(`^[^,]+, \p{Lu}\.(?:[ -]?\p{Lu}\.)*$`)
)

// Ligaturen und Vollbreiten-Interpunktion aus kopierten Quellen. æ/ø/å bleiben unangetastet.
var citationReplacer = strings.NewReplacer(
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬀ", "ff",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"（", "(",
	"）", ")",
	"＆", "&",
	"\u00a0", " ",
	"\u2009", " ",
	"\u202f", " ",
	"\r\n", " ",
	"\n", " ",
)

// normalizeCitationText führt NFC-Normalisierung durch und vereinheitlicht Leerraum,
// damit die Extraktionsmuster auf kopierten Texten greifen.
func normalizeCitationText(s string) string {
	s = citationReplacer.Replace(s)
	normalized, _, err := transform.String(norm.NFC, s)
	if err != nil {
		normalized = s
	}
	normalized = spaceRunRE.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// ExtractAuthors teilt den Text vor der ersten "(" an "&". Ohne "&" entsteht eine einelementige Liste.
// Schon im APA-Format stehende Listen ("Doe, J., Roe, R., & Smith, J.") werden zusätzlich an "., " getrennt.
// Beginnt der Text mit "(", ist der Präfix leer und das Ergebnis nil, auch wenn danach noch Text folgt.
func ExtractAuthors(fullCitation string) []string {
	prefix := normalizeCitationText(fullCitation)
	if idx := strings.Index(prefix, "("); idx >= 0 {
		prefix = prefix[:idx]
	}
	var authors []string
	for _, part := range strings.Split(prefix, "&") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if names, ok := splitInvertedNames(part); ok {
			authors = append(authors, names...)
			continue
		}
		authors = append(authors, part)
	}
	return authors
}

// splitInvertedNames zerlegt "Doe, J., Roe, R. P.," in einzelne Namen. ok ist nur gesetzt,
// wenn jedes Stück die Form "Nachname, I." hat.
func splitInvertedNames(part string) ([]string, bool) {
	part = strings.TrimRight(part, ", ")
	pieces := strings.Split(part, "., ")
	if len(pieces) < 2 {
		return nil, false
	}
	names := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if !strings.HasSuffix(p, ".") {
			p += "."
		}
		if !invertedNameRE.MatchString(p) {
			return nil, false
		}
		names = append(names, p)
	}
	return names, true
}

// ExtractYear liefert die vier Ziffern der ersten geklammerten Jahresangabe, z.B. "(2020)" oder "(2023, 4. mars)".
func ExtractYear(text string) Field {
	m := yearGroupRE.FindStringSubmatch(normalizeCitationText(text))
	if m == nil {
		return Field{}
	}
	return foundField(m[1])
}

// ExtractTitle liefert den Text zwischen dem ersten ")." und dem folgenden "." in Satzschreibweise.
func ExtractTitle(fullCitation string) Field {
	title, _, ok := titleSpan(normalizeCitationText(fullCitation))
	if !ok {
		return Field{}
	}
	return foundField(sentenceCase(title))
}

// titleSpan gibt den rohen Titel und den Rest nach dem abschließenden Punkt zurück.
func titleSpan(s string) (title, rest string, ok bool) {
	start := strings.Index(s, ").")
	if start < 0 {
		return "", "", false
	}
	after := s[start+2:]
	end := strings.Index(after, ".")
	if end < 0 {
		return "", "", false
	}
	title = strings.TrimSpace(after[:end])
	if title == "" || looksLikeLink(title) {
		return "", "", false
	}
	return title, after[end+1:], true
}

// ExtractSource sucht den Quellen-/Zeitschriftennamen direkt nach dem Titel.
func ExtractSource(fullCitation string) Field {
	_, rest, ok := titleSpan(normalizeCitationText(fullCitation))
	if !ok {
		return Field{}
	}
	rest = strings.TrimSpace(rest)
	// "I Store norske leksikon" / "In Journal" -> Name ohne Präposition
	for _, prep := range []string{"I ", "In "} {
		if strings.HasPrefix(rest, prep) {
			rest = strings.TrimSpace(rest[len(prep):])
			break
		}
	}
	if looksLikeLink(rest) || isReferencePart(rest) {
		return Field{}
	}
	if end := strings.IndexAny(rest, ",."); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" || isDigits(rest) {
		return Field{}
	}
	return foundField(rest)
}

// ExtractVolumeAndIssue sucht "vol. N" und "no. M" (auch "nr. M") unabhängig voneinander.
func ExtractVolumeAndIssue(fullCitation string) (volume, issue Field) {
	s := normalizeCitationText(fullCitation)
	if m := volumeRE.FindStringSubmatch(s); m != nil {
		volume = foundField(m[1])
	}
	if m := issueRE.FindStringSubmatch(s); m != nil {
		issue = foundField(m[1])
	}
	return volume, issue
}

// ExtractPages sucht "pp. N-M" bzw. "p. N" und entfernt Leerzeichen um den Bindestrich.
func ExtractPages(fullCitation string) Field {
	m := pagesRE.FindStringSubmatch(normalizeCitationText(fullCitation))
	if m == nil {
		return Field{}
	}
	return foundField(strings.Join(strings.Fields(m[1]), ""))
}

// ExtractMonth sucht einen norwegischen Monatsnamen, zuerst in der geklammerten Datumsangabe,
// danach im übrigen Text, dort aber nur neben Tag oder Jahr. Namen wie "Mai, K." oder
// "Livet på Mars" ergeben keinen Monat. Der Wert ist immer kleingeschrieben.
func ExtractMonth(text string) Field {
	s := normalizeCitationText(text)
	if loc := yearGroupRE.FindStringIndex(s); loc != nil {
		if m := monthRE.FindStringSubmatch(s[loc[0]:loc[1]]); m != nil {
			return foundField(strings.ToLower(m[1]))
		}
	}
	for _, re := range []*regexp.Regexp{dayMonthRE, monthYearRE} {
		if m := re.FindStringSubmatch(s); m != nil {
			return foundField(strings.ToLower(m[1]))
		}
	}
	return Field{}
}

// DecodeURL dekodiert Prozent-Escapes für die Anzeige. Bei fehlerhaften Escapes oder
// ungültigem UTF-8 wird die Eingabe unverändert zurückgegeben.
func DecodeURL(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil || !utf8.ValidString(decoded) {
		return raw
	}
	return decoded
}

// ResolveFields wendet die Vorrangregel an: explizite Felder gewinnen immer gegen extrahierte.
func ResolveFields(c models.Citation) ExtractedFields {
	var f ExtractedFields

	if strings.TrimSpace(c.Authors) != "" {
		f.Authors = splitAuthorList(c.Authors)
	} else {
		f.Authors = ExtractAuthors(c.FullCitation)
	}

	f.Year = ExtractYear(c.LastUpdated)
	if !f.Year.Found {
		f.Year = ExtractYear(c.FullCitation)
	}

	if strings.TrimSpace(c.Title) != "" {
		f.Title = Field{Value: c.Title, Found: true}
	} else {
		f.Title = ExtractTitle(c.FullCitation)
	}

	f.Source = ExtractSource(c.FullCitation)
	f.Volume, f.Issue = ExtractVolumeAndIssue(c.FullCitation)
	f.Pages = ExtractPages(c.FullCitation)

	f.Month = ExtractMonth(c.LastUpdated)
	if !f.Month.Found {
		f.Month = ExtractMonth(c.FullCitation)
	}
	return f
}

func splitAuthorList(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func sentenceCase(s string) string {
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func looksLikeLink(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http") || strings.HasPrefix(l, "www.") || strings.HasPrefix(l, "doi:")
}

func isReferencePart(s string) bool {
	l := strings.ToLower(s)
	for _, p := range []string{"vol.", "no.", "nr.", "pp.", "p.", "lest", "hentet", "retrieved"} {
		if strings.HasPrefix(l, p) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
