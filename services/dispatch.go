package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"kildeliste/models"
)

// Formatted ist ein formatiertes Zitat. Die URL steht separat, der Aufrufer hängt sie als eigenes Element an.
type Formatted struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// HasURL meldet, ob das Zitat eine Quell-URL hat.
func (f Formatted) HasURL() bool { return f.URL != "" }

// Formatter bündelt die Laufzeitoptionen der Stilformatierung. Der Zero-Value nutzt die Wanduhr
// und das autorenlose MLA-Format.
type Formatter struct {
	Clock Clock
	// MLAIncludeAuthors aktiviert die MLA-Autorenliste (korrigiertes Verhalten)
	MLAIncludeAuthors bool
}

// NewFormatter erstellt einen Formatter; clock == nil bedeutet Wanduhr.
func NewFormatter(clock Clock, mlaIncludeAuthors bool) *Formatter {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Formatter{Clock: clock, MLAIncludeAuthors: mlaIncludeAuthors}
}

func (f *Formatter) now() Clock {
	if f == nil || f.Clock == nil {
		return SystemClock{}
	}
	return f.Clock
}

// Format rendert das Zitat im gewählten Stil und löst die URL aus dem Text.
// Unbekannte Stile liefern full_citation unverändert.
func (f *Formatter) Format(c models.Citation, style Style) Formatted {
	var text string
	switch style {
	case StyleAPA7:
		text = FormatAPA7(c)
	case StyleMLA9:
		text = FormatMLA9(c, f.now().Now(), f != nil && f.MLAIncludeAuthors)
	case StyleIEEE:
		text = FormatIEEE(c)
	case StyleUnknown:
		text = c.FullCitation
	default:
		// Werte außerhalb der Aufzählung verhalten sich wie StyleUnknown
		text = c.FullCitation
	}

	out := Formatted{Text: text}
	if c.ArticleURL != "" {
		out.URL = c.ArticleURL
		out.Text = stripURL(text, c.ArticleURL)
	}
	return out
}

// FormatCitation formatiert mit Wanduhr und autorenlosem MLA; style ist der Stilname ("APA7", "MLA9", "IEEE").
func FormatCitation(c models.Citation, style string) Formatted {
	return (&Formatter{}).Format(c, ParseStyle(style))
}

// stripURL entfernt die URL aus dem Text, und zwar jedes freistehende Vorkommen. Die dekodierte
// Anzeigeform wird nur entfernt, wenn die rohe URL nicht freistehend im Text steht. Eine längere URL,
// die mit der gesuchten beginnt, bleibt unangetastet. Ein am Ende hängendes ".", "," oder ";" wird
// entfernt, ein in der Mitte entstandenes Satzzeichenpaar zusammengezogen.
func stripURL(text, rawURL string) string {
	// reine Leerraum-URLs würden durch das eingefügte Leerzeichen nie verschwinden
	if strings.TrimSpace(rawURL) == "" {
		return text
	}
	needles := []string{rawURL}
	if indexStandalone(text, rawURL) < 0 {
		if decoded := DecodeURL(rawURL); decoded != rawURL && strings.TrimSpace(decoded) != "" {
			needles = append(needles, decoded)
		}
	}
	for {
		removed := false
		for _, needle := range needles {
			if idx := indexStandalone(text, needle); idx >= 0 {
				text = removeAt(text, idx, len(needle))
				removed = true
				break
			}
		}
		if !removed {
			return text
		}
	}
}

// indexStandalone liefert die Position des ersten Vorkommens von needle, das nicht in
// weitere URL-Zeichen übergeht, oder -1.
func indexStandalone(text, needle string) int {
	if needle == "" {
		return -1
	}
	for off := 0; off < len(text); {
		i := strings.Index(text[off:], needle)
		if i < 0 {
			return -1
		}
		i += off
		if endsStandalone(text, i+len(needle), needle) {
			return i
		}
		off = i + 1
	}
	return -1
}

// endsStandalone: nach dem Treffer folgt Textende, Leerraum oder ein Satzzeichen vor Textende/Leerraum.
func endsStandalone(text string, end int, needle string) bool {
	if last := needle[len(needle)-1]; isSeparator(last) || last == ' ' {
		return true
	}
	if end == len(text) || startsWithSpace(text[end:]) {
		return true
	}
	if isSeparator(text[end]) {
		return end+1 == len(text) || startsWithSpace(text[end+1:])
	}
	return false
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func removeAt(text string, idx, n int) string {
	before := strings.TrimRightFunc(text[:idx], unicode.IsSpace)
	after := strings.TrimLeftFunc(text[idx+n:], unicode.IsSpace)

	switch {
	case after == "" || (len(after) == 1 && isSeparator(after[0])):
		return trimTrailingSeparator(before)
	case before == "":
		if isSeparator(after[0]) {
			after = strings.TrimLeftFunc(after[1:], unicode.IsSpace)
		}
		return after
	case isSeparator(after[0]) && isSeparator(before[len(before)-1]):
		if before[len(before)-1] == '.' {
			return before + after[1:]
		}
		return before[:len(before)-1] + after
	case isSeparator(after[0]):
		return before + after
	default:
		return before + " " + after
	}
}

func isSeparator(b byte) bool {
	return b == '.' || b == ',' || b == ';'
}

func trimTrailingSeparator(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && isSeparator(s[len(s)-1]) {
		s = strings.TrimRightFunc(s[:len(s)-1], unicode.IsSpace)
	}
	return s
}
