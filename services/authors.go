package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// apaMaxListed: APA 7 nennt bis zu 20 Autoren; darüber 19 + Auslassung + letzter Autor.
const apaMaxListed = 20

// personName ist ein in Nachname und Vornamen zerlegter Autorenname.
type personName struct {
	family string
	given  []string
}

// parseName zerlegt "Vorname Mittelname Nachname" am letzten Leerzeichen.
// Schon invertierte Namen ("Nachname, Vorname") werden am Komma getrennt.
func parseName(raw string) personName {
	raw = strings.TrimSpace(raw)
	if family, given, ok := strings.Cut(raw, ","); ok {
		return personName{family: strings.TrimSpace(family), given: strings.Fields(given)}
	}
	tokens := strings.Fields(raw)
	switch len(tokens) {
	case 0:
		return personName{}
	case 1:
		return personName{family: tokens[0]}
	}
	return personName{family: tokens[len(tokens)-1], given: tokens[:len(tokens)-1]}
}

func (p personName) inverted() string {
	if len(p.given) == 0 {
		return p.family
	}
	return p.family + ", " + strings.Join(p.given, " ")
}

func (p personName) natural() string {
	if len(p.given) == 0 {
		return p.family
	}
	return strings.Join(p.given, " ") + " " + p.family
}

// apa liefert "Nachname, V. M."; Bindestrich-Vornamen werden zu "J.-P.".
func (p personName) apa() string {
	if len(p.given) == 0 {
		return p.family
	}
	initials := make([]string, 0, len(p.given))
	for _, g := range p.given {
		parts := strings.Split(g, "-")
		var hyph []string
		for _, part := range parts {
			if in := initial(part); in != "" {
				hyph = append(hyph, in)
			}
		}
		if len(hyph) > 0 {
			initials = append(initials, strings.Join(hyph, "-"))
		}
	}
	if len(initials) == 0 {
		return p.family
	}
	return p.family + ", " + strings.Join(initials, " ")
}

func initial(token string) string {
	token = strings.TrimLeftFunc(token, func(r rune) bool { return !unicode.IsLetter(r) })
	r, _ := utf8.DecodeRuneInString(token)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r)) + "."
}

func cleanNames(authors []string) []string {
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// FormatAuthorsAPA formatiert eine Autorenliste nach APA 7:
// 1 -> "Doe, J."; 2 -> "Doe, J. & Smith, J."; 3–20 -> "A, B, & C";
// mehr als 20 -> die ersten 19, dann ", . . . ", dann der letzte Autor.
func FormatAuthorsAPA(authors []string) string {
	names := cleanNames(authors)
	formatted := make([]string, len(names))
	for i, n := range names {
		formatted[i] = parseName(n).apa()
	}

	switch n := len(formatted); {
	case n == 0:
		return ""
	case n == 1:
		return formatted[0]
	case n == 2:
		return formatted[0] + " & " + formatted[1]
	case n <= apaMaxListed:
		return strings.Join(formatted[:n-1], ", ") + ", & " + formatted[n-1]
	default:
		return strings.Join(formatted[:apaMaxListed-1], ", ") + ", . . . " + formatted[n-1]
	}
}

// FormatAuthorsMLA formatiert nach MLA 9. Ohne Autoren bleibt das Ergebnis leer (der Titel steht vorne).
func FormatAuthorsMLA(authors []string) string {
	names := cleanNames(authors)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return parseName(names[0]).inverted()
	case 2:
		return parseName(names[0]).inverted() + ", and " + parseName(names[1]).natural()
	default:
		return parseName(names[0]).inverted() + ", et al."
	}
}

// FormatAuthorsIEEE verbindet Namen ohne Umstellung: "A", "A and B", "A et al.".
func FormatAuthorsIEEE(authors []string) string {
	names := cleanNames(authors)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return names[0] + " et al."
	}
}
