package services

import (
	"html"
	"strings"

	"kildeliste/models"
)

// DefaultBibliographyHeading ist die Überschrift der Kildeliste im Export.
const DefaultBibliographyHeading = "Kildeliste"

// Document gibt lesenden Zugriff auf den Rich-Text-Inhalt des exportierten Dokuments.
type Document interface {
	HTML() string
}

// HTMLDocument ist ein Document aus einem einfachen HTML-String.
type HTMLDocument string

func (d HTMLDocument) HTML() string { return string(d) }

// Bibliography ist das Ergebnis eines Export-Durchlaufs
type Bibliography struct {
	Content  string      `json:"content"`
	Entries  []Formatted `json:"entries"`
	Warnings []string    `json:"warnings"`
	Rendered bool        `json:"rendered"`
}

// BibliographyAssembler rendert die Kildeliste und hängt sie an das Dokument an
type BibliographyAssembler struct {
	Formatter *Formatter
	Heading   string
}

// NewBibliographyAssembler erstellt einen Assembler; ohne Überschrift gilt DefaultBibliographyHeading.
func NewBibliographyAssembler(formatter *Formatter, heading string) *BibliographyAssembler {
	if heading == "" {
		heading = DefaultBibliographyHeading
	}
	return &BibliographyAssembler{Formatter: formatter, Heading: heading}
}

// Assemble hängt die Kildeliste an den Dokumentinhalt an. Ohne Premium oder ohne Zitate bleibt
// der Inhalt unverändert. Die Reihenfolge der Einträge entspricht exakt der Eingabe.
func (a *BibliographyAssembler) Assemble(doc Document, citations []models.Citation, style Style, premium bool) Bibliography {
	content := ""
	if doc != nil {
		content = doc.HTML()
	}
	if !premium || len(citations) == 0 {
		return Bibliography{Content: content}
	}

	entries := make([]Formatted, 0, len(citations))
	for _, c := range citations {
		entries = append(entries, a.Formatter.Format(c, style))
	}

	return Bibliography{
		Content:  appendFragment(content, a.RenderFragment(entries)),
		Entries:  entries,
		Warnings: CheckMarkers(content, citations),
		Rendered: true,
	}
}

// RenderFragment erzeugt Überschrift und geordnete Liste. Die URL steht als eigenes Element
// ohne Hyperlink hinter dem Text.
func (a *BibliographyAssembler) RenderFragment(entries []Formatted) string {
	heading := a.Heading
	if heading == "" {
		heading = DefaultBibliographyHeading
	}

	var b strings.Builder
	b.WriteString(`<section class="bibliography">`)
	b.WriteString("<h2>" + html.EscapeString(heading) + "</h2>")
	b.WriteString("<ol>")
	for _, e := range entries {
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(e.Text))
		if e.HasURL() {
			b.WriteString(` <span class="citation-url">` + html.EscapeString(e.URL) + "</span>")
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ol></section>")
	return b.String()
}

func appendFragment(content, fragment string) string {
	if strings.TrimSpace(content) == "" {
		return fragment
	}
	return strings.TrimRight(content, "\n") + "\n" + fragment
}
