package services

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"kildeliste/models"
)

var numericMarkerRE = regexp.MustCompile(`\[(\d{1,3})\]`)

// ParseCitationOrder returns the unique [n] markers of a text in first-occurrence order
func ParseCitationOrder(text string) []int {
	seen := map[int]bool{}
	var order []int
	for _, m := range numericMarkerRE.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		if !seen[n] {
			seen[n] = true
			order = append(order, n)
		}
	}
	return order
}

// CheckMarkers vergleicht die Zitatmarker im Dokument mit der Kildeliste.
// Die Warnungen sind rein informativ und verändern die Liste nicht.
func CheckMarkers(content string, citations []models.Citation) []string {
	var warnings []string

	for i, c := range citations {
		marker := strings.TrimSpace(c.Citation)
		if marker == "" {
			continue
		}
		if !strings.Contains(content, marker) && !strings.Contains(content, html.EscapeString(marker)) {
			warnings = append(warnings, fmt.Sprintf("citation %d (%s) is not referenced in the document", i+1, marker))
		}
	}

	for _, n := range ParseCitationOrder(content) {
		if n > len(citations) {
			warnings = append(warnings, fmt.Sprintf("citation [%d] has no matching source", n))
		}
	}
	return warnings
}
