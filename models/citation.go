package models

import "time"

// Citation ist ein vom Editor erzeugter Quellenverweis. Nach dem Anlegen wird er nicht mehr verändert.
type Citation struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`

	// Optional: Zitate können vor dem Speichern eines Artikels in der Vorschau formatiert werden
	ArticleID *uint `json:"article_id,omitempty" gorm:"index"`

	// Inline-Marker, z.B. "(Doe, 2021)", wird unverändert durchgereicht
	Citation string `json:"citation"`
	// Langform, immer gesetzt; letzte Rückfallquelle für alle Stile
	FullCitation string `json:"full_citation" gorm:"type:text;not null"`

	Title       string `json:"title,omitempty"`
	ArticleURL  string `json:"article_url,omitempty" gorm:"type:text"`
	Authors     string `json:"authors,omitempty"` // kommagetrennte Namen
	LastUpdated string `json:"last_updated,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (Citation) TableName() string {
	return "citations"
}
