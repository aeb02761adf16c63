package models

import "time"

// Article repräsentiert ein Dokument, dessen Export eine Kildeliste erhalten kann.
type Article struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title   string `json:"title" gorm:"not null"`
	Content string `json:"content" gorm:"type:text"` // HTML aus dem Rich-Text-Editor

	// Leer = DEFAULT_CITATION_STYLE
	CitationStyle string `json:"citation_style,omitempty"`
	// Premium-Artikel bekommen beim Export eine Kildeliste
	Premium    bool `json:"premium" gorm:"default:false"`
	AutoExport bool `json:"auto_export" gorm:"default:false;index"`

	AuthorName string `json:"author_name,omitempty"`
	Slug       string `json:"slug,omitempty" gorm:"index"`
}

// TableName gibt explizit den Tabellennamen an.
func (Article) TableName() string {
	return "articles"
}
