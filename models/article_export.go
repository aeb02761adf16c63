package models

import (
	"time"

	"gorm.io/datatypes"
)

// ArticleExport protokolliert einen gerenderten Export inklusive Kildeliste.
type ArticleExport struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ArticleID     uint   `json:"article_id" gorm:"index;not null"`
	CitationStyle string `json:"citation_style"`
	CitationCount int    `json:"citation_count"`
	Content       string `json:"content" gorm:"type:text"`
	S3Link        string `json:"s3_link,omitempty"`

	// Marker, die im Dokument fehlen (JSON-Array von Strings)
	Warnings datatypes.JSON `json:"warnings" gorm:"type:jsonb"`
}

func (ArticleExport) TableName() string { return "article_exports" }
