package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kildeliste/config"
	"kildeliste/models"
)

var (
	// ErrEmptyFullCitation: full_citation ist Pflicht, ohne sie gibt es nichts zu extrahieren.
	ErrEmptyFullCitation = errors.New("full_citation must not be empty")
	// ErrArticleNotFound wird vom Store für unbekannte Artikel-IDs geliefert.
	ErrArticleNotFound = errors.New("article not found")
)

// CitationService verbindet die Formatierung mit Logging und Metriken
type CitationService struct {
	Logger       *zap.Logger
	Formatter    *Formatter
	Assembler    *BibliographyAssembler
	DefaultStyle Style
}

// NewCitationService erstellt einen Service aus der Konfiguration; clock == nil bedeutet Wanduhr.
func NewCitationService(cfg *config.Config, logger *zap.Logger, clock Clock) *CitationService {
	formatter := NewFormatter(clock, cfg.MLAIncludeAuthors)
	return &CitationService{
		Logger:       logger,
		Formatter:    formatter,
		Assembler:    NewBibliographyAssembler(formatter, cfg.BibliographyHeading),
		DefaultStyle: ParseStyle(cfg.DefaultCitationStyle),
	}
}

// ResolveStyle liefert den Stil zum Namen; ein leerer Name fällt auf den konfigurierten Standard zurück.
func (s *CitationService) ResolveStyle(name string) Style {
	if strings.TrimSpace(name) == "" {
		return s.DefaultStyle
	}
	return ParseStyle(name)
}

// PrepareCitation prüft ein neues Zitat und vergibt eine ID, falls keine gesetzt ist
func (s *CitationService) PrepareCitation(c *models.Citation) error {
	if strings.TrimSpace(c.FullCitation) == "" {
		return ErrEmptyFullCitation
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// Format formatiert ein einzelnes Zitat
func (s *CitationService) Format(ctx context.Context, c models.Citation, styleName string) (Formatted, Style) {
	style := s.ResolveStyle(styleName)
	if style == StyleUnknown {
		s.Logger.Warn("Unknown citation style, falling back to full citation",
			zap.String("style", styleName),
			zap.String("citation_id", c.ID))
	}

	out := s.Formatter.Format(c, style)
	citationsFormattedCounter.WithLabelValues(style.String()).Inc()

	s.Logger.Debug("Citation formatted",
		zap.String("citation_id", c.ID),
		zap.String("style", style.String()),
		zap.Bool("has_url", out.HasURL()))
	return out, style
}

// RenderBibliography hängt die Kildeliste an das Dokument an
func (s *CitationService) RenderBibliography(ctx context.Context, doc Document, citations []models.Citation, styleName string, premium bool) Bibliography {
	style := s.ResolveStyle(styleName)
	result := s.Assembler.Assemble(doc, citations, style, premium)

	if result.Rendered {
		citationsFormattedCounter.WithLabelValues(style.String()).Add(float64(len(result.Entries)))
	}
	if len(result.Warnings) > 0 {
		markerWarningsCounter.Add(float64(len(result.Warnings)))
		s.Logger.Warn("Citation markers inconsistent with bibliography",
			zap.Strings("warnings", result.Warnings))
	}

	s.Logger.Info("Bibliography assembled",
		zap.String("style", style.String()),
		zap.Bool("premium", premium),
		zap.Bool("rendered", result.Rendered),
		zap.Int("citations", len(citations)))
	return result
}
