package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"kildeliste/config"
	"kildeliste/models"
)

// ExportStore ist der Persistenzbedarf des Exports.
type ExportStore interface {
	GetArticle(ctx context.Context, id uint) (*models.Article, error)
	ListCitationsByArticle(ctx context.Context, articleID uint) ([]models.Citation, error)
	SaveExport(ctx context.Context, export *models.ArticleExport) error
	ListAutoExportArticles(ctx context.Context) ([]models.Article, error)
}

// Uploader legt ein exportiertes Dokument ab und liefert den Link.
type Uploader interface {
	Upload(ctx context.Context, articleID uint, data []byte) (string, error)
}

// reexportWorkers begrenzt die parallelen Exporte im Cron-Lauf
const reexportWorkers = 5

// ExportService kümmert sich um den Export eines Artikels inklusive Kildeliste.
type ExportService struct {
	Config    *config.Config
	Store     ExportStore
	Uploader  Uploader // nil = kein Upload
	Citations *CitationService
	Logger    *zap.Logger
}

// NewExportService erstellt eine neue Instanz des ExportService.
func NewExportService(cfg *config.Config, store ExportStore, uploader Uploader, citations *CitationService, logger *zap.Logger) *ExportService {
	return &ExportService{
		Config:    cfg,
		Store:     store,
		Uploader:  uploader,
		Citations: citations,
		Logger:    logger,
	}
}

// ExportArticle rendert den Artikel mit Kildeliste, lädt ihn optional hoch und speichert den Export.
func (e *ExportService) ExportArticle(ctx context.Context, articleID uint) (*models.ArticleExport, error) {
	log := e.Logger.With(zap.Uint("article_id", articleID))

	article, err := e.Store.GetArticle(ctx, articleID)
	if err != nil {
		exportsCounter.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load article %d: %w", articleID, err)
	}
	citations, err := e.Store.ListCitationsByArticle(ctx, articleID)
	if err != nil {
		exportsCounter.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load citations for article %d: %w", articleID, err)
	}

	styleName := article.CitationStyle
	if styleName == "" {
		styleName = e.Config.DefaultCitationStyle
	}
	result := e.Citations.RenderBibliography(ctx, HTMLDocument(article.Content), citations, styleName, article.Premium)

	warnings, err := json.Marshal(nonNil(result.Warnings))
	if err != nil {
		exportsCounter.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("encode warnings: %w", err)
	}
	export := &models.ArticleExport{
		ArticleID:     article.ID,
		CitationStyle: styleName,
		CitationCount: len(result.Entries),
		Content:       result.Content,
		Warnings:      datatypes.JSON(warnings),
	}

	if e.Uploader != nil {
		link, err := e.Uploader.Upload(ctx, article.ID, []byte(result.Content))
		if err != nil {
			// Export bleibt gültig, nur ohne Link
			log.Error("Export-Upload fehlgeschlagen", zap.Error(err))
		} else {
			export.S3Link = link
			log.Info("Export hochgeladen", zap.String("s3_link", link))
		}
	}

	if err := e.Store.SaveExport(ctx, export); err != nil {
		exportsCounter.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("save export for article %d: %w", articleID, err)
	}

	exportsCounter.WithLabelValues("ok").Inc()
	log.Info("Artikel exportiert",
		zap.String("style", styleName),
		zap.Int("citations", export.CitationCount),
		zap.Bool("bibliography", result.Rendered))
	return export, nil
}

// ReexportAll exportiert alle Premium-Artikel mit aktiviertem Auto-Export neu.
// Fehler einzelner Artikel brechen den Lauf nicht ab.
func (e *ExportService) ReexportAll(ctx context.Context) (int, error) {
	articles, err := e.Store.ListAutoExportArticles(ctx)
	if err != nil {
		e.Logger.Error("Fehler beim Abrufen der Auto-Export-Artikel", zap.Error(err))
		return 0, fmt.Errorf("list auto-export articles: %w", err)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		exported int
		errs     []error
	)
	semaphore := make(chan struct{}, reexportWorkers)

	for _, article := range articles {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		semaphore <- struct{}{}

		go func(id uint) {
			defer wg.Done()
			defer func() { <-semaphore }()

			_, err := e.ExportArticle(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				e.Logger.Error("Re-Export fehlgeschlagen", zap.Uint("article_id", id), zap.Error(err))
				errs = append(errs, err)
				return
			}
			exported++
		}(article.ID)
	}

	wg.Wait()
	e.Logger.Info("Re-Export abgeschlossen",
		zap.Int("articles", len(articles)),
		zap.Int("exported", exported),
		zap.Int("failed", len(errs)))
	return exported, errors.Join(errs...)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
