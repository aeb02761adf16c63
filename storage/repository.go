package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kildeliste/models"
	"kildeliste/services"
)

// Repository kapselt den Datenbankzugriff für Zitate, Artikel und Exporte.
type Repository struct {
	DB *gorm.DB
}

// NewRepository erstellt ein Repository auf einer offenen Verbindung.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Migrate legt die Tabellen an bzw. passt sie an.
func (r *Repository) Migrate() error {
	return r.DB.AutoMigrate(&models.Citation{}, &models.Article{}, &models.ArticleExport{})
}

// CreateCitation speichert ein neues Zitat.
func (r *Repository) CreateCitation(ctx context.Context, c *models.Citation) error {
	if err := r.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create citation: %w", err)
	}
	return nil
}

// GetCitation lädt ein Zitat; unbekannte IDs liefern gorm.ErrRecordNotFound.
func (r *Repository) GetCitation(ctx context.Context, id string) (*models.Citation, error) {
	var c models.Citation
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get citation %s: %w", id, err)
	}
	return &c, nil
}

// ListCitationsByArticle liefert die Zitate eines Artikels in Anlagereihenfolge.
func (r *Repository) ListCitationsByArticle(ctx context.Context, articleID uint) ([]models.Citation, error) {
	var citations []models.Citation
	err := r.DB.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at asc").
		Order("id asc").
		Find(&citations).Error
	if err != nil {
		return nil, fmt.Errorf("list citations for article %d: %w", articleID, err)
	}
	return citations, nil
}

func (r *Repository) CreateArticle(ctx context.Context, a *models.Article) error {
	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// GetArticle lädt einen Artikel; unbekannte IDs liefern services.ErrArticleNotFound.
func (r *Repository) GetArticle(ctx context.Context, id uint) (*models.Article, error) {
	var a models.Article
	if err := r.DB.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article %d: %w", id, services.ErrArticleNotFound)
		}
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}
	return &a, nil
}

func (r *Repository) UpdateArticle(ctx context.Context, a *models.Article) error {
	if err := r.DB.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("update article %d: %w", a.ID, err)
	}
	return nil
}

func (r *Repository) SaveExport(ctx context.Context, export *models.ArticleExport) error {
	if err := r.DB.WithContext(ctx).Create(export).Error; err != nil {
		return fmt.Errorf("save export: %w", err)
	}
	return nil
}

// ListAutoExportArticles liefert alle Premium-Artikel mit aktiviertem Auto-Export.
func (r *Repository) ListAutoExportArticles(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	err := r.DB.WithContext(ctx).
		Where("premium = ? AND auto_export = ?", true, true).
		Order("id asc").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list auto-export articles: %w", err)
	}
	return articles, nil
}
