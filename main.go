package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kildeliste/config"
	"kildeliste/models"
	"kildeliste/services"
	"kildeliste/storage"
)

// store ist der Datenbankzugriff, den die Handler brauchen.
type store interface {
	services.ExportStore
	CreateCitation(ctx context.Context, c *models.Citation) error
	GetCitation(ctx context.Context, id string) (*models.Citation, error)
	CreateArticle(ctx context.Context, a *models.Article) error
	UpdateArticle(ctx context.Context, a *models.Article) error
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	repo := storage.NewRepository(db)
	logging.Info("Running database auto-migration...")
	if err := repo.Migrate(); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	// Setup Services
	var uploader services.Uploader
	if cfg.ExportUploadEnabled {
		objectStore, err := storage.NewObjectStore(cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		uploader = objectStore
		logging.Info("Export upload enabled", zap.String("bucket", cfg.ExportS3Bucket))
	}
	citationService := services.NewCitationService(cfg, logging, services.SystemClock{})
	exportService := services.NewExportService(cfg, repo, uploader, citationService, logging)

	router := setupRouter(cfg, repo, citationService, exportService, logging)

	// Setup Cron
	cronScheduler := cron.New()
	_, err = cronScheduler.AddFunc(cfg.ReexportCronSchedule, func() {
		logging.Info("Running scheduled re-export job...")
		count, err := exportService.ReexportAll(context.Background())
		if err != nil {
			logging.Error("Cron job finished with errors", zap.Int("exported", count), zap.Error(err))
			return
		}
		logging.Info("Cron job completed", zap.Int("exported", count))
	})
	if err != nil {
		logging.Fatal("Invalid re-export cron schedule", zap.String("schedule", cfg.ReexportCronSchedule), zap.Error(err))
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupRouter(cfg *config.Config, db store, citations *services.CitationService, exporter *services.ExportService, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupCitationRoutes(router, db, citations, log)
	setupArticleRoutes(router, db, exporter, log)
	setupBibliographyRoutes(router, citations, log)
	return router
}

func setupCitationRoutes(router *gin.Engine, db store, citations *services.CitationService, log *zap.Logger) {
	rg := router.Group("/citations")

	rg.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"default_style": citations.DefaultStyle.String(),
			"styles":        []string{"APA7", "MLA9", "IEEE"},
		})
	})

	// POST - Zitat anlegen, ID wird serverseitig vergeben
	rg.POST("", func(c *gin.Context) {
		var citation models.Citation
		if err := c.ShouldBindJSON(&citation); err != nil {
			log.Error("Invalid request body for citation creation", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		citation.ID = ""
		if err := citations.PrepareCitation(&citation); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.CreateCitation(c.Request.Context(), &citation); err != nil {
			log.Error("Failed to create citation", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save citation"})
			return
		}

		log.Info("Citation created successfully", zap.String("id", citation.ID))
		c.JSON(http.StatusCreated, citation)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id := c.Param("id")
		citation, err := db.GetCitation(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Citation not found"})
				return
			}
			log.Error("Database error while fetching citation", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, citation)
	})

	// POST - Einzelnes Zitat formatieren (zustandslos)
	rg.POST("/format", func(c *gin.Context) {
		var request struct {
			Citation models.Citation `json:"citation"`
			Style    string          `json:"style"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if strings.TrimSpace(request.Citation.FullCitation) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrEmptyFullCitation.Error()})
			return
		}

		formatted, style := citations.Format(c.Request.Context(), request.Citation, request.Style)
		c.JSON(http.StatusOK, gin.H{
			"text":  formatted.Text,
			"url":   formatted.URL,
			"style": style.String(),
		})
	})
}

func setupArticleRoutes(router *gin.Engine, db store, exporter *services.ExportService, log *zap.Logger) {
	rg := router.Group("/articles")

	rg.POST("", func(c *gin.Context) {
		var article models.Article
		if err := c.ShouldBindJSON(&article); err != nil {
			log.Error("Invalid request body for article creation", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		article.ID = 0
		if err := db.CreateArticle(c.Request.Context(), &article); err != nil {
			log.Error("Failed to create article", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save article"})
			return
		}

		log.Info("Article created successfully", zap.Uint("id", article.ID), zap.String("title", article.Title))
		c.JSON(http.StatusCreated, article)
	})

	rg.GET("/:id", func(c *gin.Context) {
		article, ok := loadArticle(c, db, log)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, article)
	})

	rg.PUT("/:id", func(c *gin.Context) {
		article, ok := loadArticle(c, db, log)
		if !ok {
			return
		}
		id := article.ID
		if err := c.ShouldBindJSON(article); err != nil {
			log.Error("Invalid request body for article update", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		article.ID = id

		if err := db.UpdateArticle(c.Request.Context(), article); err != nil {
			log.Error("Failed to update article", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update article"})
			return
		}

		log.Info("Article updated successfully", zap.Uint("id", id), zap.String("title", article.Title))
		c.JSON(http.StatusOK, article)
	})

	// GET - Zitate eines Artikels in Anlagereihenfolge
	rg.GET("/:id/citations", func(c *gin.Context) {
		article, ok := loadArticle(c, db, log)
		if !ok {
			return
		}
		list, err := db.ListCitationsByArticle(c.Request.Context(), article.ID)
		if err != nil {
			log.Error("Database error while listing citations", zap.Uint("article_id", article.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	// POST - Artikel mit Kildeliste exportieren
	rg.POST("/:id/export", func(c *gin.Context) {
		id, ok := parseArticleID(c)
		if !ok {
			return
		}
		export, err := exporter.ExportArticle(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrArticleNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
				return
			}
			log.Error("Article export failed", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
			return
		}
		c.JSON(http.StatusOK, export)
	})
}

func setupBibliographyRoutes(router *gin.Engine, citations *services.CitationService, log *zap.Logger) {
	rg := router.Group("/bibliography")

	// POST - Kildeliste rendern, ohne etwas zu speichern
	rg.POST("/render", func(c *gin.Context) {
		var request struct {
			Citations []models.Citation `json:"citations"`
			Style     string            `json:"style"`
			Premium   bool              `json:"premium"`
			Content   string            `json:"content"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			log.Error("Invalid request body for bibliography rendering", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		for i, citation := range request.Citations {
			if strings.TrimSpace(citation.FullCitation) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrEmptyFullCitation.Error(), "index": i})
				return
			}
		}

		result := citations.RenderBibliography(c.Request.Context(), services.HTMLDocument(request.Content), request.Citations, request.Style, request.Premium)
		c.JSON(http.StatusOK, result)
	})
}

func parseArticleID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return 0, false
	}
	return uint(id), true
}

func loadArticle(c *gin.Context, db store, log *zap.Logger) (*models.Article, bool) {
	id, ok := parseArticleID(c)
	if !ok {
		return nil, false
	}
	article, err := db.GetArticle(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return nil, false
		}
		log.Error("Database error while fetching article", zap.Uint("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	return article, true
}
