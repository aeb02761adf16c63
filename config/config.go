package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Zitierstil, wenn ein Artikel keinen eigenen Stil gesetzt hat
	DefaultCitationStyle string `envconfig:"DEFAULT_CITATION_STYLE" default:"APA7"`
	// MLA mit Autoren rendern (korrigiertes Verhalten); false = bisheriges Format ohne Autoren
	MLAIncludeAuthors   bool   `envconfig:"MLA_INCLUDE_AUTHORS" default:"false"`
	BibliographyHeading string `envconfig:"BIBLIOGRAPHY_HEADING" default:"Kildeliste"`

	// Nächtlicher Re-Export, damit das MLA-Abrufdatum aktuell bleibt
	ReexportCronSchedule string `envconfig:"REEXPORT_CRON_SCHEDULE" default:"0 3 * * *"`

	ExportUploadEnabled bool   `envconfig:"EXPORT_UPLOAD_ENABLED" default:"false"`
	ExportS3Key         string `envconfig:"EXPORT_S3_KEY"`
	ExportS3Secret      string `envconfig:"EXPORT_S3_SECRET"`
	ExportS3URL         string `envconfig:"EXPORT_S3_URL"`
	ExportS3Region      string `envconfig:"EXPORT_S3_REGION" default:"eu-central-1"`
	ExportS3Bucket      string `envconfig:"EXPORT_S3_BUCKET"`
	ExportS3Prefix      string `envconfig:"EXPORT_S3_PREFIX" default:"exports"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Validate prüft Abhängigkeiten zwischen Feldern, die envconfig nicht abbilden kann.
func (c *Config) Validate() error {
	if !c.ExportUploadEnabled {
		return nil
	}
	missing := []string{}
	if c.ExportS3Key == "" {
		missing = append(missing, "EXPORT_S3_KEY")
	}
	if c.ExportS3Secret == "" {
		missing = append(missing, "EXPORT_S3_SECRET")
	}
	if c.ExportS3URL == "" {
		missing = append(missing, "EXPORT_S3_URL")
	}
	if c.ExportS3Bucket == "" {
		missing = append(missing, "EXPORT_S3_BUCKET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("export upload enabled but missing %v", missing)
	}
	return nil
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return &c, err
	}
	return &c, c.Validate()
}
