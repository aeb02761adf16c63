package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "kilde")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "kildeliste")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "4242", cfg.HTTPPort)
	assert.Equal(t, "APA7", cfg.DefaultCitationStyle)
	assert.False(t, cfg.MLAIncludeAuthors)
	assert.Equal(t, "Kildeliste", cfg.BibliographyHeading)
	assert.False(t, cfg.ExportUploadEnabled)
	assert.Equal(t, "host=localhost user=kilde password=secret dbname=kildeliste port=5432 sslmode=disable", cfg.DSN())
}

func TestLoadMissingRequired(t *testing.T) {
	for _, key := range []string{"DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME"} {
		// t.Setenv stellt den ursprünglichen Wert nach dem Test wieder her
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateUploadRequiresS3Settings(t *testing.T) {
	cfg := &Config{ExportUploadEnabled: true, ExportS3Key: "k"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXPORT_S3_BUCKET")

	cfg = &Config{
		ExportUploadEnabled: true,
		ExportS3Key:         "k",
		ExportS3Secret:      "s",
		ExportS3URL:         "https://s3.example.org",
		ExportS3Bucket:      "exports",
	}
	assert.NoError(t, cfg.Validate())
}
