package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"kildeliste/config"
	"kildeliste/models"
)

func newTestCitationService(t *testing.T, cfg *config.Config) (*CitationService, *observer.ObservedLogs) {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{DefaultCitationStyle: "IEEE", BibliographyHeading: "Kildeliste"}
	}
	core, logs := observer.New(zapcore.DebugLevel)
	return NewCitationService(cfg, zap.New(core), FixedClock(testNow)), logs
}

func TestPrepareCitation(t *testing.T) {
	s, _ := newTestCitationService(t, nil)

	c := models.Citation{FullCitation: "Doe, J. (2020). Title."}
	require.NoError(t, s.PrepareCitation(&c))
	_, err := uuid.Parse(c.ID)
	assert.NoError(t, err)

	keep := models.Citation{ID: "fixed", FullCitation: "x"}
	require.NoError(t, s.PrepareCitation(&keep))
	assert.Equal(t, "fixed", keep.ID)

	empty := models.Citation{FullCitation: " \n "}
	assert.ErrorIs(t, s.PrepareCitation(&empty), ErrEmptyFullCitation)
	assert.Empty(t, empty.ID)
}

func TestResolveStyleDefault(t *testing.T) {
	s, _ := newTestCitationService(t, nil)

	assert.Equal(t, StyleIEEE, s.ResolveStyle(""))
	assert.Equal(t, StyleAPA7, s.ResolveStyle("APA7"))
	assert.Equal(t, StyleUnknown, s.ResolveStyle("Harvard"))
}

func TestServiceFormatLogsUnknownStyle(t *testing.T) {
	s, logs := newTestCitationService(t, nil)

	out, style := s.Format(context.Background(), models.Citation{ID: "c1", FullCitation: "Verbatim"}, "Harvard")
	assert.Equal(t, StyleUnknown, style)
	assert.Equal(t, "Verbatim", out.Text)

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	assert.Equal(t, "Harvard", warns[0].ContextMap()["style"])
}

func TestServiceMLAFlagFromConfig(t *testing.T) {
	cfg := &config.Config{DefaultCitationStyle: "MLA9", MLAIncludeAuthors: true}
	s, _ := newTestCitationService(t, cfg)

	out, _ := s.Format(context.Background(), snlCitation(), "")
	assert.Equal(t, `Nordmann, Kari. "Fjell i norge." Store norske leksikon, 2023. Lest 16. okt. 2026.`, out.Text)
}

func TestServiceRenderBibliographyWarnings(t *testing.T) {
	s, logs := newTestCitationService(t, nil)

	citations := []models.Citation{{Citation: "(Doe, 2021)", FullCitation: "Doe, J. (2021). Tittel. J."}}
	result := s.RenderBibliography(context.Background(), HTMLDocument("<p>Uten markør</p>"), citations, "APA7", true)

	require.True(t, result.Rendered)
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, 1, logs.FilterMessage("Citation markers inconsistent with bibliography").Len())
	assert.Equal(t, 1, logs.FilterMessage("Bibliography assembled").Len())
}
