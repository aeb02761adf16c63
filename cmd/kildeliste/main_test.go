package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kildeliste/config"
	"kildeliste/services"
)

const citationsJSON = `[
  {"full_citation": "Jane Doe & John Smith (2020). The Title of the Work. https://snl.no/foo", "article_url": "https://snl.no/foo", "citation": "(Doe & Smith, 2020)"},
  {"full_citation": "Roe, R. (2019). Havet. Natur."}
]`

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	// rootCmd ist global, Flag-Werte bleiben sonst zwischen Aufrufen stehen
	for _, cmd := range []*cobra.Command{formatCmd, bibliographyCmd} {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDecodeCitations(t *testing.T) {
	list, err := decodeCitations([]byte(citationsJSON))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	single, err := decodeCitations([]byte(` {"full_citation": "x"} `))
	require.NoError(t, err)
	assert.Len(t, single, 1)

	_, err = decodeCitations([]byte(`[{"title": "no full citation"}]`))
	assert.ErrorIs(t, err, services.ErrEmptyFullCitation)

	_, err = decodeCitations([]byte("  "))
	assert.Error(t, err)
}

func TestWriteFormatted(t *testing.T) {
	list, err := decodeCitations([]byte(citationsJSON))
	require.NoError(t, err)
	svc := services.NewCitationService(&config.Config{DefaultCitationStyle: "APA7"}, logger, services.SystemClock{})

	var buf bytes.Buffer
	require.NoError(t, writeFormatted(context.Background(), &buf, svc, list, "APA7", false))
	assert.Equal(t,
		"Doe, J. & Smith, J. (2020). The title of the work. I Store norske leksikon\n"+
			"https://snl.no/foo\n"+
			"Roe, R. (2019). Havet\n",
		buf.String())

	buf.Reset()
	require.NoError(t, writeFormatted(context.Background(), &buf, svc, list, "APA7", true))
	assert.JSONEq(t, `[
		{"text": "Doe, J. & Smith, J. (2020). The title of the work. I Store norske leksikon", "url": "https://snl.no/foo"},
		{"text": "Roe, R. (2019). Havet"}
	]`, buf.String())
}

func TestFormatCommandFromStdin(t *testing.T) {
	out, _, err := runCLI(t, citationsJSON, "format", "--style", "IEEE", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `Roe, R., "Havet", Natur, 2019.`)
}

func TestBibliographyCommand(t *testing.T) {
	dir := t.TempDir()
	citations := filepath.Join(dir, "citations.json")
	doc := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(citations, []byte(citationsJSON), 0o600))
	require.NoError(t, os.WriteFile(doc, []byte("<p>Tekst (Doe &amp; Smith, 2020).</p>"), 0o600))

	out, errOut, err := runCLI(t, "", "bibliography", "--style", "APA7", "--premium", "--content", doc, citations)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<p>Tekst (Doe &amp; Smith, 2020).</p>\n<section"), out)
	assert.Contains(t, out, "<li>Roe, R. (2019). Havet</li>")
	assert.Empty(t, errOut)

	out, _, err = runCLI(t, "", "bibliography", "--content", doc, citations)
	require.NoError(t, err)
	assert.Equal(t, "<p>Tekst (Doe &amp; Smith, 2020).</p>\n", out)
}
