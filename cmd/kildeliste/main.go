// Package main ist die Offline-CLI zum Formatieren von Zitaten und Rendern der Kildeliste.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kildeliste/config"
	"kildeliste/models"
	"kildeliste/services"
)

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "kildeliste",
	Short: "Format citations and render bibliographies offline",
	Long: `kildeliste formats citation records (JSON, as stored by the service) in
APA7, MLA9 or IEEE and appends the rendered bibliography to an HTML document.
No database or network access is needed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if !verbose {
			return nil
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log to stderr")
	rootCmd.PersistentFlags().Bool("mla-authors", false, "include the author list in MLA9 output")
	rootCmd.PersistentFlags().String("heading", services.DefaultBibliographyHeading, "bibliography heading")
}

func main() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newService baut den CitationService aus den globalen Flags.
func newService(cmd *cobra.Command, style string) *services.CitationService {
	mla, _ := cmd.Flags().GetBool("mla-authors")
	heading, _ := cmd.Flags().GetString("heading")
	cfg := &config.Config{
		DefaultCitationStyle: style,
		MLAIncludeAuthors:    mla,
		BibliographyHeading:  heading,
	}
	return services.NewCitationService(cfg, logger, services.SystemClock{})
}

// readInput liest eine Datei oder stdin ("-").
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// decodeCitations akzeptiert ein einzelnes Zitat oder ein JSON-Array.
func decodeCitations(data []byte) ([]models.Citation, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	var citations []models.Citation
	if data[0] == '[' {
		if err := json.Unmarshal(data, &citations); err != nil {
			return nil, fmt.Errorf("decode citations: %w", err)
		}
	} else {
		var c models.Citation
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decode citation: %w", err)
		}
		citations = append(citations, c)
	}
	for i, c := range citations {
		if c.FullCitation == "" {
			return nil, fmt.Errorf("citation %d: %w", i+1, services.ErrEmptyFullCitation)
		}
	}
	return citations, nil
}
