package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"kildeliste/models"
	"kildeliste/services"
)

var formatCmd = &cobra.Command{
	Use:   "format [citations.json]",
	Short: "Format citations in one style",
	Long: `Format reads a citation object or an array of citations and prints one
formatted reference per line, followed by the source URL on its own line when
the citation has one. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		asJSON, _ := cmd.Flags().GetBool("json")

		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		citations, err := decodeCitations(data)
		if err != nil {
			return err
		}
		return writeFormatted(cmd.Context(), cmd.OutOrStdout(), newService(cmd, style), citations, style, asJSON)
	},
}

func init() {
	formatCmd.Flags().StringP("style", "s", "APA7", "citation style: APA7, MLA9 or IEEE")
	formatCmd.Flags().Bool("json", false, "print a JSON array of {text, url}")

	rootCmd.AddCommand(formatCmd)
}

func writeFormatted(ctx context.Context, w io.Writer, svc *services.CitationService, citations []models.Citation, style string, asJSON bool) error {
	out := make([]services.Formatted, 0, len(citations))
	for _, c := range citations {
		f, _ := svc.Format(ctx, c, style)
		out = append(out, f)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	}
	for _, f := range out {
		if _, err := fmt.Fprintln(w, f.Text); err != nil {
			return err
		}
		if f.HasURL() {
			if _, err := fmt.Fprintln(w, f.URL); err != nil {
				return err
			}
		}
	}
	return nil
}
