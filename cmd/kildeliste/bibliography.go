package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kildeliste/services"
)

var bibliographyCmd = &cobra.Command{
	Use:   "bibliography [citations.json]",
	Short: "Append the rendered bibliography to an HTML document",
	Long: `Bibliography formats every citation in input order and appends the list to
the document given with --content. Without --premium the document is printed
unchanged. Marker warnings go to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		premium, _ := cmd.Flags().GetBool("premium")
		contentPath, _ := cmd.Flags().GetString("content")

		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		citations, err := decodeCitations(data)
		if err != nil {
			return err
		}

		var content []byte
		if contentPath != "" {
			content, err = os.ReadFile(contentPath)
			if err != nil {
				return fmt.Errorf("read content: %w", err)
			}
		}

		result := newService(cmd, style).RenderBibliography(cmd.Context(), services.HTMLDocument(content), citations, style, premium)
		for _, w := range result.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Content)
		return err
	},
}

func init() {
	bibliographyCmd.Flags().StringP("style", "s", "APA7", "citation style: APA7, MLA9 or IEEE")
	bibliographyCmd.Flags().Bool("premium", false, "render the bibliography (non-premium documents stay unchanged)")
	bibliographyCmd.Flags().String("content", "", "HTML document to append the bibliography to")

	rootCmd.AddCommand(bibliographyCmd)
}
