package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var uploadTitle string

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a PDF to the backend",
	Long: `Uploads a PDF file so it can be queried.

The document title defaults to the filename with the extension stripped
and underscores replaced by spaces. Use --title to set it explicitly.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadTitle, "title", "t", "", "document title")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errors.New("upload service not configured")
	}

	doc, err := uploadService.Submit(cmd.Context(), args[0], uploadTitle)
	if err != nil {
		if doc != nil {
			// Upload itself landed; only the follow-up catalog sync failed.
			cmd.Printf("Uploaded %q as document %d\n", doc.Title, doc.ID)
			return fmt.Errorf("refreshing catalog: %w", err)
		}
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded %q as document %d\n", doc.Title, doc.ID)
	return nil
}
