package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List uploaded documents",
	Long:  `Lists the documents uploaded to the backend, newest first.`,
	RunE:  runDocuments,
}

func init() {
	documentsCmd.Flags().BoolVar(&documentsJSON, "json", false, "output documents as JSON")
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	if err := catalogService.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("fetching documents: %w", err)
	}
	docs := catalogService.Documents()

	if documentsJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded yet. Use \"docuquery upload\" to add one.")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("  [%d] %s\n", doc.ID, doc.Title)
		cmd.Printf("      %s, %s, uploaded %s\n",
			doc.Filename, formatSize(doc.FileSize), doc.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// formatSize renders a byte count for humans.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
