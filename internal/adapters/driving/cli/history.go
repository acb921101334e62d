package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

var (
	historyDocID int64
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show locally archived exchanges",
	Long: `Shows questions and answers archived in the local history database.

Without flags the cross-document history is shown. Use --doc to show
the history of a single document.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int64VarP(&historyDocID, "doc", "d", 0, "show history for a document id")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of exchanges")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	key := domain.GlobalLog
	if historyDocID != 0 {
		key = domain.DocumentLog(historyDocID)
	}

	exchanges, err := queryService.History(cmd.Context(), key, historyLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(exchanges) == 0 {
		cmd.Println("No archived exchanges.")
		return nil
	}

	for _, ex := range exchanges {
		cmd.Printf("[%s] Q: %s\n", ex.CreatedAt.Format("2006-01-02 15:04"), ex.Question)
		cmd.Printf("         A: %s\n", ex.Answer)
		cmd.Println()
	}
	return nil
}
