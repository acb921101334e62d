package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

var (
	askDocID int64
	askAll   bool
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Asks a question and prints the backend's answer.

By default the question runs across all uploaded documents. Use --doc to
scope it to a single document id (see "docuquery documents").

The question can also be piped on stdin:

  echo "What was Q3 revenue?" | docuquery ask --doc 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Int64VarP(&askDocID, "doc", "d", 0, "scope the question to a document id")
	askCmd.Flags().BoolVar(&askAll, "all", false, "ask across all documents (default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the exchange as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil || catalogService == nil {
		return errors.New("query service not configured")
	}
	if askDocID != 0 && askAll {
		return errors.New("--doc and --all are mutually exclusive")
	}

	question, err := readQuestion(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(question) == "" {
		return errors.New("empty question")
	}

	ctx := cmd.Context()

	scope := domain.ScopeAll
	var doc *domain.Document
	if askDocID != 0 {
		doc, err = catalogService.Select(ctx, askDocID)
		if err != nil {
			return fmt.Errorf("opening document %d: %w", askDocID, err)
		}
		scope = domain.ScopeSingle
	}

	exchange, err := queryService.Submit(ctx, question, scope, doc)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if exchange == nil {
		return nil
	}

	if askJSON {
		data, err := json.MarshalIndent(exchange, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding exchange: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(exchange.Answer)
	if len(exchange.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range exchange.Sources {
			cmd.Printf("  %s (%.2f)\n", sourceLabel(src), src.RelevanceScore)
		}
	}
	return nil
}

// readQuestion takes the question from the argument, falling back to
// piped stdin when no argument is given.
func readQuestion(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no question given; pass it as an argument or pipe it on stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func sourceLabel(src domain.Source) string {
	if src.DocumentTitle != "" {
		return src.DocumentTitle
	}
	return src.Filename
}
