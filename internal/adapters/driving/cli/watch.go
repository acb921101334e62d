package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/letscode5108/DocuQuery/internal/connectors/filesystem"
	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a folder and upload new PDFs",
	Long: `Watches a directory and uploads any PDF that appears in it.

Runs until interrupted. Files still being copied in are uploaded once
their writes settle.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errors.New("upload service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := filesystem.New(args[0], uploadService)
	watcher.OnUpload = func(path string, doc *domain.Document, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "upload of %s failed: %v\n", path, err)
			return
		}
		cmd.Printf("Uploaded %s as document %d\n", path, doc.ID)
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", args[0])
	if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
