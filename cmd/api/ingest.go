package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.pdf]",
	Short: "Ingest a local PDF and wait for it to finish",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	ctx := cmd.Context()
	a, err := newApplication(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	defer a.close(context.Background(), appLog)
	a.pool.Start()

	doc, err := a.documents.UploadDocument(ctx, filepath.Base(args[0]), data)
	if err != nil {
		return err
	}

	// the document is terminal once the queue is drained
	a.drain(context.Background(), appLog)

	result, err := a.documents.GetDocument(ctx, doc.ID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
