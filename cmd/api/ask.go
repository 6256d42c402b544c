package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [document-id] [question...]",
	Short: "Answer a question from one ingested document",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApplication(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	defer a.close(context.Background(), appLog)

	result, err := a.documents.QueryDocument(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Answer)
	if len(result.Sources) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Sources:")
	}
	for _, src := range result.Sources {
		fmt.Fprintf(out, "  [page %d, %.3f] %s\n", src.Page, src.Similarity, src.Excerpt)
	}
	return nil
}
