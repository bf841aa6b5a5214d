package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/erp/catalog/internal/application/catalog"
	"github.com/spf13/cobra"
)

func outputJSON(cmd *cobra.Command) bool {
	format, _ := cmd.Flags().GetString("output")
	return format == "json"
}

func printResults(cmd *cobra.Command, results []catalog.ReparentingResult) error {
	out := cmd.OutOrStdout()
	if outputJSON(cmd) {
		return writeJSON(out, results)
	}
	for _, r := range results {
		writeResult(out, r)
	}
	return nil
}

func writeResult(w io.Writer, r catalog.ReparentingResult) {
	status := "OK"
	if !r.Success {
		status = "FAILED"
	}
	if r.DryRun {
		status += " (dry run)"
	}
	fmt.Fprintf(w, "%s %s\n", status, r.CategoryID)
	if r.OldPath != "" || r.NewPath != "" {
		fmt.Fprintf(w, "  %s -> %s\n", r.OldPath, r.NewPath)
	}
	fmt.Fprintf(w, "  categories: %d  products: %d  took: %dms\n", r.AffectedCategories, r.AffectedProducts, r.ExecutionTimeMs)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  error: %s\n", e)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn)
	}
}

func printTree(cmd *cobra.Command, roots []*catalog.CategoryTreeNode) error {
	out := cmd.OutOrStdout()
	if outputJSON(cmd) {
		return writeJSON(out, roots)
	}
	for _, n := range roots {
		writeNode(out, n, 0)
	}
	return nil
}

func writeNode(w io.Writer, n *catalog.CategoryTreeNode, depth int) {
	fmt.Fprintf(w, "%s%s  %s  (%d products)\n", strings.Repeat("  ", depth), n.Slug, n.ID, n.ProductCount)
	for _, c := range n.Children {
		writeNode(w, c, depth+1)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
