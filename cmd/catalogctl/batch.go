package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <plan.yaml>",
	Short: "Apply a YAML plan of moves, deepest categories first",
	Long: "Apply every move listed in a YAML plan. Moves run deepest first and stop at the first " +
		"failure unless the plan is a dry run.",
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Bool("dry-run", false, "validate every move without writing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}

	tenant, _ := cmd.Flags().GetString("tenant")
	user, _ := cmd.Flags().GetString("user")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	req, err := plan.request(tenant, user, dryRun)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	results := s.service.BatchReparent(cmd.Context(), req)
	if err := printResults(cmd, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d moves failed (%d requested)", failed, len(results), len(req.Operations))
	}
	return nil
}
