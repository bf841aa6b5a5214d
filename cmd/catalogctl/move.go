package main

import (
	"fmt"

	"github.com/erp/catalog/internal/application/catalog"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Move one category under a new parent",
	Long:  "Move one category and its subtree under --parent, or to the root when --parent is omitted.",
	Args:  cobra.NoArgs,
	RunE:  runMove,
}

func init() {
	moveCmd.Flags().String("category", "", "ID of the category to move (required)")
	moveCmd.Flags().String("parent", "", "ID of the new parent; empty moves to the root")
	moveCmd.Flags().Bool("dry-run", false, "validate and count without writing")
	moveCmd.Flags().Int("batch-size", catalog.DefaultReparentBatchSize, "descendants rewritten per batch")
	moveCmd.Flags().Bool("skip-rules", false, "skip business rules; structural checks still run")
	moveCmd.Flags().Bool("skip-products", false, "do not touch product rows")
	_ = moveCmd.MarkFlagRequired("category")
}

func runMove(cmd *cobra.Command, _ []string) error {
	tenantID, err := tenantFromFlags(cmd)
	if err != nil {
		return err
	}

	categoryFlag, _ := cmd.Flags().GetString("category")
	categoryID, err := uuid.Parse(categoryFlag)
	if err != nil {
		return fmt.Errorf("invalid category id %q", categoryFlag)
	}
	parentFlag, _ := cmd.Flags().GetString("parent")
	parentID, err := parseOptionalID(parentFlag)
	if err != nil {
		return fmt.Errorf("invalid parent id %q", parentFlag)
	}

	opts := catalog.DefaultReparentOptions()
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.BatchSize, _ = cmd.Flags().GetInt("batch-size")
	if skip, _ := cmd.Flags().GetBool("skip-rules"); skip {
		opts.ValidateConstraints = false
	}
	if skip, _ := cmd.Flags().GetBool("skip-products"); skip {
		opts.UpdateProducts = false
	}
	user, _ := cmd.Flags().GetString("user")

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	result := s.service.Reparent(cmd.Context(), catalog.ReparentRequest{
		TenantID:    tenantID,
		CategoryID:  categoryID,
		NewParentID: parentID,
		UserID:      user,
		Options:     opts,
	})

	if err := printResults(cmd, []catalog.ReparentingResult{*result}); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("move of %s failed", categoryID)
	}
	return nil
}

func tenantFromFlags(cmd *cobra.Command) (uuid.UUID, error) {
	tenant, _ := cmd.Flags().GetString("tenant")
	if tenant == "" {
		return uuid.Nil, fmt.Errorf("--tenant is required")
	}
	id, err := uuid.Parse(tenant)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid tenant id %q", tenant)
	}
	return id, nil
}
