package main

import (
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the tenant's category tree",
	Args:  cobra.NoArgs,
	RunE:  runTree,
}

func runTree(cmd *cobra.Command, _ []string) error {
	tenantID, err := tenantFromFlags(cmd)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	roots, err := s.service.GetTree(cmd.Context(), tenantID)
	if err != nil {
		return err
	}
	return printTree(cmd, roots)
}
