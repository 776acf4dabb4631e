package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var proveCmd = &cobra.Command{
	Use:   "prove OPERATOR arg...",
	Short: "prove a fully-ground goal",
	Long: `All arguments must be bare atom names — prove has no holes to fill.

Example:
  sys2 prove isA Socrates Mortal`,
	Args: cobra.MinimumNArgs(2),
	RunE: runProve,
}

func runProve(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.Prove(args[0], args[1:])
	if err != nil {
		return err
	}
	if !result.Valid {
		return &cliError{code: exitUnprovable, err: fmt.Errorf("%s%v is unprovable", args[0], args[1:])}
	}

	fmt.Println(s.DescribeResult(result))
	for _, step := range result.Steps {
		fmt.Printf("  %s: %s%v (confidence %.2f)\n", step.Kind, step.Operator, step.Args, step.Confidence)
	}
	return nil
}
