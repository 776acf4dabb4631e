package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query OPERATOR [arg...]",
	Short: "query a pattern against the session's facts",
	Long: `Each arg is either a bare atom name or a "?name" hole. At least one
hole is required for a query to be meaningful, though a fully-ground
pattern (a direct-match check) is also accepted.

Example:
  sys2 query isA Socrates ?t`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.Query(args[0], parseTerms(args[1:]))
	if err != nil {
		return usageErrorf("%w", err)
	}

	fmt.Println(s.DescribeResult(result))
	for _, r := range result.AllResults {
		fmt.Printf("  %v  (confidence %.2f, via %s)\n", r.Bindings, r.Confidence, r.Method)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	return nil
}
