package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var learnFile string

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "learn a batch of ground facts",
	Long: `Reads ground-fact lines ("operator arg1 arg2 … argN" per line,
"#"-prefixed lines are comments) from --file or stdin and commits them as
one transactional learn batch.`,
	RunE: runLearn,
}

func init() {
	learnCmd.Flags().StringVar(&learnFile, "file", "", "path to a fact file (default: read stdin)")
}

func runLearn(cmd *cobra.Command, args []string) error {
	var r *os.File
	if learnFile == "" {
		r = os.Stdin
	} else {
		f, err := os.Open(learnFile)
		if err != nil {
			return usageErrorf("opening fact file: %w", err)
		}
		defer f.Close()
		r = f
	}

	doc, err := readFactLines(r)
	if err != nil {
		return usageErrorf("reading fact lines: %w", err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.Learn(doc)
	if err != nil {
		return err
	}

	fmt.Println(s.DescribeResult(result))
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return nil
}
