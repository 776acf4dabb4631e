package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cspFactsFile   string
	cspProblemFile string
)

var cspCmd = &cobra.Command{
	Use:   "csp",
	Short: "solve a constraint-satisfaction problem over a session's facts",
	Long: `Learns --facts (same ground-fact line format as "sys2 learn", optional)
into a fresh session, then solves the --problem YAML file's CSP against it.

Problem file shape:

  variables:
    - name: Alice
      domain: [T1, T2]
    - name: Bob
      domain: [T1, T2]
  all_different:
    - [Alice, Bob]
  no_conflict:
    - {var_a: Alice, operator: conflictsWith, var_b: Bob}
  relational:
    - {var_a: Who, operator: likes, var_b: Juliet, negate: false}
  max_solutions: 100
  timeout_ms: 10000`,
	RunE: runCSP,
}

func init() {
	cspCmd.Flags().StringVar(&cspFactsFile, "facts", "", "path to a fact file to learn before solving (default: none)")
	cspCmd.Flags().StringVar(&cspProblemFile, "problem", "", "path to the CSP problem YAML file (required)")
	cspCmd.MarkFlagRequired("problem")
}

type cspVariableSpec struct {
	Name   string   `yaml:"name"`
	Domain []string `yaml:"domain"`
}

type cspRelationalSpec struct {
	VarA     string `yaml:"var_a"`
	Operator string `yaml:"operator"`
	VarB     string `yaml:"var_b"`
	Negate   bool   `yaml:"negate"`
}

type cspNoConflictSpec struct {
	VarA     string `yaml:"var_a"`
	Operator string `yaml:"operator"`
	VarB     string `yaml:"var_b"`
}

type cspProblemSpec struct {
	Variables    []cspVariableSpec   `yaml:"variables"`
	AllDifferent [][]string          `yaml:"all_different"`
	NoConflict   []cspNoConflictSpec `yaml:"no_conflict"`
	Relational   []cspRelationalSpec `yaml:"relational"`
	MaxSolutions int                 `yaml:"max_solutions"`
	TimeoutMS    int                 `yaml:"timeout_ms"`
}

func runCSP(cmd *cobra.Command, args []string) error {
	problemData, err := os.ReadFile(cspProblemFile)
	if err != nil {
		return usageErrorf("reading problem file: %w", err)
	}
	var spec cspProblemSpec
	if err := yaml.Unmarshal(problemData, &spec); err != nil {
		return usageErrorf("parsing problem file: %w", err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if cspFactsFile != "" {
		f, err := os.Open(cspFactsFile)
		if err != nil {
			return usageErrorf("opening facts file: %w", err)
		}
		doc, err := readFactLines(f)
		f.Close()
		if err != nil {
			return usageErrorf("reading facts file: %w", err)
		}
		if _, err := s.Learn(doc); err != nil {
			return err
		}
	}

	builder := s.CreateCSPSolver()
	for _, v := range spec.Variables {
		builder.Variable(v.Name, v.Domain...)
	}
	for _, group := range spec.AllDifferent {
		builder.AllDifferent(group...)
	}
	for _, nc := range spec.NoConflict {
		builder.NoConflict(nc.VarA, nc.Operator, nc.VarB)
	}
	for _, rel := range spec.Relational {
		if rel.Negate {
			builder.RelationalNegated(rel.VarA, rel.Operator, rel.VarB)
		} else {
			builder.Relational(rel.VarA, rel.Operator, rel.VarB)
		}
	}
	if spec.MaxSolutions > 0 {
		builder.MaxSolutions(spec.MaxSolutions)
	}
	if spec.TimeoutMS > 0 {
		builder.TimeoutMS(spec.TimeoutMS)
	}

	result := builder.Solve()
	if result.TimedOut {
		return timeoutError(fmt.Sprintf("csp solve timed out after %dms (%d solution(s) found so far)", result.Stats.TimeMS, len(result.Solutions)))
	}

	fmt.Println(s.DescribeResult(result))
	for _, sol := range result.Solutions {
		fmt.Printf("  %v\n", sol)
	}
	return nil
}
