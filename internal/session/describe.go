package session

import (
	"fmt"
	"strings"

	"sys2core/internal/csp"
)

// DescribeResult renders a structured result as a short natural-language
// summary (spec.md §6.3 "describe_result"). This is a minimal built-in
// renderer, not the natural-language phrasing layer proper (spec.md §1
// lists that as an external collaborator) — it exists so a caller with no
// phrasing layer at all still gets something human-readable back.
func (s *Session) DescribeResult(result any) string {
	switch r := result.(type) {
	case *LearnResult:
		return describeLearn(r)
	case *QueryResult:
		return describeQuery(r)
	case *ProveResult:
		return describeProve(r)
	case *csp.Result:
		return describeCSP(r)
	default:
		return fmt.Sprintf("unrecognized result type %T", result)
	}
}

func describeLearn(r *LearnResult) string {
	if !r.Success {
		if r.Rejected != nil {
			return fmt.Sprintf("rejected: %s", r.Rejected.Reason)
		}
		return fmt.Sprintf("rejected: %s", strings.Join(r.Errors, "; "))
	}
	return fmt.Sprintf("learned %d fact(s)", r.FactsAdded)
}

func describeQuery(r *QueryResult) string {
	if !r.Success {
		return "no results found"
	}
	if !r.Ambiguous {
		return fmt.Sprintf("found 1 result (%s)", r.AllResults[0].Method)
	}
	return fmt.Sprintf("found %d results, most confident via %s", len(r.AllResults), r.AllResults[0].Method)
}

func describeProve(r *ProveResult) string {
	if !r.Valid {
		return "unprovable"
	}
	return fmt.Sprintf("proved (confidence %.2f, via %s, %d step(s))", r.Confidence, r.Method, len(r.Steps))
}

func describeCSP(r *csp.Result) string {
	if !r.Success {
		if r.TimedOut {
			return "no solution found before timeout"
		}
		return "no solution found"
	}
	return fmt.Sprintf("found %d solution(s) in %d node(s), %d backtrack(s)", len(r.Solutions), r.Stats.Nodes, r.Stats.Backtracks)
}
