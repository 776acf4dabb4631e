package main

import (
	"bufio"
	"io"
	"strings"

	"sys2core/internal/ast"
)

// parseTerm reads one CLI argument as a query/fact term: a leading "?"
// marks a hole, everything else is a bare atom name. The richer surface
// ($var refs, nested statements, graph invocations) needs the Sys2DSL
// parser this module doesn't implement (spec.md §1).
func parseTerm(tok string) ast.Term {
	if strings.HasPrefix(tok, "?") {
		return ast.Hole{Name: strings.TrimPrefix(tok, "?")}
	}
	return ast.AtomName{Name: tok}
}

// parseTerms converts a whitespace-split argument list to terms.
func parseTerms(toks []string) []ast.Term {
	out := make([]ast.Term, len(toks))
	for i, t := range toks {
		out[i] = parseTerm(t)
	}
	return out
}

// readFactLines reads ground-fact lines of the form "operator arg1 arg2
// … argN" from r, one statement per non-empty, non-comment ("#"-prefixed)
// line, building a single ast.Document for Session.Learn. Every argument
// is a bare atom name; lines needing $var/?hole/rule forms aren't
// expressible in this minimal CLI surface.
func readFactLines(r io.Reader) (*ast.Document, error) {
	doc := &ast.Document{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		doc.Statements = append(doc.Statements, &ast.Statement{
			Operator: fields[0],
			Args:     parseTerms(fields[1:]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}
