// Package contradiction implements the contradiction detector consulted
// on every learn (spec.md §4.10).
package contradiction

import (
	"fmt"

	"go.uber.org/multierr"

	"sys2core/internal/kb"
	"sys2core/internal/semantic"
)

// Contradiction describes a tentative fact rejected by the detector.
type Contradiction struct {
	Attempted *kb.Fact
	Existing  *kb.Fact
	Reason    string
}

func (c *Contradiction) Error() string {
	return fmt.Sprintf("contradiction: %s (attempted %s%v, existing %s%v)",
		c.Reason, c.Attempted.Operator, c.Attempted.Args, c.Existing.Operator, c.Existing.Args)
}

// Detector checks tentative facts against the KB and semantic index.
type Detector struct {
	kb  *kb.KB
	sem *semantic.Index
}

// New constructs a Detector bound to store and sem.
func New(store *kb.KB, sem *semantic.Index) *Detector {
	return &Detector{kb: store, sem: sem}
}

// Check runs every rule in spec.md §4.10 against a ground, two-or-more-arg
// tentative fact. Returns a multierr-joined error of every Contradiction
// found (empty/nil if none), so a caller can report every violation at
// once rather than stopping at the first.
func (d *Detector) Check(tentative *kb.Fact) error {
	var errs error
	errs = multierr.Append(errs, d.checkMutuallyExclusive(tentative))
	errs = multierr.Append(errs, d.checkContradictsSameArgs(tentative))
	errs = multierr.Append(errs, d.checkDerivedTransitive(tentative))
	errs = multierr.Append(errs, d.checkDerivedInherited(tentative))
	return errs
}

// checkMutuallyExclusive implements spec.md §4.10 mutuallyExclusive(op,
// {V1,V2,...}): `op S V_i` exists, tentative is `op S V_j`, i≠j, both in
// an exclusive set → reject.
func (d *Detector) checkMutuallyExclusive(tentative *kb.Fact) error {
	if len(tentative.Args) != 2 {
		return nil
	}
	subject, value := tentative.Args[0], tentative.Args[1]
	set := d.sem.ExclusiveSetFor(tentative.Operator, value)
	if set == nil {
		return nil
	}
	for _, existing := range d.kb.ByOperator(tentative.Operator) {
		if existing.IsRule || len(existing.Args) != 2 || existing.Args[0] != subject {
			continue
		}
		existingValue := existing.Args[1]
		if existingValue == value {
			continue
		}
		for _, v := range set {
			if v == existingValue {
				return &Contradiction{
					Attempted: tentative,
					Existing:  existing,
					Reason:    fmt.Sprintf("%s is mutually exclusive with %s under %s for %s", value, existingValue, tentative.Operator, subject),
				}
			}
		}
	}
	return nil
}

// checkContradictsSameArgs implements spec.md §4.10 contradictsSameArgs:
// `op1 A B` exists, tentative `op2 A B` arrives, op1/op2 declared
// contradictory (symmetrically) → reject.
func (d *Detector) checkContradictsSameArgs(tentative *kb.Fact) error {
	if len(tentative.Args) != 2 {
		return nil
	}
	for _, f := range d.kb.All() {
		if f.IsRule || len(f.Args) != 2 {
			continue
		}
		if f.Args[0] != tentative.Args[0] || f.Args[1] != tentative.Args[1] {
			continue
		}
		if d.sem.Contradicts(f.Operator, tentative.Operator) {
			return &Contradiction{
				Attempted: tentative,
				Existing:  f,
				Reason:    fmt.Sprintf("%s contradicts %s on the same arguments", tentative.Operator, f.Operator),
			}
		}
	}
	return nil
}

// checkDerivedTransitive implements spec.md §4.10 "Derived transitive":
// if the operator is transitive, compute the closure of the existing
// relation and reject if adding the tentative edge would make the closure
// contradict itself via a declared contradicts-same-args pairing.
func (d *Detector) checkDerivedTransitive(tentative *kb.Fact) error {
	if len(tentative.Args) != 2 || !d.sem.IsTransitive(tentative.Operator) {
		return nil
	}
	subject, object := tentative.Args[0], tentative.Args[1]
	closure := d.transitiveClosureFrom(tentative.Operator, object, map[string]bool{subject: true})
	for reached := range closure {
		for _, f := range d.kb.ByArg(subject) {
			if f.IsRule || len(f.Args) != 2 {
				continue
			}
			if f.Args[0] == subject && f.Args[1] == reached && d.sem.Contradicts(f.Operator, tentative.Operator) {
				return &Contradiction{
					Attempted: tentative,
					Existing:  f,
					Reason:    fmt.Sprintf("transitive closure of %s from %s would reach %s, contradicting %s", tentative.Operator, subject, reached, f.Operator),
				}
			}
		}
	}
	return nil
}

func (d *Detector) transitiveClosureFrom(operator, start string, visited map[string]bool) map[string]bool {
	closure := map[string]bool{start: true}
	frontier := []string{start}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		for _, f := range d.kb.ByOperator(operator) {
			if f.IsRule || len(f.Args) != 2 || f.Args[0] != cur {
				continue
			}
			next := f.Args[1]
			if !closure[next] && !visited[next] {
				closure[next] = true
				visited[next] = true
				frontier = append(frontier, next)
			}
		}
	}
	return closure
}

// checkDerivedInherited implements spec.md §4.10 "Derived inherited": walk
// isA chains from the tentative fact's subject and reject if an ancestor
// has a contradicting property declared via an inheritable operator.
func (d *Detector) checkDerivedInherited(tentative *kb.Fact) error {
	if len(tentative.Args) != 2 || !d.sem.IsInheritable(tentative.Operator) {
		return nil
	}
	subject, value := tentative.Args[0], tentative.Args[1]
	ancestors := d.transitiveClosureFrom("isA", subject, map[string]bool{subject: true})
	for ancestor := range ancestors {
		if ancestor == subject {
			continue
		}
		for _, f := range d.kb.ByOperator(tentative.Operator) {
			if f.IsRule || len(f.Args) != 2 || f.Args[0] != ancestor || f.Args[1] == value {
				continue
			}
			if set := d.sem.ExclusiveSetFor(tentative.Operator, value); set != nil {
				for _, v := range set {
					if v == f.Args[1] {
						return &Contradiction{
							Attempted: tentative,
							Existing:  f,
							Reason:    fmt.Sprintf("%s inherits %s %s from %s, contradicting tentative %s", subject, tentative.Operator, f.Args[1], ancestor, value),
						}
					}
				}
			}
		}
	}
	return nil
}
