package kb

import "errors"

// Sentinel errors a session's learn/query/prove pipeline wraps and returns
// (spec.md §4.4 "Failures", §4.6 "Failures", §7).
var (
	ErrUndefinedVariable         = errors.New("kb: undefined scope variable")
	ErrArityOverflow             = errors.New("kb: operator arity exceeds max_arity")
	ErrUnknownGraph              = errors.New("kb: reference to undeclared graph")
	ErrContradictionRejected     = errors.New("kb: tentative fact contradicts existing knowledge")
	ErrGoalUnprovable            = errors.New("kb: goal could not be proven")
	ErrDepthExceeded             = errors.New("kb: proof search exceeded max depth")
	ErrTimeout                   = errors.New("kb: operation exceeded its time budget")
	ErrCapacityWarning           = errors.New("kb: strategy signaled a capacity warning")
	ErrStrategyContractViolation = errors.New("kb: strategy violated its contract")
)
