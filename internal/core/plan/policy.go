package plan

import "github.com/fplkit/planner/internal/core/domain"

// =============================================================================
// Free-Transfer Policies
// =============================================================================

// FreeTransferPolicy decides the free-transfer allowance of a newly
// materialized (or reset) gameweek, given the previous gameweek's state.
type FreeTransferPolicy func(prev domain.GameweekState) int

// StaticFreeTransfers grants a fixed allowance every gameweek.
func StaticFreeTransfers(n int) FreeTransferPolicy {
	return func(domain.GameweekState) int {
		return n
	}
}

// AccumulatingFreeTransfers banks unused transfers up to a maximum:
// allowance = prev allowance - transfers used + 1, clamped to [1, max].
func AccumulatingFreeTransfers(max int) FreeTransferPolicy {
	return func(prev domain.GameweekState) int {
		n := prev.FreeTransfers - len(prev.ActiveTransfers()) + 1
		if n < 1 {
			n = 1
		}
		if n > max {
			n = max
		}
		return n
	}
}
